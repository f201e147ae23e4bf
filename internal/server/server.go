package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"careeradvisor/internal/app"
	"careeradvisor/internal/util"
	"careeradvisor/pkg/ai"
	"careeradvisor/pkg/auth"
	"careeradvisor/pkg/domain"
	"careeradvisor/pkg/store"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App
	// StaticDir, when set, is served at / for the frontend pages.
	StaticDir string
	// RequireAuthHistory attaches the bearer middleware to the history
	// route. Off by default; turning it on is an operator decision.
	RequireAuthHistory bool
}

// Server exposes the HTTP endpoints.
type Server struct {
	app *app.App
	mux *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app: cfg.App,
		mux: http.NewServeMux(),
	}
	s.routes(cfg)
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.mux
}

func (s *Server) routes(cfg Config) {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/career-recommendations", s.handleRecommendations)
	if cfg.RequireAuthHistory {
		s.mux.Handle("/api/history", s.authenticated(s.handleHistory))
	} else {
		s.mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
			s.handleHistory(w, r, auth.Claims{})
		})
	}
	s.mux.HandleFunc("/api/signup", s.handleSignup)
	s.mux.HandleFunc("/api/login", s.handleLogin)

	if cfg.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, auth.Claims)

type claimsContextKey struct{}

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, app.ErrMissingToken.Error())
			return
		}
		claims, err := s.app.UserFromToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), claimsContextKey{}, claims))
		next(w, r, claims)
	})
}

// ClaimsFromContext returns the verified claims attached by the middleware.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(auth.Claims)
	return claims, ok
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req recommendationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	set, err := s.app.Recommend(r.Context(), req.UserText)
	if err != nil {
		writeRecommendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func writeRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	logger := util.LoggerFromContext(r.Context())
	switch {
	case errors.Is(err, app.ErrTextTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrNoJSON), errors.Is(err, ai.ErrBadJSON):
		logger.Error("recommendation reply unusable", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		var upstream *ai.UpstreamError
		if errors.As(err, &upstream) {
			logger.Error("completion service failed", "status", upstream.Status, "err", err)
		} else {
			logger.Error("recommendation failed", "err", err)
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, _ auth.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")
	records, err := s.app.History(limit, offset)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("history listing failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []domain.RecommendationRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Rows: records})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := s.app.SignUp(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, app.ErrEmailAndPasswordRequired), errors.Is(err, auth.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			util.LoggerFromContext(r.Context()).Error("signup failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailAndPasswordRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			util.LoggerFromContext(r.Context()).Error("login failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func queryInt(r *http.Request, name string) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

type recommendationRequest struct {
	UserText string `json:"userText"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type historyResponse struct {
	Rows []domain.RecommendationRecord `json:"rows"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
