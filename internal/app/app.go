package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careeradvisor/internal/util"
	"careeradvisor/pkg/ai"
	"careeradvisor/pkg/auth"
	"careeradvisor/pkg/domain"
	"careeradvisor/pkg/store"
)

// MinUserTextLength is the boundary check on the self-description text,
// counted after trimming whitespace.
const MinUserTextLength = 50

// Config wires the application's dependencies.
type Config struct {
	Store             store.Store
	Generator         ai.TextGenerator
	Tokens            *auth.TokenIssuer
	RecorderQueueSize int
}

// App orchestrates the recommendation pipeline and the account flows.
type App struct {
	store     store.Store
	generator ai.TextGenerator
	tokens    *auth.TokenIssuer
	recorder  *Recorder
}

// New constructs the application. The caller owns Close, which drains the
// pending audit writes.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("text generator required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	return &App{
		store:     cfg.Store,
		generator: cfg.Generator,
		tokens:    cfg.Tokens,
		recorder:  NewRecorder(cfg.Store, cfg.RecorderQueueSize),
	}, nil
}

// Close drains and stops the audit recorder.
func (a *App) Close() {
	a.recorder.Close()
}

// Recommend runs the pipeline: validate, build the prompt, call the
// completion service, extract the JSON reply, and dispatch a best-effort
// audit write. The returned set is independent of whether the write lands.
func (a *App) Recommend(ctx context.Context, userText string) (domain.RecommendationSet, error) {
	if len(strings.TrimSpace(userText)) < MinUserTextLength {
		return domain.RecommendationSet{}, ErrTextTooShort
	}
	systemPrompt, userPrompt := ai.BuildPrompt(userText)
	reply, err := a.generator.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return domain.RecommendationSet{}, err
	}
	set, err := ai.ExtractRecommendations(reply)
	if err != nil {
		return domain.RecommendationSet{}, err
	}
	a.recorder.Record(ctx, userText, set)
	return set, nil
}

// History returns persisted request/response pairs, newest first. Paging
// values are clamped by the store.
func (a *App) History(limit, offset int) ([]domain.RecommendationRecord, error) {
	return a.store.ListRecommendations(limit, offset)
}

// SignUp creates an account and returns a signed token for it.
func (a *App) SignUp(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrEmailAndPasswordRequired
	}
	if err := auth.ValidatePassword(password); err != nil {
		return "", err
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return "", store.ErrEmailTaken
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.CreateUser(user); err != nil {
		return "", err
	}
	return a.tokens.Issue(user.ID, user.Email)
}

// Login validates credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *App) Login(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrEmailAndPasswordRequired
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return a.tokens.Issue(user.ID, user.Email)
}

// UserFromToken verifies a bearer token and returns its claims.
func (a *App) UserFromToken(token string) (auth.Claims, error) {
	return a.tokens.Verify(token)
}
