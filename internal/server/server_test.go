package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careeradvisor/internal/app"
	"careeradvisor/pkg/ai"
	"careeradvisor/pkg/auth"
	"careeradvisor/pkg/domain"
	"careeradvisor/pkg/store"
)

const longText = "שנים רבות עזרתי לילדים בשכונה עם שיעורי בית במתמטיקה ואני נהנה מאוד להסביר דברים מסובכים"

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type testEnv struct {
	srv   *httptest.Server
	store *store.MemoryStore
	app   *app.App
}

func newTestEnv(t *testing.T, gen ai.TextGenerator, requireAuthHistory bool) *testEnv {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := app.New(app.Config{
		Store:     mem,
		Generator: gen,
		Tokens:    auth.NewTokenIssuer("test-secret", time.Hour),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	s := New(Config{App: a, RequireAuthHistory: requireAuthHistory})
	srv := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return &testEnv{srv: srv, store: mem, app: a}
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestRecommendationsHappyPath(t *testing.T) {
	gen := &fakeGenerator{reply: `here you go: {"careers":[{"name":"מורה","explanation":"love of teaching","path":["a","b","c","d","e"],"salary":"12,000 - 18,000 ₪"}]} thanks`}
	env := newTestEnv(t, gen, false)

	resp := postJSON(t, env.srv.URL+"/api/career-recommendations", map[string]string{"userText": longText})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	set := decodeBody[domain.RecommendationSet](t, resp)
	if len(set.Careers) != 1 {
		t.Fatalf("careers = %d, want 1", len(set.Careers))
	}
	if len(set.Careers[0].Path) != 5 {
		t.Fatalf("path = %d steps", len(set.Careers[0].Path))
	}
}

func TestRecommendationsShortTextRejectedBeforeUpstream(t *testing.T) {
	gen := &fakeGenerator{reply: `{"careers":[]}`}
	env := newTestEnv(t, gen, false)

	resp := postJSON(t, env.srv.URL+"/api/career-recommendations", map[string]string{"userText": "short"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["error"] == "" {
		t.Fatal("expected error message")
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times, want 0", gen.calls)
	}
}

func TestRecommendationsMissingTextRejected(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, false)
	resp := postJSON(t, env.srv.URL+"/api/career-recommendations", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecommendationsUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: &ai.UpstreamError{Status: 503, Message: "model overloaded"}}
	env := newTestEnv(t, gen, false)

	resp := postJSON(t, env.srv.URL+"/api/career-recommendations", map[string]string{"userText": longText})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["error"] != "model overloaded" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestRecommendationsUnparseableReply(t *testing.T) {
	gen := &fakeGenerator{reply: "no structured data here at all"}
	env := newTestEnv(t, gen, false)

	resp := postJSON(t, env.srv.URL+"/api/career-recommendations", map[string]string{"userText": longText})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	resp.Body.Close()
}

type historyBody struct {
	Rows []domain.RecommendationRecord `json:"rows"`
}

func TestHistoryPagingAndOrder(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, false)
	for i := 0; i < 25; i++ {
		if _, err := env.store.SaveRecommendation(strings.Repeat("x", 60), domain.RecommendationSet{}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	resp, err := http.Get(env.srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	body := decodeBody[historyBody](t, resp)
	if len(body.Rows) != store.DefaultListLimit {
		t.Fatalf("default rows = %d, want %d", len(body.Rows), store.DefaultListLimit)
	}
	if body.Rows[0].ID < body.Rows[1].ID {
		t.Fatalf("rows not newest first: %d before %d", body.Rows[0].ID, body.Rows[1].ID)
	}

	resp, err = http.Get(env.srv.URL + "/api/history?limit=500&offset=-5")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	body = decodeBody[historyBody](t, resp)
	if len(body.Rows) != 25 {
		t.Fatalf("clamped rows = %d, want 25", len(body.Rows))
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, false)
	resp, err := http.Get(env.srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	body := decodeBody[historyBody](t, resp)
	if body.Rows == nil || len(body.Rows) != 0 {
		t.Fatalf("rows = %v, want empty array", body.Rows)
	}
}

func TestSignupLoginFlow(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, false)

	resp := postJSON(t, env.srv.URL+"/api/signup", map[string]string{"email": "u@example.com", "password": "password1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d, want 200", resp.StatusCode)
	}
	signup := decodeBody[map[string]string](t, resp)
	if signup["token"] == "" {
		t.Fatal("expected token on signup")
	}

	resp = postJSON(t, env.srv.URL+"/api/signup", map[string]string{"email": "u@example.com", "password": "password2"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, env.srv.URL+"/api/signup", map[string]string{"email": "v@example.com", "password": "12345"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, env.srv.URL+"/api/login", map[string]string{"email": "u@example.com", "password": "password1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	login := decodeBody[map[string]string](t, resp)
	if login["token"] == "" {
		t.Fatal("expected token on login")
	}
}

func TestLoginFailuresShareMessage(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, false)
	resp := postJSON(t, env.srv.URL+"/api/signup", map[string]string{"email": "u@example.com", "password": "password1"})
	resp.Body.Close()

	wrongPass := postJSON(t, env.srv.URL+"/api/login", map[string]string{"email": "u@example.com", "password": "nope-nope"})
	unknown := postJSON(t, env.srv.URL+"/api/login", map[string]string{"email": "ghost@example.com", "password": "password1"})
	if wrongPass.StatusCode != http.StatusUnauthorized || unknown.StatusCode != http.StatusUnauthorized {
		t.Fatalf("statuses = %d / %d, want 401 / 401", wrongPass.StatusCode, unknown.StatusCode)
	}
	a := decodeBody[map[string]string](t, wrongPass)
	b := decodeBody[map[string]string](t, unknown)
	if a["error"] != b["error"] {
		t.Fatalf("messages differ: %q vs %q", a["error"], b["error"])
	}

	missing := postJSON(t, env.srv.URL+"/api/login", map[string]string{"email": "u@example.com"})
	if missing.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing fields status = %d, want 400", missing.StatusCode)
	}
	missing.Body.Close()
}

func TestHistoryBearerMiddleware(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, true)

	resp, err := http.Get(env.srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["error"] != "missing token" {
		t.Fatalf("error = %q, want %q", body["error"], "missing token")
	}

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/api/history", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	body = decodeBody[map[string]string](t, resp)
	if body["error"] != "invalid token" {
		t.Fatalf("error = %q, want %q", body["error"], "invalid token")
	}

	signup := postJSON(t, env.srv.URL+"/api/signup", map[string]string{"email": "u@example.com", "password": "password1"})
	token := decodeBody[map[string]string](t, signup)["token"]
	req, _ = http.NewRequest(http.MethodGet, env.srv.URL+"/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{}, false)
	resp, err := http.Get(env.srv.URL + "/api/career-recommendations")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}
