package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/ammaryasser21/Mini-instabay/internal/amqp"
	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
)

type fakeUsers struct {
	token      string
	user       core.User
	loginErr   error
	getErr     error
	registered []core.Registration
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeUsers) Register(ctx context.Context, reg core.Registration) error {
	f.registered = append(f.registered, reg)
	return nil
}

func (f *fakeUsers) GetUser(ctx context.Context, token, userID string) (core.User, error) {
	if f.getErr != nil {
		return core.User{}, f.getErr
	}
	return f.user, nil
}

type fakeTxs struct {
	txs         []core.Transaction
	transferErr error
	transferred []core.TransferRequest
	listCalls   int
}

func (f *fakeTxs) Transfer(ctx context.Context, token string, req core.TransferRequest) (core.Transaction, error) {
	if f.transferErr != nil {
		return core.Transaction{}, f.transferErr
	}
	f.transferred = append(f.transferred, req)
	return core.Transaction{ID: "tx-1", Amount: req.Amount, Type: core.Send, CreatedAt: time.Now()}, nil
}

func (f *fakeTxs) ListByUser(ctx context.Context, token, userID string) ([]core.Transaction, error) {
	f.listCalls++
	return f.txs, nil
}

type fakeReports struct {
	summary core.Summary
	err     error
}

func (f *fakeReports) Summary(ctx context.Context, token, userID string) (core.Summary, error) {
	if f.err != nil {
		return core.Summary{}, f.err
	}
	return f.summary, nil
}

type fakePublisher struct {
	published []*amqp.ReportExportMessage
	err       error
}

func (f *fakePublisher) PublishReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func testUser() core.User {
	return core.User{
		ID:          "user-1",
		UserName:    "ammar",
		Email:       "ammar@example.com",
		PhoneNumber: "+201234567890",
		Balance:     decimal.NewFromInt(1000),
		CreatedAt:   time.Now(),
	}
}

func signTestToken(t *testing.T, userID, name string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier": userID,
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name":           name,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

type testEnv struct {
	srv       *Server
	users     *fakeUsers
	txs       *fakeTxs
	reports   *fakeReports
	publisher *fakePublisher
	store     *storage.SessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		users:     &fakeUsers{user: testUser()},
		txs:       &fakeTxs{},
		reports:   &fakeReports{},
		publisher: &fakePublisher{},
		store:     store,
	}
	env.users.token = signTestToken(t, "user-1", "ammar")

	logger := log.New(log.Config{Level: slog.LevelError})
	env.srv = NewServer(":0", logger, env.users, env.txs, env.reports, store, env.publisher, 24*time.Hour)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = env.srv.Shutdown(ctx)
	})
	return env
}

// loginSession creates a session directly in the store and returns its cookie.
func (env *testEnv) loginSession(t *testing.T) *http.Cookie {
	t.Helper()
	sess := storage.Session{
		ID:        newSessionID(),
		Token:     env.users.token,
		User:      env.users.user,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := env.store.Create(context.Background(), sess); err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: sess.ID}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", rec.Code)
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/send", "/history", "/reports"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s status = %d, want 303", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("GET %s location = %q, want /login", path, loc)
		}
	}
}

func TestAnonymousHTMXGetsHXRedirect(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/send", nil)
	req.Header.Set("HX-Request", "true")
	rec := env.do(req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q, want /login", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy header")
	}
}

func TestRateLimitOnPost(t *testing.T) {
	env := newTestEnv(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < requestsPerMinute+1; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		last = env.do(req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestExpiredSessionRedirects(t *testing.T) {
	env := newTestEnv(t)

	sess := storage.Session{
		ID:        newSessionID(),
		Token:     env.users.token,
		User:      env.users.user,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := env.store.Create(context.Background(), sess); err != nil {
		t.Fatalf("creating session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.ID})
	rec := env.do(req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}
}

func TestReadyzFailsWithoutTemplates(t *testing.T) {
	env := newTestEnv(t)
	env.srv.templates = nil

	rec := env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

var errBoom = errors.New("boom")
