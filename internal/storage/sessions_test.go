package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(id string, expiresAt time.Time) Session {
	return Session{
		ID:    id,
		Token: "tok-" + id,
		User: core.User{
			ID:          "u-1",
			UserName:    "ammar",
			Email:       "a@b.co",
			PhoneNumber: "+201234567890",
			Balance:     decimal.RequireFromString("99.50"),
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := testSession("s-1", time.Now().Add(time.Hour))
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "s-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "tok-s-1" {
		t.Fatalf("token = %q", got.Token)
	}
	if got.User.UserName != "ammar" {
		t.Fatalf("user = %+v", got.User)
	}
	if !got.User.Balance.Equal(decimal.RequireFromString("99.50")) {
		t.Fatalf("balance = %s", got.User.Balance)
	}
}

func TestSessionNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testSession("old", time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Get(ctx, "old"); err != ErrSessionNotFound {
		t.Fatalf("expected expired session to be not found, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := testSession("s-2", time.Now().Add(time.Hour))
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	user := sess.User
	user.Balance = decimal.RequireFromString("42.00")
	if err := store.UpdateUser(ctx, "s-2", user); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := store.Get(ctx, "s-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.User.Balance.Equal(decimal.RequireFromString("42.00")) {
		t.Fatalf("balance = %s", got.User.Balance)
	}

	if err := store.UpdateUser(ctx, "missing", user); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.Create(ctx, testSession("live", time.Now().Add(time.Hour)))
	_ = store.Create(ctx, testSession("dead1", time.Now().Add(-time.Hour)))
	_ = store.Create(ctx, testSession("dead2", time.Now().Add(-time.Minute)))

	n, err := store.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged %d", n)
	}
	if _, err := store.Get(ctx, "live"); err != nil {
		t.Fatalf("live session should remain: %v", err)
	}
}
