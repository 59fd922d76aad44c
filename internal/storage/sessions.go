// Package storage persists browser sessions in SQLite so logins survive a
// restart of the web process. The session row carries the bearer token and a
// snapshot of the user profile; everything else the product shows is fetched
// from the remote services on demand.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one logged-in browser.
type Session struct {
	ID        string
	Token     string
	User      core.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens (creating if needed) the session database and runs
// the embedded migrations.
func NewSessionStore(dbPath string) (*SessionStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create inserts a new session row.
func (s *SessionStore) Create(ctx context.Context, sess Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, user_json, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Token, string(userJSON), sess.CreatedAt.Unix(), sess.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns the session for id, or ErrSessionNotFound. Expired rows are
// deleted on the way out and reported as not found.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	var (
		sess      Session
		userJSON  string
		createdAt int64
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, user_json, created_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Token, &userJSON, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("select session: %w", err)
	}

	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.ExpiresAt = time.Unix(expiresAt, 0)
	if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
		return Session{}, fmt.Errorf("unmarshal user snapshot: %w", err)
	}

	if sess.Expired() {
		_ = s.Delete(ctx, id)
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// UpdateUser refreshes the cached user snapshot, e.g. after a transfer
// changed the balance.
func (s *SessionStore) UpdateUser(ctx context.Context, id string, user core.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET user_json = ? WHERE id = ?`, string(userJSON), id)
	if err != nil {
		return fmt.Errorf("update session user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session (logout).
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes all sessions past their expiry and returns the count.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
