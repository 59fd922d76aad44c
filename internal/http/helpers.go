package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
)

func contextWithSession(ctx context.Context, sess storage.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionFromRequest returns the session placed in the context by
// requireAuth. The bool is false only for handlers mounted outside the
// requireAuth wrapper.
func sessionFromRequest(r *http.Request) (storage.Session, bool) {
	sess, ok := r.Context().Value(sessionKey).(storage.Session)
	return sess, ok
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// newSessionID creates an opaque session identifier for the cookie.
func newSessionID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("sess_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseYear extracts the year query parameter, defaulting to the current year.
func parseYear(r *http.Request) int {
	year := time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 2000 && y < 2200 {
			year = y
		}
	}
	return year
}

// isHTMX reports whether the request came from an hx- attribute swap.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render executes a page template, falling back to a 500 when templates
// failed to parse at startup.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writePartial writes an htmx fragment with the given status.
func writePartial(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func errorPartial(msg string) string {
	return `<div class="error">` + template.HTMLEscapeString(msg) + `</div>`
}

func successPartial(msg string) string {
	return `<div class="success">` + template.HTMLEscapeString(msg) + `</div>`
}

// txRow is the view model for a transaction line.
type txRow struct {
	Date         string
	Counterparty string
	Direction    string
	Amount       string
	Outgoing     bool
}

// newTxRow classifies a transaction from the session user's point of view.
func newTxRow(tx core.Transaction, userID string) txRow {
	outgoing := tx.Type == core.Send || (tx.Type == "" && tx.SenderID == userID)
	counterparty := tx.ReceiverID
	direction := "Sent"
	if !outgoing {
		counterparty = tx.SenderID
		direction = "Received"
	}
	return txRow{
		Date:         tx.CreatedAt.Format("02 Jan 2006 15:04"),
		Counterparty: counterparty,
		Direction:    direction,
		Amount:       core.FormatAmount(tx.Amount),
		Outgoing:     outgoing,
	}
}
