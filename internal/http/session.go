package http

import (
	"net/http"
	"time"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
)

const sessionCookieName = "instabay_session"

const sessionKey contextKey = "session"

// requireAuth resolves the session cookie and redirects anonymous or
// expired visitors to the login page. Authenticated handlers read the
// session back with sessionFromRequest.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			s.redirectToLogin(w, r)
			return
		}

		sess, err := s.lookupSession(r, cookie.Value)
		if err != nil {
			if err != storage.ErrSessionNotFound {
				s.logger.ErrorContext(r.Context(), "Session lookup failed", log.FieldError, err)
			}
			s.clearSessionCookie(w)
			s.redirectToLogin(w, r)
			return
		}

		ctx := contextWithSession(r.Context(), sess)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) lookupSession(r *http.Request, id string) (storage.Session, error) {
	if sess, ok := s.sessionCache.Get(id); ok {
		if sess.Expired() {
			s.sessionCache.Delete(id)
			return storage.Session{}, storage.ErrSessionNotFound
		}
		return sess, nil
	}

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		return storage.Session{}, err
	}
	s.sessionCache.Set(id, sess)
	return sess, nil
}

// updateSessionUser persists a fresh user snapshot (new balance after a
// transfer, mostly) and keeps the cache coherent.
func (s *Server) updateSessionUser(r *http.Request, sess storage.Session, user core.User) {
	sess.User = user
	if err := s.sessions.UpdateUser(r.Context(), sess.ID, user); err != nil {
		s.logger.WarnContext(r.Context(), "Session user update failed",
			log.FieldSessionID, sess.ID, log.FieldError, err)
		s.sessionCache.Delete(sess.ID)
		return
	}
	s.sessionCache.Set(sess.ID, sess)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// redirectToLogin sends browsers a 303 and htmx requests an HX-Redirect,
// so partial swaps don't end up rendering the login page inline.
func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
