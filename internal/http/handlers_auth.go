package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ammaryasser21/Mini-instabay/internal/api"
	"github.com/ammaryasser21/Mini-instabay/internal/auth"
	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
)

type loginPage struct {
	Email string
	Error string
	Flash string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.alreadyAuthenticated(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.render(w, r, "login.html", loginPage{Flash: r.URL.Query().Get("flash")})
	case http.MethodPost:
		s.handleLoginSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLoginError(w, r, http.StatusBadRequest, "", "Invalid request format")
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		s.renderLoginError(w, r, http.StatusUnprocessableEntity, email, "Email and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Login rejected", "email", email, log.FieldError, err)
		s.renderLoginError(w, r, loginFailureStatus(err), email, loginFailureMessage(err))
		return
	}

	claims, err := auth.Decode(token)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Token decode failed", log.FieldError, err)
		s.renderLoginError(w, r, http.StatusBadGateway, email, "Login service returned an unusable token")
		return
	}

	user, err := s.users.GetUser(r.Context(), token, claims.UserID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Profile fetch after login failed",
			log.FieldUserID, claims.UserID, log.FieldError, err)
		s.renderLoginError(w, r, http.StatusBadGateway, email, "Could not load your profile")
		return
	}

	now := time.Now()
	expires := now.Add(s.sessionTTL)
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(expires) {
		expires = claims.ExpiresAt
	}

	sess := storage.Session{
		ID:        newSessionID(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if err := s.sessions.Create(r.Context(), sess); err != nil {
		s.logger.ErrorContext(r.Context(), "Session create failed", log.FieldError, err)
		s.renderLoginError(w, r, http.StatusInternalServerError, email, "Could not start a session")
		return
	}
	s.sessionCache.Set(sess.ID, sess)
	s.setSessionCookie(w, sess.ID, expires)

	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldUserID, user.ID, log.FieldSessionID, sess.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, status int, email, msg string) {
	w.WriteHeader(status)
	s.render(w, r, "login.html", loginPage{Email: email, Error: msg})
}

func loginFailureStatus(err error) int {
	if apiErr, ok := err.(*api.Error); ok && apiErr.StatusCode == http.StatusUnauthorized {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

func loginFailureMessage(err error) string {
	if apiErr, ok := err.(*api.Error); ok {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return "Invalid email or password"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return "Login service is unavailable, try again later"
}

type registerPage struct {
	Form  core.Registration
	Error string
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.alreadyAuthenticated(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.render(w, r, "register.html", registerPage{})
	case http.MethodPost:
		s.handleRegisterSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "register.html", registerPage{Error: "Invalid request format"})
		return
	}

	reg := core.Registration{
		UserName:    sanitizeInput(r.Form.Get("userName")),
		Email:       strings.ToLower(sanitizeInput(r.Form.Get("email"))),
		PhoneNumber: sanitizeInput(r.Form.Get("phoneNumber")),
		Password:    r.Form.Get("password"),
	}

	if err := reg.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "register.html", registerPage{Form: reg, Error: registrationMessage(err)})
		return
	}

	if err := s.users.Register(r.Context(), reg); err != nil {
		s.logger.WarnContext(r.Context(), "Registration rejected", "email", reg.Email, log.FieldError, err)
		status := http.StatusBadGateway
		msg := "Registration service is unavailable, try again later"
		if apiErr, ok := err.(*api.Error); ok && apiErr.StatusCode < 500 {
			status = http.StatusUnprocessableEntity
			if apiErr.Message != "" {
				msg = apiErr.Message
			} else {
				msg = "Registration was rejected"
			}
		}
		w.WriteHeader(status)
		s.render(w, r, "register.html", registerPage{Form: reg, Error: msg})
		return
	}

	s.logger.InfoContext(r.Context(), "User registered", "email", reg.Email)
	http.Redirect(w, r, "/login?flash="+url.QueryEscape(flashRegistered), http.StatusSeeOther)
}

const flashRegistered = "Account created, you can log in now"

func registrationMessage(err error) string {
	switch err {
	case core.ErrEmptyUserName:
		return "User name is required"
	case core.ErrInvalidEmail:
		return "Enter a valid email address"
	case core.ErrInvalidPhone:
		return "Phone number must be in international format, e.g. +201234567890"
	case core.ErrWeakPassword:
		return "Password needs at least 8 characters with upper case, lower case and a digit"
	default:
		return err.Error()
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sess, ok := sessionFromRequest(r); ok {
		if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
			s.logger.WarnContext(r.Context(), "Session delete failed",
				log.FieldSessionID, sess.ID, log.FieldError, err)
		}
		s.sessionCache.Delete(sess.ID)
		s.txCache.Delete(sess.User.ID)
		s.summaryCache.Delete(sess.User.ID)
	}

	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// alreadyAuthenticated is a soft check for the login and register pages,
// which sit outside the requireAuth wrapper.
func (s *Server) alreadyAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = s.lookupSession(r, cookie.Value)
	return err == nil
}
