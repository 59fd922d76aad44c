package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/ammaryasser21/Mini-instabay/internal/amqp"
	"github.com/ammaryasser21/Mini-instabay/internal/cache"
	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
	appweb "github.com/ammaryasser21/Mini-instabay/web"
)

// UserService is the slice of the user service the web layer needs.
type UserService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg core.Registration) error
	GetUser(ctx context.Context, token, userID string) (core.User, error)
}

// TransactionService talks to the transaction service.
type TransactionService interface {
	Transfer(ctx context.Context, token string, req core.TransferRequest) (core.Transaction, error)
	ListByUser(ctx context.Context, token, userID string) ([]core.Transaction, error)
}

// ReportService talks to the reporting service.
type ReportService interface {
	Summary(ctx context.Context, token, userID string) (core.Summary, error)
}

// ExportPublisher enqueues report export jobs. Optional: when nil the
// export button reports the feature as unavailable.
type ExportPublisher interface {
	PublishReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error
}

type Server struct {
	http.Server
	logger    *log.Logger
	templates *template.Template

	users     UserService
	txs       TransactionService
	reports   ReportService
	sessions  *storage.SessionStore
	publisher ExportPublisher

	sessionTTL  time.Duration
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Per-session caches so page loads don't hammer the remote services.
	sessionCache *cache.LRUCache[storage.Session]
	txCache      *cache.LRUCache[[]core.Transaction]
	summaryCache *cache.LRUCache[core.Summary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, logger *log.Logger, users UserService, txs TransactionService, reports ReportService, sessions *storage.SessionStore, publisher ExportPublisher, sessionTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger:           logger.WithComponent(log.ComponentHTTP),
		users:            users,
		txs:              txs,
		reports:          reports,
		sessions:         sessions,
		publisher:        publisher,
		sessionTTL:       sessionTTL,
		rateLimiter:      newRateLimiter(),
		metrics:          &securityMetrics{},
		sessionCache:     cache.NewLRUCache[storage.Session](500, 5*time.Minute),
		txCache:          cache.NewLRUCache[[]core.Transaction](200, 2*time.Minute),
		summaryCache:     cache.NewLRUCache[core.Summary](200, 2*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.requireAuth(s.handleLogout)))

	mux.HandleFunc("/", s.withSecurityHeaders(s.requireAuth(s.handleDashboard)))
	mux.HandleFunc("/send", s.withSecurityHeaders(s.requireAuth(s.handleSend)))
	mux.HandleFunc("/history", s.withSecurityHeaders(s.requireAuth(s.handleHistory)))
	mux.HandleFunc("/reports", s.withSecurityHeaders(s.requireAuth(s.handleReports)))
	mux.HandleFunc("/reports/export", s.withSecurityHeaders(s.requireAuth(s.handleReportExport)))

	return s
}

// startCacheCleanup runs periodic cleanup for the LRU caches and purges
// expired sessions from the store.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sessionsCleaned := s.sessionCache.CleanExpired()
			txCleaned := s.txCache.CleanExpired()
			summariesCleaned := s.summaryCache.CleanExpired()
			if sessionsCleaned > 0 || txCleaned > 0 || summariesCleaned > 0 {
				s.logger.Debug("Cache cleanup completed",
					"session_entries_removed", sessionsCleaned,
					"tx_entries_removed", txCleaned,
					"summary_entries_removed", summariesCleaned)
			}
			if s.sessions != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if n, err := s.sessions.PurgeExpired(ctx); err != nil {
					s.logger.Warn("Session purge failed", log.FieldError, err)
				} else if n > 0 {
					s.logger.Debug("Expired sessions purged", "count", n)
				}
				cancel()
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	if s.sessions != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := s.sessions.Get(ctx, "readiness-probe"); err != nil && err != storage.ErrSessionNotFound {
			s.logger.WarnContext(r.Context(), "Session store not ready", log.FieldError, err)
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
