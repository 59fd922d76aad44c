package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
)

const recentTransactions = 5

type dashboardPage struct {
	UserName string
	Balance  string
	Recent   []txRow
	LoadErr  string
}

// handleDashboard renders the landing page: fresh balance plus the most
// recent transactions, fetched from the two services in parallel.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := sessionFromRequest(r)
	if !ok {
		s.redirectToLogin(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var (
		user core.User
		txs  []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetUser(gctx, sess.Token, sess.User.ID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		list, err := s.listTransactions(gctx, sess.Token, sess.User.ID)
		if err != nil {
			return err
		}
		txs = list
		return nil
	})

	page := dashboardPage{UserName: sess.User.UserName, Balance: core.FormatAmount(sess.User.Balance)}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard fetch failed",
			log.FieldUserID, sess.User.ID, log.FieldError, err)
		// Stale session snapshot is better than an empty page.
		page.LoadErr = "Some data could not be refreshed"
	} else {
		page.UserName = user.UserName
		page.Balance = core.FormatAmount(user.Balance)
		s.updateSessionUser(r, sess, user)
	}

	for i, tx := range txs {
		if i >= recentTransactions {
			break
		}
		page.Recent = append(page.Recent, newTxRow(tx, sess.User.ID))
	}

	s.render(w, r, "dashboard.html", page)
}

// listTransactions returns the user's transactions newest first, through
// the short-lived cache.
func (s *Server) listTransactions(ctx context.Context, token, userID string) ([]core.Transaction, error) {
	if txs, ok := s.txCache.Get(userID); ok {
		result := make([]core.Transaction, len(txs))
		copy(result, txs)
		return result, nil
	}

	txs, err := s.txs.ListByUser(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(txs)
	s.txCache.Set(userID, txs)
	return txs, nil
}

func sortNewestFirst(txs []core.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
