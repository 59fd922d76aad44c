package http

import (
	"net/http"

	"github.com/ammaryasser21/Mini-instabay/internal/log"
)

type historyPage struct {
	UserName string
	Rows     []txRow
	LoadErr  string
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
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

	page := historyPage{UserName: sess.User.UserName}
	txs, err := s.listTransactions(r.Context(), sess.Token, sess.User.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list failed",
			log.FieldUserID, sess.User.ID, log.FieldError, err)
		page.LoadErr = "Transactions could not be loaded"
	}
	for _, tx := range txs {
		page.Rows = append(page.Rows, newTxRow(tx, sess.User.ID))
	}

	s.render(w, r, "history.html", page)
}
