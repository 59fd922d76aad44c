package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ammaryasser21/Mini-instabay/internal/api"
	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
)

type sendPage struct {
	UserName string
	Balance  string
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sess, ok := sessionFromRequest(r)
		if !ok {
			s.redirectToLogin(w, r)
			return
		}
		s.render(w, r, "send.html", sendPage{
			UserName: sess.User.UserName,
			Balance:  core.FormatAmount(sess.User.Balance),
		})
	case http.MethodPost:
		s.handleSendSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSendSubmit validates the transfer against the cached balance,
// forwards it to the transaction service, and answers with an htmx
// fragment for the result area.
func (s *Server) handleSendSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(r)
	if !ok {
		s.redirectToLogin(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error", log.FieldError, err, log.FieldPath, r.URL.Path)
		writePartial(w, http.StatusBadRequest, errorPartial("Invalid request format"))
		return
	}

	phone := sanitizeInput(r.Form.Get("receiverPhone"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))

	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		writePartial(w, http.StatusUnprocessableEntity, errorPartial("Enter a positive amount with at most two decimals"))
		return
	}

	req := core.TransferRequest{ReceiverPhone: phone, Amount: amount}
	if err := req.Validate(sess.User.Balance); err != nil {
		writePartial(w, http.StatusUnprocessableEntity, errorPartial(transferMessage(err)))
		return
	}

	tx, err := s.txs.Transfer(r.Context(), sess.Token, req)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transfer failed",
			log.FieldUserID, sess.User.ID,
			log.FieldReceiver, phone,
			log.FieldAmount, amount.String(),
			log.FieldError, err)
		status := http.StatusBadGateway
		msg := "Transfer service is unavailable, try again later"
		if apiErr, ok := err.(*api.Error); ok {
			if apiErr.StatusCode < 500 {
				status = http.StatusUnprocessableEntity
			}
			if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		writePartial(w, status, errorPartial(msg))
		return
	}

	s.logger.InfoContext(r.Context(), "Transfer completed",
		log.FieldUserID, sess.User.ID,
		log.FieldTxID, tx.ID,
		log.FieldReceiver, phone,
		log.FieldAmount, amount.String())

	// The balance changed: refresh the snapshot and drop derived caches.
	s.txCache.Delete(sess.User.ID)
	s.summaryCache.Delete(sess.User.ID)
	if user, err := s.users.GetUser(r.Context(), sess.Token, sess.User.ID); err != nil {
		s.logger.WarnContext(r.Context(), "Balance refresh after transfer failed",
			log.FieldUserID, sess.User.ID, log.FieldError, err)
		s.sessionCache.Delete(sess.ID)
	} else {
		s.updateSessionUser(r, sess, user)
	}

	w.Header().Set("HX-Trigger", `{"transfer:completed": {}}`)
	writePartial(w, http.StatusOK, successPartial(
		"Sent "+core.FormatAmount(amount)+" to "+phone))
}

func transferMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidPhone):
		return "Receiver phone must be in international format, e.g. +201234567890"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Enter a positive amount"
	case errors.Is(err, core.ErrInsufficientBalance):
		return "Amount exceeds your current balance"
	default:
		return err.Error()
	}
}
