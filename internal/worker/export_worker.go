// Package worker turns queued report-export messages into spreadsheet rows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ammaryasser21/Mini-instabay/internal/amqp"
	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/sheets"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
)

// SessionReader is the slice of the session store the worker needs.
type SessionReader interface {
	Get(ctx context.Context, id string) (storage.Session, error)
}

// TransactionLister is the slice of the transaction service the worker needs.
type TransactionLister interface {
	ListByUser(ctx context.Context, token, userID string) ([]core.Transaction, error)
}

// ExportWorker processes report-export messages: it resolves the session,
// pulls the user's transactions, buckets them by month, and appends the
// result to the spreadsheet.
type ExportWorker struct {
	sessions SessionReader
	txs      TransactionLister
	writer   sheets.ReportWriter
}

func NewExportWorker(sessions SessionReader, txs TransactionLister, writer sheets.ReportWriter) *ExportWorker {
	return &ExportWorker{
		sessions: sessions,
		txs:      txs,
		writer:   writer,
	}
}

// HandleExportMessage processes a single export request. A missing or
// expired session drops the message instead of requeueing it forever.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	sess, err := w.sessions.Get(ctx, msg.SessionID)
	if errors.Is(err, storage.ErrSessionNotFound) {
		slog.WarnContext(ctx, "Dropping export for vanished session",
			"session_id", msg.SessionID,
			"user_id", msg.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	txs, err := w.txs.ListByUser(ctx, sess.Token, msg.UserID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	var yearTxs []core.Transaction
	for _, tx := range txs {
		if tx.CreatedAt.Year() == msg.Year {
			yearTxs = append(yearTxs, tx)
		}
	}

	rows := core.BucketMonthly(yearTxs)
	ref, err := w.writer.AppendReport(ctx, sess.User.UserName, msg.Year, rows)
	if err != nil {
		return fmt.Errorf("append report: %w", err)
	}

	slog.InfoContext(ctx, "Report exported",
		"user_id", msg.UserID,
		"year", msg.Year,
		"months", len(rows),
		"sheets_ref", ref)

	return nil
}
