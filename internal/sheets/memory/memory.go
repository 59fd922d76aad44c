// Package memory is an in-process ReportWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
	ports "github.com/ammaryasser21/Mini-instabay/internal/sheets"
)

// Report is one recorded export.
type Report struct {
	UserName string
	Year     int
	Rows     []core.MonthlyBucket
}

type Writer struct {
	mu      sync.Mutex
	reports []Report
}

var _ ports.ReportWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) AppendReport(_ context.Context, userName string, year int, rows []core.MonthlyBucket) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, Report{UserName: userName, Year: year, Rows: rows})
	return fmt.Sprintf("mem:%d", len(w.reports)), nil
}

// Reports returns a copy of everything recorded so far.
func (w *Writer) Reports() []Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Report, len(w.reports))
	copy(out, w.reports)
	return out
}
