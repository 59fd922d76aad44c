package sheets

import (
	"context"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
)

// ReportWriter is the outbound port the exporter worker writes through.
type ReportWriter interface {
	// AppendReport appends the monthly rows of a user's yearly report and
	// returns a reference to where they landed.
	AppendReport(ctx context.Context, userName string, year int, rows []core.MonthlyBucket) (ref string, err error)
}
