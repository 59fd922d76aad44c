package http

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ammaryasser21/Mini-instabay/internal/amqp"
	"github.com/ammaryasser21/Mini-instabay/internal/core"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
)

type monthRow struct {
	Label    string
	Sent     string
	Received string
	Net      string
	Negative bool
}

type reportsPage struct {
	UserName    string
	Year        int
	Years       []int
	TotalSent   string
	TotalRecv   string
	SentPct     int
	ReceivedPct int
	Months      []monthRow
	LoadErr     string
}

// handleReports renders the reports page: service-side totals next to a
// monthly breakdown computed from the transaction list. Summary and list are
// fetched in parallel.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
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
	year := parseYear(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var (
		summary core.Summary
		txs     []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.getSummary(gctx, sess.Token, sess.User.ID)
		if err != nil {
			return err
		}
		summary = sum
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

	page := reportsPage{UserName: sess.User.UserName, Year: year}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(r.Context(), "Reports fetch failed",
			log.FieldUserID, sess.User.ID, log.FieldYear, year, log.FieldError, err)
		page.LoadErr = "Report data could not be loaded"
		s.render(w, r, "reports.html", page)
		return
	}

	page.TotalSent = core.FormatAmount(summary.TotalSent)
	page.TotalRecv = core.FormatAmount(summary.TotalReceive)
	page.SentPct, page.ReceivedPct = core.PercentSplit(summary)
	page.Years = reportYears(txs, year)

	for _, b := range core.BucketMonthly(txs) {
		if b.Year != year {
			continue
		}
		net := b.Net()
		page.Months = append(page.Months, monthRow{
			Label:    time.Month(b.Month).String() + " " + strconv.Itoa(b.Year),
			Sent:     core.FormatAmount(b.Sent),
			Received: core.FormatAmount(b.Received),
			Net:      core.FormatAmount(net.Abs()),
			Negative: net.IsNegative(),
		})
	}

	s.render(w, r, "reports.html", page)
}

// getSummary fetches the reporting service totals through the cache.
func (s *Server) getSummary(ctx context.Context, token, userID string) (core.Summary, error) {
	if sum, ok := s.summaryCache.Get(userID); ok {
		return sum, nil
	}
	sum, err := s.reports.Summary(ctx, token, userID)
	if err != nil {
		return core.Summary{}, err
	}
	s.summaryCache.Set(userID, sum)
	return sum, nil
}

// reportYears lists the years present in the transaction history, always
// including the selected one.
func reportYears(txs []core.Transaction, selected int) []int {
	seen := map[int]bool{selected: true}
	years := []int{selected}
	for _, tx := range txs {
		y := tx.CreatedAt.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// handleReportExport queues a spreadsheet export for the selected year and
// answers with an htmx fragment.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := sessionFromRequest(r)
	if !ok {
		s.redirectToLogin(w, r)
		return
	}

	if s.publisher == nil {
		writePartial(w, http.StatusServiceUnavailable, errorPartial("Export is not configured on this deployment"))
		return
	}

	year := parseYear(r)
	if err := r.ParseForm(); err == nil {
		if v := r.Form.Get("year"); v != "" {
			if y, err := strconv.Atoi(v); err == nil && y > 2000 && y < 2200 {
				year = y
			}
		}
	}

	msg := amqp.NewReportExportMessage(sess.ID, sess.User.ID, year)
	if err := s.publisher.PublishReportExport(r.Context(), msg); err != nil {
		s.logger.ErrorContext(r.Context(), "Export publish failed",
			log.FieldUserID, sess.User.ID, log.FieldYear, year, log.FieldError, err)
		writePartial(w, http.StatusBadGateway, errorPartial("Export could not be queued, try again later"))
		return
	}

	s.logger.InfoContext(r.Context(), "Export queued",
		log.FieldUserID, sess.User.ID, log.FieldYear, year, log.FieldSessionID, sess.ID)
	writePartial(w, http.StatusAccepted, successPartial(
		"Export for "+strconv.Itoa(year)+" queued, the spreadsheet will update shortly"))
}
