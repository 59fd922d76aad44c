package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ammaryasser21/Mini-instabay/internal/core"
)

// ReportClient wraps the reporting service.
type ReportClient struct {
	client
}

func NewReportClient(baseURL string) *ReportClient {
	return &ReportClient{client: newClient(baseURL)}
}

// Summary returns the aggregated sent/received totals for a user.
func (c *ReportClient) Summary(ctx context.Context, token, userID string) (core.Summary, error) {
	var out core.Summary
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/reports/summary/"+url.PathEscape(userID), token, nil, &out)
	if err != nil {
		return core.Summary{}, err
	}
	return out, nil
}
