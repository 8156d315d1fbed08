// Package statistics is a typed client for the crawl backend's statistics endpoints.
package statistics

import (
	"context"
	"net/http"

	"github.com/samvad-hq/crawlstats/pkg/httpclient"
)

const (
	PathStatistics    = "/statistics"
	PathAllStatistics = "/statistics/all"

	ParamWebsiteID = "website_id"
	ParamDateFrom  = "date_from"
	ParamDateTo    = "date_to"
)

// Client maps statistics calls onto GET requests issued by an Executor.
// It keeps no state between calls and is safe for concurrent use when the
// executor is.
type Client struct {
	exec httpclient.Executor
}

// NewClient returns a Client that sends every request through exec.
func NewClient(exec httpclient.Executor) *Client {
	return &Client{exec: exec}
}

// GetStatistics fetches statistics for a single website. Executor errors are
// returned as-is; a success=false payload is returned to the caller unchanged.
func (c *Client) GetStatistics(ctx context.Context, params GetStatisticsParams) (StatisticsResult, error) {
	return httpclient.Request[StatisticsResult](ctx, c.exec, http.MethodGet, PathStatistics,
		httpclient.RequestOptions{Params: params.Query()})
}

// GetAllStatistics fetches statistics aggregated over every website. A nil
// params means no date filter.
func (c *Client) GetAllStatistics(ctx context.Context, params *GetAllStatisticsParams) (AllStatisticsResult, error) {
	return httpclient.Request[AllStatisticsResult](ctx, c.exec, http.MethodGet, PathAllStatistics,
		httpclient.RequestOptions{Params: params.Query()})
}
