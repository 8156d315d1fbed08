package statistics

// Summary holds aggregate counters and rates for a period. Values are passed
// through exactly as the backend reports them.
type Summary struct {
	TotalTasks        int64   `json:"total_tasks"`
	CompletedTasks    int64   `json:"completed_tasks"`
	FailedTasks       int64   `json:"failed_tasks"`
	TotalLinksCrawled int64   `json:"total_links_crawled"`
	NewLinksFound     int64   `json:"new_links_found"`
	AvgValidRate      float64 `json:"avg_valid_rate"`
	AvgPrecisionRate  float64 `json:"avg_precision_rate"`
}

// Website identifies the site a StatisticsResult belongs to.
type Website struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Period is the date range a summary was computed over. Either bound may be empty.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WebsiteStatistics is the payload of a per-website statistics response.
type WebsiteStatistics struct {
	Website Website `json:"website"`
	Period  Period  `json:"period"`
	Summary Summary `json:"summary"`
}

// AggregateStatistics is the payload of the cross-website statistics response.
type AggregateStatistics struct {
	Period  Period  `json:"period"`
	Summary Summary `json:"summary"`
}

// StatisticsResult is the response of GET /statistics.
type StatisticsResult struct {
	Success bool              `json:"success"`
	Data    WebsiteStatistics `json:"data"`
}

// AllStatisticsResult is the response of GET /statistics/all.
type AllStatisticsResult struct {
	Success bool                `json:"success"`
	Data    AggregateStatistics `json:"data"`
}

// GetStatisticsParams selects one website and an optional date range.
// Empty fields are treated as unset.
type GetStatisticsParams struct {
	WebsiteID string
	DateFrom  string
	DateTo    string
}

// Query returns the query parameters for the set fields.
func (p GetStatisticsParams) Query() map[string]string {
	q := make(map[string]string, 3)
	setIf(q, ParamWebsiteID, p.WebsiteID)
	setIf(q, ParamDateFrom, p.DateFrom)
	setIf(q, ParamDateTo, p.DateTo)
	return q
}

// GetAllStatisticsParams is an optional date range for the aggregate query.
type GetAllStatisticsParams struct {
	DateFrom string
	DateTo   string
}

// Query returns the query parameters for the set fields. A nil receiver yields none.
func (p *GetAllStatisticsParams) Query() map[string]string {
	q := make(map[string]string, 2)
	if p == nil {
		return q
	}
	setIf(q, ParamDateFrom, p.DateFrom)
	setIf(q, ParamDateTo, p.DateTo)
	return q
}

func setIf(q map[string]string, key, val string) {
	if val != "" {
		q[key] = val
	}
}
