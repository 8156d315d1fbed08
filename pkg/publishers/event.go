package publishers

import (
	"time"

	"github.com/samvad-hq/crawlstats/internal/domain"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
)

// Event represents the payload published downstream.
type Event struct {
	Scope       domain.Scope       `json:"scope"`
	WebsiteID   string             `json:"website_id,omitempty"`
	WebsiteName string             `json:"website_name,omitempty"`
	Period      statistics.Period  `json:"period"`
	Summary     statistics.Summary `json:"summary"`
	Digest      string             `json:"digest"`
	FetchedAt   time.Time          `json:"fetched_at"`
}

// NewEvent constructs an Event for the given snapshot.
func NewEvent(s domain.Snapshot) Event {
	return Event{
		Scope:       s.Scope,
		WebsiteID:   s.WebsiteID,
		WebsiteName: s.WebsiteName,
		Period:      s.Period,
		Summary:     s.Summary,
		Digest:      s.Digest(),
		FetchedAt:   time.Now().UTC(),
	}
}

// key names the snapshot series, "all" or "website:<id>".
func (e Event) key() string {
	if e.Scope == domain.ScopeWebsite {
		return "website:" + e.WebsiteID
	}
	return "all"
}

// attributes are the routing attributes attached by queue and topic sinks.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{"scope": string(e.Scope)}
	if e.WebsiteID != "" {
		attrs["website_id"] = e.WebsiteID
	}
	return attrs
}
