package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/samvad-hq/crawlstats/pkg/statistics"
)

// Scope says whether a snapshot covers one website or all of them.
type Scope string

const (
	ScopeWebsite Scope = "website"
	ScopeAll     Scope = "all"
)

// Snapshot is one fetched statistics summary.
type Snapshot struct {
	Scope       Scope              `json:"scope"`
	WebsiteID   string             `json:"website_id,omitempty"`
	WebsiteName string             `json:"website_name,omitempty"`
	Period      statistics.Period  `json:"period"`
	Summary     statistics.Summary `json:"summary"`
}

// FromWebsite builds a snapshot from a per-website payload.
func FromWebsite(data statistics.WebsiteStatistics) Snapshot {
	return Snapshot{
		Scope:       ScopeWebsite,
		WebsiteID:   data.Website.ID,
		WebsiteName: data.Website.Name,
		Period:      data.Period,
		Summary:     data.Summary,
	}
}

// FromAggregate builds a snapshot from the cross-website payload.
func FromAggregate(data statistics.AggregateStatistics) Snapshot {
	return Snapshot{
		Scope:   ScopeAll,
		Period:  data.Period,
		Summary: data.Summary,
	}
}

// Key identifies the series a snapshot belongs to.
func (s Snapshot) Key() string {
	if s.Scope == ScopeWebsite {
		return string(s.Scope) + ":" + s.WebsiteID
	}
	return string(s.Scope)
}

// Digest is a content hash; equal snapshots share a digest.
func (s Snapshot) Digest() string {
	raw, _ := json.Marshal(s)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
