package domain

import (
	"testing"

	"github.com/samvad-hq/crawlstats/pkg/statistics"
)

func TestSnapshotDigestTracksContent(t *testing.T) {
	base := FromWebsite(statistics.WebsiteStatistics{
		Website: statistics.Website{ID: "w1", Name: "Example"},
		Period:  statistics.Period{From: "2024-01-01", To: "2024-01-31"},
		Summary: statistics.Summary{TotalTasks: 3},
	})
	same := base
	changed := base
	changed.Summary.TotalTasks = 4

	if base.Digest() != same.Digest() {
		t.Fatalf("equal snapshots must share a digest")
	}
	if base.Digest() == changed.Digest() {
		t.Fatalf("different summaries must not share a digest")
	}
	if base.Key() != "website:w1" {
		t.Fatalf("Key = %q", base.Key())
	}
	if agg := FromAggregate(statistics.AggregateStatistics{}); agg.Key() != "all" || agg.WebsiteID != "" {
		t.Fatalf("unexpected aggregate snapshot %+v", agg)
	}
}
