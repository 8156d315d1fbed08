package reporter

import (
	"context"

	"github.com/samvad-hq/crawlstats/pkg/publishers"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
)

// StatisticsFetcher is the subset of statistics.Client the reporter uses.
type StatisticsFetcher interface {
	GetStatistics(ctx context.Context, params statistics.GetStatisticsParams) (statistics.StatisticsResult, error)
	GetAllStatistics(ctx context.Context, params *statistics.GetAllStatisticsParams) (statistics.AllStatisticsResult, error)
}

// EventPublisher publishes snapshots downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers the last digest delivered for each snapshot series.
type Deduper interface {
	Seen(key, digest string) (bool, error)
	Record(key, digest string) error
}
