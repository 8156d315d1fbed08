// Package reporter fetches statistics snapshots and publishes the ones that changed.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/crawlstats/internal/domain"
	"github.com/samvad-hq/crawlstats/internal/logger"
	"github.com/samvad-hq/crawlstats/pkg/publishers"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
	"github.com/samvad-hq/crawlstats/pkg/websites"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout         = "2006-01-02"
	defaultConcurrency = 4
)

// Options tunes a reporting pass.
type Options struct {
	// Concurrency bounds in-flight statistics requests.
	Concurrency int
	// WindowDays selects the trailing date range; zero means no date filter.
	WindowDays int
}

// Service runs reporting passes over the configured websites.
type Service struct {
	fetcher     StatisticsFetcher
	publisher   EventPublisher
	log         logger.Logger
	dedup       Deduper
	concurrency int
	windowDays  int
	now         func() time.Time
}

// NewService wires a reporter with its fetcher, publisher and deduper.
func NewService(fetcher StatisticsFetcher, pub EventPublisher, log logger.Logger, dedup Deduper, opts Options) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Service{
		fetcher:     fetcher,
		publisher:   pub,
		log:         log,
		dedup:       dedup,
		concurrency: opts.Concurrency,
		windowDays:  opts.WindowDays,
		now:         time.Now,
	}
}

// Window returns the period the next pass will request.
func (s *Service) Window() statistics.Period {
	if s.windowDays <= 0 {
		return statistics.Period{}
	}
	today := s.now().UTC()
	return statistics.Period{
		From: today.AddDate(0, 0, -s.windowDays).Format(dateLayout),
		To:   today.Format(dateLayout),
	}
}

// Run executes one pass: the aggregate plus every given website.
func (s *Service) Run(ctx context.Context, sites []websites.Website) error {
	if s == nil || s.fetcher == nil {
		return fmt.Errorf("reporter service is not initialized")
	}

	errs := s.runAll(ctx, sites)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, sites []websites.Website) []error {
	period := s.Window()

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	g.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.reportAll(ctx, period); err != nil {
			record(err)
			s.log.ErrorObj("aggregate report failed", "report_error", map[string]any{
				"scope": domain.ScopeAll,
				"error": err.Error(),
			})
		}
		return nil
	})

	for _, site := range sites {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := s.reportWebsite(ctx, site, period); err != nil {
				record(err)
				s.log.ErrorObj("website report failed", "report_error", map[string]any{
					"website_id": site.ID,
					"error":      err.Error(),
				})
			}
			return nil
		})
	}

	_ = g.Wait()
	return errs
}

func (s *Service) reportWebsite(ctx context.Context, site websites.Website, period statistics.Period) error {
	res, err := s.fetcher.GetStatistics(ctx, statistics.GetStatisticsParams{
		WebsiteID: site.ID,
		DateFrom:  period.From,
		DateTo:    period.To,
	})
	if err != nil {
		return fmt.Errorf("fetch statistics for website %s: %w", site.ID, err)
	}
	if !res.Success {
		s.log.WarnObj("statistics response unsuccessful; skipping", "website_id", site.ID)
		return nil
	}
	return s.deliver(ctx, domain.FromWebsite(res.Data))
}

func (s *Service) reportAll(ctx context.Context, period statistics.Period) error {
	var params *statistics.GetAllStatisticsParams
	if period != (statistics.Period{}) {
		params = &statistics.GetAllStatisticsParams{DateFrom: period.From, DateTo: period.To}
	}
	res, err := s.fetcher.GetAllStatistics(ctx, params)
	if err != nil {
		return fmt.Errorf("fetch aggregate statistics: %w", err)
	}
	if !res.Success {
		s.log.WarnObj("aggregate statistics response unsuccessful; skipping", "scope", domain.ScopeAll)
		return nil
	}
	return s.deliver(ctx, domain.FromAggregate(res.Data))
}

// deliver publishes a snapshot unless its series last went out with the same digest.
func (s *Service) deliver(ctx context.Context, snap domain.Snapshot) error {
	evt := publishers.NewEvent(snap)

	if s.dedup != nil {
		seen, err := s.dedup.Seen(snap.Key(), evt.Digest)
		if err != nil {
			s.log.WarnObj("snapshot dedup lookup failed; publishing anyway", "dedup_error", map[string]any{
				"key":   snap.Key(),
				"error": err.Error(),
			})
		} else if seen {
			s.log.DebugObj("snapshot unchanged; skipping", "snapshot_key", snap.Key())
			return nil
		}
	}

	if s.publisher == nil {
		return nil
	}
	delivered, err := s.publisher.Publish(ctx, evt)
	if delivered > 0 && s.dedup != nil {
		if markErr := s.dedup.Record(snap.Key(), evt.Digest); markErr != nil {
			s.log.WarnObj("snapshot record failed", "dedup_error", map[string]any{
				"key":   snap.Key(),
				"error": markErr.Error(),
			})
		}
	}
	if err != nil {
		return fmt.Errorf("publish snapshot %s: %w", snap.Key(), err)
	}

	s.log.InfoObj("snapshot published", "snapshot_meta", map[string]any{
		"key":        snap.Key(),
		"period":     snap.Period,
		"publishers": delivered,
	})
	return nil
}
