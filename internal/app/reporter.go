package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samvad-hq/crawlstats/internal/config"
	"github.com/samvad-hq/crawlstats/internal/logger"
	"github.com/samvad-hq/crawlstats/internal/reporter"
	"github.com/samvad-hq/crawlstats/internal/storage"
	"github.com/samvad-hq/crawlstats/pkg/httpclient"
	"github.com/samvad-hq/crawlstats/pkg/publishers"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
	"github.com/samvad-hq/crawlstats/pkg/websites"
)

// Reporter is the statistics reporter runtime. It owns the report loop, the
// publishers fanout, the snapshot store and the optional metrics endpoint.
type Reporter struct {
	cfg            *config.Config
	websiteReg     *websites.Registry
	fanout         *publishers.Fanout
	service        *reporter.Service
	reportInterval time.Duration
	log            logger.Logger
	store          storage.Store
	metrics        *httpclient.Metrics
}

// NewReporter builds a reporter runtime from config files.
func NewReporter(ctx context.Context, cfg *config.Config, log logger.Logger) (*Reporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	websiteReg, err := websites.LoadRegistry(cfg.WebsitesFile)
	if err != nil {
		return nil, fmt.Errorf("load websites registry: %w", err)
	}
	websiteIDs := make([]string, 0, len(websiteReg.All()))
	for _, w := range websiteReg.Enabled() {
		websiteIDs = append(websiteIDs, w.ID)
	}
	log.InfoObj("websites registry loaded", "websites_meta", map[string]any{
		"count": len(websiteIDs),
		"ids":   websiteIDs,
	})

	publisherCfgs, err := publishers.LoadConfigs(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabledPublishers := publisherCfgs.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.DefaultBuilders().Build(ctx, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		SnapshotTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"snapshot_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	metrics := httpclient.NewMetrics()
	client := NewStatisticsClient(cfg, metrics)

	service := reporter.NewService(client, fanout, log, store, reporter.Options{
		Concurrency: cfg.ReportConcurrency,
		WindowDays:  cfg.ReportWindowDays,
	})

	return &Reporter{
		cfg:            cfg,
		websiteReg:     websiteReg,
		fanout:         fanout,
		service:        service,
		reportInterval: cfg.ReportInterval,
		log:            log,
		store:          store,
		metrics:        metrics,
	}, nil
}

// NewStatisticsClient builds a statistics client over the configured API.
// A nil metrics value leaves the executor uninstrumented.
func NewStatisticsClient(cfg *config.Config, metrics *httpclient.Metrics) *statistics.Client {
	var exec httpclient.Executor = httpclient.NewRestyExecutor(httpclient.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		AuthToken: cfg.APIToken,
	})
	if metrics != nil {
		exec = httpclient.NewInstrumentedExecutor(exec, metrics)
	}
	return statistics.NewClient(exec)
}

// Run starts the report loop until the context is cancelled.
func (r *Reporter) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("reporter is not initialized")
	}
	defer r.closeResources()

	stopMetrics := r.serveMetrics()
	defer stopMetrics()

	sites := r.websiteReg.Enabled()
	r.log.InfoObj("reporter loop starting", "reporter_state", map[string]any{
		"websites_count":   len(sites),
		"publishers_count": r.fanout.Size(),
		"report_interval":  r.reportInterval.String(),
		"window":           r.service.Window(),
	})

	if err := r.runOnce(ctx, sites); err != nil {
		r.log.ErrorObj("initial report failed", "error", err)
	}

	ticker := time.NewTicker(r.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("reporter loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, sites); err != nil {
				r.log.ErrorObj("scheduled report failed", "error", err)
			}
		}
	}
}

// runOnce performs a single reporting pass.
func (r *Reporter) runOnce(ctx context.Context, sites []websites.Website) error {
	start := time.Now()
	r.log.InfoObj("report started", "report_meta", map[string]any{
		"websites_count": len(sites),
		"started_at":     start.UTC(),
	})
	if err := r.service.Run(ctx, sites); err != nil {
		return err
	}
	r.log.InfoObj("report completed", "report_meta", map[string]any{
		"websites_count": len(sites),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return nil
}

// serveMetrics exposes the executor metrics when metrics_addr is set.
func (r *Reporter) serveMetrics() func() {
	if r.cfg.MetricsAddr == "" || r.metrics == nil {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: r.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.ErrorObj("metrics server failed", "error", err)
		}
	}()
	r.log.InfoObj("metrics server listening", "metrics_addr", r.cfg.MetricsAddr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// closeResources safely closes the store and publishers, logging any errors encountered.
func (r *Reporter) closeResources() {
	if r == nil {
		return
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err)
	}
}
