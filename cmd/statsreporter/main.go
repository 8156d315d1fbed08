package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/crawlstats/internal/app"
	"github.com/samvad-hq/crawlstats/internal/config"
	"github.com/samvad-hq/crawlstats/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "statsreporter start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("statsreporter starting", "config", map[string]any{
		"app_name":        cfg.AppName,
		"app_env":         cfg.Env,
		"api_base_url":    cfg.APIBaseURL,
		"websites_file":   cfg.WebsitesFile,
		"publishers_file": cfg.PublishersFile,
		"report_interval": cfg.ReportInterval.String(),
		"storage_type":    cfg.StorageType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter, err := app.NewReporter(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize reporter", "error", err)
		return err
	}

	if err := reporter.Run(ctx); err != nil {
		return fmt.Errorf("reporter run: %w", err)
	}

	return nil
}
