package main

import (
	"fmt"
	"os"
	"time"

	"github.com/samvad-hq/crawlstats/internal/app"
	"github.com/samvad-hq/crawlstats/internal/config"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
	"github.com/spf13/cobra"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// NewRootCmd creates the root command for statsctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statsctl",
		Short: "Query crawl statistics from the backend",
		Long: `statsctl fetches crawl statistics for a single website or aggregated across
all websites. Connection settings default to the API_BASE_URL, API_TOKEN and
API_TIMEOUT_SECONDS environment variables (or configs/.env).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("base-url", "", "Statistics API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().String("token", "", "Bearer token (overrides API_TOKEN)")
	cmd.PersistentFlags().Duration("timeout", 0, "Request timeout (overrides API_TIMEOUT_SECONDS)")
	cmd.PersistentFlags().StringP("format", "f", formatJSON, "Output format: json or markdown")

	cmd.AddCommand(NewWebsiteCmd())
	cmd.AddCommand(NewAllCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a statistics client from config, with flag overrides applied.
func newClient(cmd *cobra.Command) (*statistics.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("base-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, _ := flags.GetString("token"); v != "" {
		cfg.APIToken = v
	}
	if v, _ := flags.GetDuration("timeout"); v > 0 {
		cfg.APITimeout = v
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 15 * time.Second
	}

	return app.NewStatisticsClient(cfg, nil), nil
}

// dateRange reads and checks the --from/--to flags.
func dateRange(cmd *cobra.Command) (from, to string, err error) {
	from, _ = cmd.Flags().GetString("from")
	to, _ = cmd.Flags().GetString("to")
	for name, v := range map[string]string{"from": from, "to": to} {
		if v == "" {
			continue
		}
		if _, err := statistics.ParseDate(v); err != nil {
			return "", "", fmt.Errorf("--%s: %w", name, err)
		}
	}
	return from, to, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatJSON, formatMarkdown:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or markdown)", format)
	}
}
