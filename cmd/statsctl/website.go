package main

import (
	"errors"

	"github.com/samvad-hq/crawlstats/pkg/statistics"
	"github.com/spf13/cobra"
)

// NewWebsiteCmd creates the website command.
func NewWebsiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "website",
		Short: "Show statistics for one website",
		Long: `Show crawl statistics for one website, optionally limited to a date range.
The backend applies the range only when both --from and --to are given.

Examples:
  statsctl website --id 65a1f0c2e4b0a1b2c3d4e5f6
  statsctl website --id 65a1f0c2e4b0a1b2c3d4e5f6 --from 2024-01-01 --to 2024-01-31 -f markdown`,
		Args: cobra.NoArgs,
		RunE: runWebsiteCmd,
	}

	cmd.Flags().String("id", "", "Website identifier (required)")
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runWebsiteCmd(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	from, to, err := dateRange(cmd)
	if err != nil {
		return err
	}
	id, _ := cmd.Flags().GetString("id")

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	res, err := client.GetStatistics(cmd.Context(), statistics.GetStatisticsParams{
		WebsiteID: id,
		DateFrom:  from,
		DateTo:    to,
	})
	if err != nil {
		return err
	}
	if err := writeWebsite(cmd.OutOrStdout(), format, res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New("backend reported success=false")
	}
	return nil
}
