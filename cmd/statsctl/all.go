package main

import (
	"errors"

	"github.com/samvad-hq/crawlstats/pkg/statistics"
	"github.com/spf13/cobra"
)

// NewAllCmd creates the all command.
func NewAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Show statistics aggregated across all websites",
		Args:  cobra.NoArgs,
		RunE:  runAllCmd,
	}

	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD)")

	return cmd
}

func runAllCmd(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	from, to, err := dateRange(cmd)
	if err != nil {
		return err
	}

	var params *statistics.GetAllStatisticsParams
	if from != "" || to != "" {
		params = &statistics.GetAllStatisticsParams{DateFrom: from, DateTo: to}
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	res, err := client.GetAllStatistics(cmd.Context(), params)
	if err != nil {
		return err
	}
	if err := writeAll(cmd.OutOrStdout(), format, res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New("backend reported success=false")
	}
	return nil
}
