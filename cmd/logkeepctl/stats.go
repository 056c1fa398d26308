package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report line counts by severity class",
	Long: `Scan the log file and report total, ERROR, and CRITICAL line counts.

Examples:
  # Stats for the configured file
  logkeepctl stats

  # Stats for an explicit file
  logkeepctl stats --file /var/log/app/app.log`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("scanning log file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "total:    %d\n", stats.TotalLines)
	fmt.Fprintf(cmd.OutOrStdout(), "error:    %d\n", stats.ErrorLines)
	fmt.Fprintf(cmd.OutOrStdout(), "critical: %d\n", stats.CriticalLines)
	return nil
}
