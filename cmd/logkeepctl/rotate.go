package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Trim the log file to its retention policy now",
	Long: `Force a rotation regardless of the current line count. With error
preservation on, every ERROR and CRITICAL line survives the trim.

Examples:
  # Rotate the configured file
  logkeepctl rotate

  # Rotate an explicit file down to 100 lines
  LOGKEEP_MAX_LINES=100 logkeepctl rotate --file /var/log/app/app.log`,
	Args: cobra.NoArgs,
	RunE: runRotate,
}

func runRotate(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ForceRotate(); err != nil {
		return fmt.Errorf("rotating log file: %w", err)
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("scanning log file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rotated, %d lines kept\n", stats.TotalLines)
	return nil
}
