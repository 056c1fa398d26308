package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tailLines int

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the most recent log lines",
	Long: `Print the most recent lines of the log file, most-recent-last.

Examples:
  # Last 10 lines (default)
  logkeepctl tail

  # Last 50 lines of an explicit file
  logkeepctl tail -n 50 --file /var/log/app/app.log`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "number of lines to print")
}

func runTail(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	lines, err := store.View(tailLines)
	if err != nil {
		return fmt.Errorf("reading log file: %w", err)
	}
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
