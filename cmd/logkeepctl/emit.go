package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/logkeep/pkg/logkeep"
)

var (
	emitLevel   string
	emitPayload string
)

var emitCmd = &cobra.Command{
	Use:   "emit <message>",
	Short: "Append one record to the log file",
	Long: `Append a single record through the full pipeline: the payload is
sanitized, the line is formatted per the configured mode, and rotation runs
if the file exceeds its cap.

Examples:
  # Plain INFO record
  logkeepctl emit "deploy finished"

  # ERROR record with a structured payload
  logkeepctl emit --level error --payload '{"host":"db-1","password":"x"}' "db unreachable"`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringVar(&emitLevel, "level", "info", "record level (debug|info|success|warning|error|critical)")
	emitCmd.Flags().StringVar(&emitPayload, "payload", "", "structured payload as JSON")
}

func runEmit(cmd *cobra.Command, args []string) error {
	level, err := logkeep.ParseLevel(emitLevel)
	if err != nil {
		return err
	}

	var payload any
	if emitPayload != "" {
		if err := json.Unmarshal([]byte(emitPayload), &payload); err != nil {
			return fmt.Errorf("invalid payload JSON: %w", err)
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Emit(cmd.Context(), logkeep.Record{
		Level:   level,
		Message: args[0],
		Payload: payload,
	})
}
