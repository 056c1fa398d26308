// Package main implements the logkeepctl CLI for operating on logkeep files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/logkeep/pkg/config"
	"github.com/fyrsmithlabs/logkeep/pkg/logkeep"
)

var (
	// configPath is the optional YAML config file
	configPath string
	// logPath overrides the configured log file path
	logPath string
	// verbose enables diagnostic output on stderr
	verbose bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "logkeepctl",
	Short: "CLI for logkeep log file operations",
	Long: `logkeepctl operates on logkeep-managed log files: inspect severity
counts, tail recent lines, trigger maintenance rotation, and append records.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logPath, "file", "", "log file path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "diagnostic output on stderr")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(emitCmd)
}

// openStore builds a store from config file, environment, and flags.
func openStore() (*logkeep.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logPath != "" {
		cfg.Path = logPath
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}
	return logkeep.New(cfg, logger)
}
