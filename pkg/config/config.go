// Package config provides configuration loading for logkeep.
package config

import (
	"fmt"

	"github.com/fyrsmithlabs/logkeep/internal/format"
	"github.com/fyrsmithlabs/logkeep/internal/redact"
)

// Config holds the full logkeep configuration.
type Config struct {
	// Path is the log file location.
	Path string `koanf:"path"`

	// MaxLines is the rotation threshold. Must be positive.
	MaxLines int `koanf:"max_lines"`

	// PreserveErrors exempts ERROR/CRITICAL lines from rotation deletion.
	PreserveErrors bool `koanf:"preserve_errors"`

	// Format is the line format, "text" or "json".
	Format string `koanf:"format"`

	// Console mirrors formatted lines to standard output.
	Console bool `koanf:"console"`

	// MinLevel filters records below this level at the store.
	MinLevel string `koanf:"min_level"`

	// SensitiveKeys extends the default sensitive-key seed.
	SensitiveKeys []string `koanf:"sensitive_keys"`
}

// NewDefaultConfig returns production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Path:           "logkeep.log",
		MaxLines:       1000,
		PreserveErrors: true,
		Format:         string(format.ModeText),
		Console:        false,
		MinLevel:       format.DebugLevel.String(),
		SensitiveKeys:  redact.DefaultKeys(),
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if c.MaxLines <= 0 {
		return fmt.Errorf("max_lines must be > 0, got %d", c.MaxLines)
	}
	if _, err := format.ParseMode(c.Format); err != nil {
		return err
	}
	if _, err := format.ParseLevel(c.MinLevel); err != nil {
		return fmt.Errorf("invalid min_level: %w", err)
	}
	return nil
}
