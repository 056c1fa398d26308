package logkeep

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/logkeep/internal/format"
	"github.com/fyrsmithlabs/logkeep/internal/redact"
	"github.com/fyrsmithlabs/logkeep/internal/rotate"
	"github.com/fyrsmithlabs/logkeep/pkg/config"
)

// Store is the logging facade: it sanitizes, formats, and persists records
// through the rotation engine. Safe for concurrent use.
type Store struct {
	engine *rotate.Engine
	keys   *redact.KeySet
	logger *zap.Logger

	// mu guards the mutable configuration below. Emit takes a read lock;
	// setters are rare, so contention is negligible.
	mu        sync.RWMutex
	mode      format.Mode
	minLevel  format.Level
	console   io.Writer
	consoleOn bool

	fallbackOnce sync.Once
}

// New creates a Store from config. logger receives the store's own
// diagnostics (rotation events, fallback warnings) and may be nil.
func New(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mode, err := format.ParseMode(cfg.Format)
	if err != nil {
		return nil, err
	}
	minLevel, err := format.ParseLevel(cfg.MinLevel)
	if err != nil {
		return nil, err
	}

	engine, err := rotate.NewEngine(cfg.Path, cfg.MaxLines, cfg.PreserveErrors, logger)
	if err != nil {
		return nil, err
	}

	keys := redact.NewKeySet(redact.DefaultKeys()...)
	keys.Add(cfg.SensitiveKeys...)

	return &Store{
		engine:    engine,
		keys:      keys,
		logger:    logger,
		mode:      mode,
		minLevel:  minLevel,
		console:   os.Stdout,
		consoleOn: cfg.Console,
	}, nil
}

// Emit sanitizes, formats, and appends one record.
//
// A context cancelled before Emit starts returns ctx.Err() without writing;
// once the write begins it always completes, so no partial line is ever
// persisted on cancellation.
func (s *Store) Emit(ctx context.Context, rec Record) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	s.mu.RLock()
	mode := s.mode
	minLevel := s.minLevel
	console := s.console
	consoleOn := s.consoleOn
	s.mu.RUnlock()

	if rec.Level < minLevel {
		return nil
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	var payload *redact.Value
	if rec.Payload != nil {
		v := redact.SanitizeAny(rec.Payload, s.keys)
		payload = &v
	}

	line, fellBack := format.Format(format.Entry{
		Time:    rec.Time,
		Level:   rec.Level,
		Message: rec.Message,
		Payload: payload,
		Err:     rec.Err,
		Source:  rec.Source,
	}, mode)
	if fellBack {
		s.fallbackOnce.Do(func() {
			s.logger.Warn("payload value not natively encodable, degraded to string form",
				zap.String("message", rec.Message))
		})
	}

	err := s.engine.Append(line, rec.Level.Preserved())

	if consoleOn && console != nil {
		// The console is a collaborator, not storage: its write errors do
		// not affect the outcome of Emit.
		fmt.Fprintln(console, line)
	}
	return err
}

// Stats scans the file and reports line counts by severity class.
func (s *Store) Stats() (Stats, error) {
	return s.engine.Stats()
}

// ForceRotate rotates the file unconditionally.
func (s *Store) ForceRotate() error {
	return s.engine.ForceRotate()
}

// View returns the most recent limit raw lines, most-recent-last.
func (s *Store) View(limit int) ([]string, error) {
	return s.engine.View(limit)
}

// SetMaxLines changes the rotation threshold for subsequent appends.
// Non-positive values are rejected and the previous cap is retained.
func (s *Store) SetMaxLines(n int) error {
	return s.engine.SetMaxLines(n)
}

// SetFormat switches the line format for subsequent records. Lines already
// written are not reformatted.
func (s *Store) SetFormat(mode string) error {
	m, err := format.ParseMode(mode)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	return nil
}

// EnablePreservation toggles the error-preservation policy for subsequent
// rotations.
func (s *Store) EnablePreservation(on bool) {
	s.engine.SetPreserveErrors(on)
}

// SetMinLevel filters out subsequent records below the given level.
func (s *Store) SetMinLevel(l Level) {
	s.mu.Lock()
	s.minLevel = l
	s.mu.Unlock()
}

// EnableConsole mirrors subsequent formatted lines to w (os.Stdout when w is
// nil). The console writer is never involved in rotation or sanitization.
func (s *Store) EnableConsole(w io.Writer) {
	s.mu.Lock()
	if w != nil {
		s.console = w
	}
	s.consoleOn = true
	s.mu.Unlock()
}

// DisableConsole stops mirroring lines.
func (s *Store) DisableConsole() {
	s.mu.Lock()
	s.consoleOn = false
	s.mu.Unlock()
}

// AddSensitiveKeys unions additional field-name patterns into the redaction
// set. Patterns cannot be removed.
func (s *Store) AddSensitiveKeys(keys ...string) {
	s.keys.Add(keys...)
}

// ApplyConfig applies a reloaded configuration to the running store. The
// file path is fixed at construction and ignored here; everything else takes
// effect on subsequent calls.
func (s *Store) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := s.SetMaxLines(cfg.MaxLines); err != nil {
		return err
	}
	if err := s.SetFormat(cfg.Format); err != nil {
		return err
	}
	minLevel, err := format.ParseLevel(cfg.MinLevel)
	if err != nil {
		return err
	}
	s.SetMinLevel(minLevel)
	s.EnablePreservation(cfg.PreserveErrors)
	if cfg.Console {
		s.EnableConsole(nil)
	} else {
		s.DisableConsole()
	}
	s.AddSensitiveKeys(cfg.SensitiveKeys...)
	return nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	return s.engine.Close()
}
