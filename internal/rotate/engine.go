package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/logkeep/internal/format"
)

// Stats summarizes the persisted file by severity class.
type Stats struct {
	TotalLines    int
	ErrorLines    int
	CriticalLines int
}

// Engine is the exclusive owner of one append-only log file. It counts
// lines, rotates synchronously when the count exceeds the cap, and keeps
// every ERROR/CRITICAL line across rotations when preservation is on.
//
// All operations are serialized through one mutex per engine: a rotation is
// never interleaved with an append, and two rotations never overlap. The
// engine does not coordinate across processes; two processes sharing one
// file may race.
type Engine struct {
	mu sync.Mutex

	path     string
	maxLines int
	preserve bool

	f       *os.File
	lines   int
	pending bool
	closed  bool

	logger *zap.Logger
}

// NewEngine opens (creating if needed) the log file at path and counts its
// existing lines, so rotation and stats work after a restart.
// logger may be nil to disable diagnostics.
func NewEngine(path string, maxLines int, preserveErrors bool, logger *zap.Logger) (*Engine, error) {
	if maxLines <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMaxLines, maxLines)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := openAppend(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	e := &Engine{
		path:     path,
		maxLines: maxLines,
		preserve: preserveErrors,
		f:        f,
		logger:   logger,
	}

	existing, err := e.readLinesLocked()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("scanning existing log file: %w", err)
	}
	e.lines = len(existing)
	CurrentLines.WithLabelValues(e.path).Set(float64(e.lines))

	return e, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

var lineBreakEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`)

// ensureFileLocked reopens the append handle if a prior rotation dropped it
// after renaming the temp file into place. Callers hold e.mu.
func (e *Engine) ensureFileLocked() error {
	if e.f != nil {
		return nil
	}
	f, err := openAppend(e.path)
	if err != nil {
		return fmt.Errorf("%w: reopening log file: %v", ErrWriteFailed, err)
	}
	e.f = f
	return nil
}

// Append writes one formatted line. preserved marks the ERROR/CRITICAL
// class; the engine trusts the caller here but always re-derives the class
// from the embedded level marker when it re-reads the file.
//
// After a successful write, if the line count exceeds the cap, rotation runs
// synchronously before Append returns, so callers always observe a bounded
// file. A failed rotation leaves the appended line and all prior content
// intact and is retried on the next Append.
func (e *Engine) Append(line string, preserved bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if e.pending {
		if err := e.rotateLocked(); err != nil {
			e.logger.Warn("pending rotation retry failed", zap.Error(err))
		}
	}

	if err := e.ensureFileLocked(); err != nil {
		return err
	}

	// One entry per line is the file's core invariant; an embedded line
	// break would desynchronize counts and classification.
	line = lineBreakEscaper.Replace(line)

	if _, err := e.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	e.lines++
	CurrentLines.WithLabelValues(e.path).Set(float64(e.lines))
	if preserved {
		LinesWritten.WithLabelValues("preserved").Inc()
	} else {
		LinesWritten.WithLabelValues("ordinary").Inc()
	}

	if e.lines > e.maxLines {
		if err := e.rotateLocked(); err != nil {
			e.pending = true
			return err
		}
	}
	return nil
}

// ForceRotate rotates unconditionally, regardless of the current count.
// On an empty file it is a no-op.
func (e *Engine) ForceRotate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if err := e.rotateLocked(); err != nil {
		e.pending = true
		return err
	}
	return nil
}

// rotateLocked trims the file to the retention policy. Callers hold e.mu.
//
// The replacement is atomic from an external reader's point of view: kept
// lines are written to a temp file in the same directory which is then
// renamed over the original. Any failure leaves the original file untouched.
func (e *Engine) rotateLocked() error {
	start := time.Now()

	all, err := e.readLinesLocked()
	if err != nil {
		RotationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: reading current file: %v", ErrRotationFailed, err)
	}
	if len(all) == 0 {
		e.lines = 0
		e.pending = false
		CurrentLines.WithLabelValues(e.path).Set(0)
		return nil
	}

	kept, preserved := selectKept(all, e.maxLines, e.preserve)
	if len(kept) == len(all) {
		// Nothing to drop; just resynchronize the counter.
		e.lines = len(all)
		e.pending = false
		CurrentLines.WithLabelValues(e.path).Set(float64(e.lines))
		return nil
	}

	if err := e.replaceLocked(kept); err != nil {
		RotationsTotal.WithLabelValues("error").Inc()
		return err
	}

	dropped := len(all) - len(kept)
	e.lines = len(kept)
	e.pending = false
	CurrentLines.WithLabelValues(e.path).Set(float64(e.lines))
	RotationsTotal.WithLabelValues("success").Inc()
	LinesDropped.Add(float64(dropped))
	RotationDuration.Observe(time.Since(start).Seconds())

	e.logger.Info("log file rotated",
		zap.String("rotation_id", uuid.NewString()),
		zap.String("path", e.path),
		zap.Int("kept", len(kept)),
		zap.Int("dropped", dropped),
		zap.Int("preserved", preserved))
	return nil
}

// replaceLocked writes the kept lines to a temp file and renames it over the
// log file, then moves the append handle to the new file.
func (e *Engine) replaceLocked(kept []string) error {
	dir := filepath.Dir(e.path)
	tmp, err := os.CreateTemp(dir, ".logkeep-rotate-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrRotationFailed, err)
	}
	tmpName := tmp.Name()

	content := strings.Join(kept, "\n") + "\n"
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", ErrRotationFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: syncing temp file: %v", ErrRotationFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", ErrRotationFailed, err)
	}

	if err := os.Rename(tmpName, e.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing log file: %v", ErrRotationFailed, err)
	}

	newF, err := openAppend(e.path)
	if err != nil {
		// The rename already happened, so the old handle points at the
		// unlinked inode; writing through it would lose lines silently.
		// Drop it and let the next append reopen the renamed file.
		e.f.Close()
		e.f = nil
		return fmt.Errorf("%w: reopening log file: %v", ErrRotationFailed, err)
	}
	if e.f != nil {
		e.f.Close()
	}
	e.f = newF
	return nil
}

// selectKept applies the retention policy and returns the kept lines in
// original relative order, plus the preserved-line count.
//
// With preservation on, every preserved line is kept even when preserved
// lines alone exceed maxLines: the cap is a soft bound, zero error-loss is
// the hard guarantee. Ordinary lines fill the remaining budget most-recent
// first (oldest dropped first). With preservation off this is plain ring
// truncation to the most recent maxLines lines.
func selectKept(all []string, maxLines int, preserve bool) (kept []string, preservedCount int) {
	if !preserve {
		for _, line := range all {
			if format.LinePreserved(line) {
				preservedCount++
			}
		}
		if len(all) <= maxLines {
			return all, preservedCount
		}
		return all[len(all)-maxLines:], preservedCount
	}

	for _, line := range all {
		if format.LinePreserved(line) {
			preservedCount++
		}
	}

	budget := maxLines - preservedCount
	if budget < 0 {
		budget = 0
	}
	ordinary := len(all) - preservedCount
	skip := ordinary - budget
	if skip < 0 {
		skip = 0
	}

	kept = make([]string, 0, len(all)-skip)
	skipped := 0
	for _, line := range all {
		if format.LinePreserved(line) {
			kept = append(kept, line)
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		kept = append(kept, line)
	}
	return kept, preservedCount
}

// Stats scans the whole file and classifies each line by its embedded level
// marker.
func (e *Engine) Stats() (Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Stats{}, ErrClosed
	}

	all, err := e.readLinesLocked()
	if err != nil {
		return Stats{}, fmt.Errorf("scanning log file: %w", err)
	}

	var s Stats
	s.TotalLines = len(all)
	for _, line := range all {
		switch l, ok := format.LineLevel(line); {
		case !ok:
		case l == format.ErrorLevel:
			s.ErrorLines++
		case l == format.CriticalLevel:
			s.CriticalLines++
		}
	}
	return s, nil
}

// View returns the most recent limit raw lines, most-recent-last.
func (e *Engine) View(limit int) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	all, err := e.readLinesLocked()
	if err != nil {
		return nil, fmt.Errorf("scanning log file: %w", err)
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// SetMaxLines changes the line cap for subsequent appends. Non-positive
// values are rejected and the previous cap is retained.
func (e *Engine) SetMaxLines(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidMaxLines, n)
	}
	e.maxLines = n
	return nil
}

// SetPreserveErrors toggles the preservation policy for subsequent rotations.
func (e *Engine) SetPreserveErrors(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preserve = on
}

// LineCount returns the in-memory line counter.
func (e *Engine) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines
}

// Path returns the backing file path.
func (e *Engine) Path() string { return e.path }

// Close releases the file handle. Subsequent calls return ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	e.closed = true
	if e.f == nil {
		return nil
	}
	return e.f.Close()
}

// readLinesLocked reads the whole file as ordered lines, ignoring a trailing
// newline. Callers hold e.mu.
func (e *Engine) readLinesLocked() ([]string, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return splitLines(data), nil
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
