// Package rotate owns the on-disk log file and performs bounded,
// error-preserving rotation by line count.
package rotate

import "errors"

var (
	// ErrClosed indicates the engine was used after Close.
	ErrClosed = errors.New("rotate: engine is closed")

	// ErrWriteFailed indicates an append could not be persisted. The line is
	// lost and counters are unchanged.
	ErrWriteFailed = errors.New("rotate: write failed")

	// ErrRotationFailed indicates the file could not be atomically replaced.
	// The original content is intact and rotation stays pending.
	ErrRotationFailed = errors.New("rotate: rotation failed")

	// ErrInvalidMaxLines indicates a non-positive line cap was rejected.
	ErrInvalidMaxLines = errors.New("rotate: max lines must be > 0")
)
