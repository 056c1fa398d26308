// Package logkeep is a logging core with sanitized structured payloads and
// bounded, error-preserving file retention.
//
// # Overview
//
// A Store composes three stages:
//   - Sanitizer: redacts sensitive-keyed values in structured payloads
//   - Formatter: renders one line per record, text or JSON-lines
//   - Rotation engine: owns the log file and trims it by line count,
//     keeping every ERROR/CRITICAL line when preservation is on
//
// # Usage
//
// Create a store from config:
//
//	cfg := config.NewDefaultConfig()
//	cfg.Path = "/var/log/app/app.log"
//	cfg.MaxLines = 500
//	store, err := logkeep.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Emit records:
//
//	store.Info(ctx, "user signed in", map[string]any{
//	    "user":     "alice",
//	    "password": "hunter2", // redacted to "***" before it hits disk
//	})
//	store.Error(ctx, "payment failed", err, map[string]any{"order": 42})
//
// Inspect the file:
//
//	stats, _ := store.Stats()   // total / error / critical line counts
//	tail, _ := store.View(20)   // most recent lines, most-recent-last
//
// # Retention
//
// After every successful append the engine checks the line cap and rotates
// synchronously, so the file is bounded at the end of every Emit call. With
// preservation on, ERROR and CRITICAL lines are never dropped: if they alone
// exceed the cap the file grows past it. Bounded storage is the soft
// guarantee; zero error-loss is the hard one.
//
// # Failure Modes
//
// Sanitization and formatting never fail; unserializable payload values
// degrade to their string representation. Only storage I/O returns errors:
// rotate.ErrWriteFailed means the record was lost, rotate.ErrRotationFailed
// means the file kept its previous content and rotation retries on the next
// append.
//
// # Concurrency
//
// Store is safe for concurrent use; all file access is serialized through
// the engine's mutex. A context cancelled mid-Emit does not abort the write:
// the lock hold is short and a partial line is worse than a late one.
// Configuration setters take effect on subsequent calls only.
//
// # Limitations
//
// Message text is not scanned for sensitive substrings; only structured
// payload keys are redacted. Two processes sharing one log file may race;
// cross-process coordination is out of scope.
package logkeep
