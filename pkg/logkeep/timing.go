package logkeep

import (
	"context"
	"time"
)

// Timed runs fn and emits one record describing the outcome: SUCCESS with
// the elapsed duration, or ERROR with the duration and the returned error.
// The error from fn is returned unchanged; emission failures are reported
// through the store's diagnostic logger rather than masking fn's result.
func Timed(ctx context.Context, s *Store, label string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	payload := map[string]any{"duration_ms": elapsed.Milliseconds()}
	var emitErr error
	if err != nil {
		emitErr = s.Error(ctx, label+" failed", err, payload)
	} else {
		emitErr = s.Success(ctx, label+" completed", payload)
	}
	if emitErr != nil {
		s.logger.Warn("timed emission failed")
	}
	return err
}

// TraceCall emits a DEBUG entry record and returns a func that emits the
// matching exit record with the elapsed duration. Use with defer:
//
//	defer logkeep.TraceCall(ctx, store, "rebuildIndex")()
func TraceCall(ctx context.Context, s *Store, name string) func() {
	start := time.Now()
	_ = s.Debug(ctx, "-> "+name, nil)
	return func() {
		_ = s.Debug(ctx, "<- "+name, map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
