package logkeep

import "context"

// Convenience emitters. These are thin call sites over Emit: they construct
// a record and hand it to the core, nothing more.

// Debug emits a DEBUG record. payload may be nil.
func (s *Store) Debug(ctx context.Context, msg string, payload any) error {
	return s.Emit(ctx, Record{Level: DebugLevel, Message: msg, Payload: payload})
}

// Info emits an INFO record. payload may be nil.
func (s *Store) Info(ctx context.Context, msg string, payload any) error {
	return s.Emit(ctx, Record{Level: InfoLevel, Message: msg, Payload: payload})
}

// Success emits a SUCCESS record. payload may be nil.
func (s *Store) Success(ctx context.Context, msg string, payload any) error {
	return s.Emit(ctx, Record{Level: SuccessLevel, Message: msg, Payload: payload})
}

// Warning emits a WARNING record. payload may be nil.
func (s *Store) Warning(ctx context.Context, msg string, payload any) error {
	return s.Emit(ctx, Record{Level: WarningLevel, Message: msg, Payload: payload})
}

// Error emits an ERROR record with an optional attached error.
// ERROR lines are preserved across rotation.
func (s *Store) Error(ctx context.Context, msg string, err error, payload any) error {
	return s.Emit(ctx, Record{Level: ErrorLevel, Message: msg, Err: err, Payload: payload})
}

// Critical emits a CRITICAL record with an optional attached error.
// CRITICAL lines are preserved across rotation.
func (s *Store) Critical(ctx context.Context, msg string, err error, payload any) error {
	return s.Emit(ctx, Record{Level: CriticalLevel, Message: msg, Err: err, Payload: payload})
}
