package logkeep

import (
	"time"

	"github.com/fyrsmithlabs/logkeep/internal/format"
	"github.com/fyrsmithlabs/logkeep/internal/rotate"
)

// Level is the severity of a record.
type Level = format.Level

// Severity levels, lowest to highest. ERROR and CRITICAL form the preserved
// class: rotation never deletes their lines while preservation is on.
const (
	DebugLevel    = format.DebugLevel
	InfoLevel     = format.InfoLevel
	SuccessLevel  = format.SuccessLevel
	WarningLevel  = format.WarningLevel
	ErrorLevel    = format.ErrorLevel
	CriticalLevel = format.CriticalLevel
)

// Line format modes.
const (
	ModeText = format.ModeText
	ModeJSON = format.ModeJSON
)

// Stats summarizes the persisted file by severity class.
type Stats = rotate.Stats

// ParseLevel parses a level token, case-insensitively.
func ParseLevel(s string) (Level, error) {
	return format.ParseLevel(s)
}

// Record is one log entry. Records are treated as immutable once handed to
// Emit.
type Record struct {
	// Time defaults to time.Now() when zero.
	Time time.Time

	Level   Level
	Message string

	// Payload is an optional structured value: nested maps, slices, and
	// scalars. It is sanitized before formatting; cycles are cut with a
	// placeholder. Nil means no payload.
	Payload any

	// Err is an optional attached error, rendered via its standard string
	// representation only.
	Err error

	// Source is an optional origin label.
	Source string
}
