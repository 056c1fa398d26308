// Package format renders log entries to newline-delimited text or JSON lines
// and parses the embedded level marker back out of persisted lines.
package format

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry.
type Level int8

const (
	// DebugLevel is for diagnostic detail, normally filtered in production.
	DebugLevel Level = iota - 1
	// InfoLevel is the default level for routine events.
	InfoLevel
	// SuccessLevel marks an operation that completed as intended.
	SuccessLevel
	// WarningLevel marks a recoverable anomaly.
	WarningLevel
	// ErrorLevel marks a failure; entries at this level survive rotation.
	ErrorLevel
	// CriticalLevel marks an unrecoverable failure; entries survive rotation.
	CriticalLevel
)

// Preserved reports whether entries at this level are exempt from rotation
// deletion. Classification is a pure function of the level and is never
// overridden elsewhere.
func (l Level) Preserved() bool {
	return l >= ErrorLevel
}

// String returns the upper-case level token embedded in every persisted line.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case SuccessLevel:
		return "SUCCESS"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	}
	return fmt.Sprintf("LEVEL(%d)", int8(l))
}

// ParseLevel parses a level token, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "SUCCESS":
		return SuccessLevel, nil
	case "WARNING", "WARN":
		return WarningLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "CRITICAL":
		return CriticalLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
