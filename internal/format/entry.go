package format

import (
	"time"

	"github.com/fyrsmithlabs/logkeep/internal/redact"
)

// Entry is a log record ready for rendering. Payload, when present, is
// expected to be sanitized already; the formatter does not redact.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string

	// Payload is the optional structured payload. Nil means absent.
	Payload *redact.Value

	// Err is an optional attached error, rendered via its Error string only.
	Err error

	// Source is an optional origin label, rendered in JSON mode.
	Source string
}
