package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/logkeep/internal/redact"
)

// Mode selects the on-disk line format.
type Mode string

const (
	// ModeText renders "[timestamp] [LEVEL] message" with optional suffixes.
	ModeText Mode = "text"
	// ModeJSON renders one self-contained JSON object per line.
	ModeJSON Mode = "json"
)

// timeLayout is ISO-8601 with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseMode validates a format mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeText, ModeJSON:
		return Mode(s), nil
	}
	return ModeText, fmt.Errorf("format must be %q or %q, got %q", ModeText, ModeJSON, s)
}

// Format renders an entry to a single line without the trailing newline.
//
// Format never fails: payload values that cannot be encoded natively are
// degraded to their string representation. The second return value reports
// whether that fallback was taken, so the caller can note it once.
func Format(e Entry, mode Mode) (string, bool) {
	if mode == ModeJSON {
		return formatJSON(e)
	}
	return formatText(e)
}

func formatText(e Entry) (string, bool) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.WriteString(e.Time.Format(timeLayout))
	buf.WriteString("] [")
	buf.WriteString(e.Level.String())
	buf.WriteString("] ")
	buf.WriteString(e.Message)

	fellBack := false
	if e.Payload != nil {
		buf.WriteString(" | ")
		fellBack = writeValue(&buf, *e.Payload)
	}
	if e.Err != nil {
		buf.WriteString(" | exception: ")
		buf.WriteString(errRepr(e.Err))
	}
	return buf.String(), fellBack
}

// formatJSON emits fields in a fixed order (timestamp, level, message,
// payload, exception, source) for deterministic golden-file comparison.
func formatJSON(e Entry) (string, bool) {
	var buf bytes.Buffer
	buf.WriteString(`{"timestamp":`)
	writeJSONString(&buf, e.Time.Format(timeLayout))
	buf.WriteString(`,"level":`)
	writeJSONString(&buf, e.Level.String())
	buf.WriteString(`,"message":`)
	writeJSONString(&buf, e.Message)

	fellBack := false
	if e.Payload != nil {
		buf.WriteString(`,"payload":`)
		fellBack = writeValue(&buf, *e.Payload)
	}
	if e.Err != nil {
		buf.WriteString(`,"exception":`)
		writeJSONString(&buf, errRepr(e.Err))
	}
	if e.Source != "" {
		buf.WriteString(`,"source":`)
		writeJSONString(&buf, e.Source)
	}
	buf.WriteByte('}')
	return buf.String(), fellBack
}

// writeValue encodes a payload value as JSON, preserving mapping member
// order. It reports whether any leaf required the string-coercion fallback.
func writeValue(buf *bytes.Buffer, v redact.Value) bool {
	switch v.Kind() {
	case redact.KindMapping:
		fellBack := false
		buf.WriteByte('{')
		for i, m := range v.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, m.Key)
			buf.WriteByte(':')
			if writeValue(buf, m.Val) {
				fellBack = true
			}
		}
		buf.WriteByte('}')
		return fellBack

	case redact.KindSequence:
		fellBack := false
		buf.WriteByte('[')
		for i, e := range v.Elems() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if writeValue(buf, e) {
				fellBack = true
			}
		}
		buf.WriteByte(']')
		return fellBack

	default:
		return writeScalar(buf, v.ScalarValue())
	}
}

// writeScalar encodes a leaf. Values encoding/json rejects (NaN, channels,
// functions, exotic types) degrade to their fmt.Sprint representation so the
// line stays valid JSON.
func writeScalar(buf *bytes.Buffer, v any) bool {
	if t, ok := v.(time.Time); ok {
		writeJSONString(buf, t.Format(timeLayout))
		return false
	}
	b, err := json.Marshal(v)
	if err != nil {
		writeJSONString(buf, fmt.Sprint(v))
		return true
	}
	buf.Write(b)
	return false
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail; keep the line well-formed anyway.
		buf.WriteString(`""`)
		return
	}
	buf.Write(b)
}

// errRepr renders an attached error through its standard stringification
// only; no other methods on the error value are invoked.
func errRepr(err error) string {
	return fmt.Sprintf("%v", err)
}
