package format

import (
	"encoding/json"
	"strings"
)

// LineLevel extracts the embedded level marker from a persisted line, in
// either text or JSON form. It exists so the rotation engine can reclassify
// lines on a cold read without re-parsing message content.
//
// Lines whose marker is missing or unrecognized classify as InfoLevel with
// ok=false; callers treat them as ordinary.
func LineLevel(line string) (Level, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return InfoLevel, false
	}
	if line[0] == '{' {
		var probe struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			return InfoLevel, false
		}
		l, err := ParseLevel(probe.Level)
		if err != nil {
			return InfoLevel, false
		}
		return l, true
	}

	// Text form: "[timestamp] [LEVEL] message".
	open := strings.Index(line, "] [")
	if open < 0 {
		return InfoLevel, false
	}
	rest := line[open+3:]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return InfoLevel, false
	}
	l, err := ParseLevel(rest[:end])
	if err != nil {
		return InfoLevel, false
	}
	return l, true
}

// LinePreserved reports whether a persisted line belongs to the preserved
// severity class (ERROR or CRITICAL).
func LinePreserved(line string) bool {
	l, ok := LineLevel(line)
	return ok && l.Preserved()
}
