// Package redact provides sensitive-field redaction for structured log payloads.
package redact

import (
	"strings"
	"sync"
)

// Mask is the literal written in place of a sensitive value.
const Mask = "***"

// CircularPlaceholder replaces a value that references one of its own ancestors.
const CircularPlaceholder = "<circular>"

// DefaultKeys returns the seed set of sensitive field names.
func DefaultKeys() []string {
	return []string{"password", "token", "api_key", "secret", "auth_key", "credential"}
}

// KeySet is a process-wide set of lower-cased field-name patterns.
// A key matches when it equals a pattern or contains one as a substring,
// case-insensitively. The set only grows; patterns cannot be removed.
//
// KeySet is safe for concurrent use.
type KeySet struct {
	mu       sync.RWMutex
	patterns map[string]struct{}
}

// NewKeySet creates a KeySet seeded with the given patterns.
// Pass DefaultKeys() for the standard seed.
func NewKeySet(patterns ...string) *KeySet {
	ks := &KeySet{patterns: make(map[string]struct{}, len(patterns))}
	ks.Add(patterns...)
	return ks
}

// Add unions the given patterns into the set. Patterns are normalized to
// lower case; empty strings and duplicates are ignored.
func (ks *KeySet) Add(patterns ...string) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		ks.patterns[p] = struct{}{}
	}
}

// Contains reports whether key should be redacted.
func (ks *KeySet) Contains(key string) bool {
	key = strings.ToLower(key)
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	if _, ok := ks.patterns[key]; ok {
		return true
	}
	for p := range ks.patterns {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

// Patterns returns a snapshot of the current patterns, for inspection.
func (ks *KeySet) Patterns() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	out := make([]string, 0, len(ks.patterns))
	for p := range ks.patterns {
		out = append(out, p)
	}
	return out
}
