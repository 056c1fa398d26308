package logkeep

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/logkeep/pkg/config"
)

// NewTestStore creates a Store backed by a file in tb's temp directory,
// with console mirroring off and all levels enabled. The store is closed
// automatically when the test ends.
func NewTestStore(tb testing.TB, mutate func(*config.Config)) *Store {
	tb.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Path = filepath.Join(tb.TempDir(), "test.log")
	cfg.Console = false
	if mutate != nil {
		mutate(cfg)
	}

	store, err := New(cfg, zap.NewNop())
	if err != nil {
		tb.Fatalf("creating test store: %v", err)
	}
	tb.Cleanup(func() { store.Close() })
	return store
}
