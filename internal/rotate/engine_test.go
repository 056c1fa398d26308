package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/logkeep/internal/format"
)

func newTestEngine(t *testing.T, maxLines int, preserve bool) (*Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	e, err := NewEngine(path, maxLines, preserve, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, path
}

func testLine(level format.Level, msg string) string {
	line, _ := format.Format(format.Entry{
		Time:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Level:   level,
		Message: msg,
	}, format.ModeText)
	return line
}

func appendLevel(t *testing.T, e *Engine, level format.Level, msg string) {
	t.Helper()
	require.NoError(t, e.Append(testLine(level, msg), level.Preserved()))
}

func fileLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return splitLines(data)
}

func TestNewEngine_RejectsInvalidMaxLines(t *testing.T) {
	_, err := NewEngine(filepath.Join(t.TempDir(), "a.log"), 0, true, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxLines)

	_, err = NewEngine(filepath.Join(t.TempDir(), "a.log"), -3, true, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxLines)
}

func TestNewEngine_BadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewEngine(filepath.Join(blocker, "a.log"), 5, true, nil)
	assert.Error(t, err)
}

func TestAppend_CountsLines(t *testing.T) {
	e, path := newTestEngine(t, 100, true)

	appendLevel(t, e, format.InfoLevel, "one")
	appendLevel(t, e, format.WarningLevel, "two")

	assert.Equal(t, 2, e.LineCount())
	assert.Len(t, fileLines(t, path), 2)
}

func TestRotation_PreservesErrorsScenario(t *testing.T) {
	// max_lines=5, preserve on: 3 INFO, then 4 ERROR, then 2 INFO.
	// Expected: all 4 ERROR lines plus the most recent INFO line, in
	// original relative order.
	e, path := newTestEngine(t, 5, true)

	for i := 1; i <= 3; i++ {
		appendLevel(t, e, format.InfoLevel, fmt.Sprintf("info-%d", i))
	}
	for i := 1; i <= 4; i++ {
		appendLevel(t, e, format.ErrorLevel, fmt.Sprintf("error-%d", i))
	}
	for i := 4; i <= 5; i++ {
		appendLevel(t, e, format.InfoLevel, fmt.Sprintf("info-%d", i))
	}

	lines := fileLines(t, path)
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "error-1")
	assert.Contains(t, lines[1], "error-2")
	assert.Contains(t, lines[2], "error-3")
	assert.Contains(t, lines[3], "error-4")
	assert.Contains(t, lines[4], "info-5")

	stats, err := e.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalLines: 5, ErrorLines: 4, CriticalLines: 0}, stats)
}

func TestRotation_RingModeBoundsFile(t *testing.T) {
	e, path := newTestEngine(t, 3, false)

	for i := 1; i <= 10; i++ {
		level := format.InfoLevel
		if i%2 == 0 {
			level = format.ErrorLevel
		}
		appendLevel(t, e, level, fmt.Sprintf("msg-%d", i))
		assert.LessOrEqual(t, len(fileLines(t, path)), 3,
			"file must stay bounded after every append in ring mode")
	}

	lines := fileLines(t, path)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "msg-10")
}

func TestRotation_PreservedLinesNeverDecrease(t *testing.T) {
	e, _ := newTestEngine(t, 4, true)

	appended := 0
	for i := 0; i < 30; i++ {
		if i%3 == 0 {
			appendLevel(t, e, format.CriticalLevel, fmt.Sprintf("crit-%d", i))
			appended++
		} else {
			appendLevel(t, e, format.InfoLevel, fmt.Sprintf("info-%d", i))
		}
	}

	stats, err := e.Stats()
	require.NoError(t, err)
	assert.Equal(t, appended, stats.CriticalLines,
		"every preserved line ever appended must survive rotation")
}

func TestRotation_PreservedOverflowSoftBound(t *testing.T) {
	// When preserved lines alone exceed the cap, all of them are kept:
	// the cap is advisory, preservation wins.
	e, path := newTestEngine(t, 3, true)

	for i := 1; i <= 6; i++ {
		appendLevel(t, e, format.ErrorLevel, fmt.Sprintf("error-%d", i))
	}

	lines := fileLines(t, path)
	assert.Len(t, lines, 6)
}

func TestForceRotate_EmptyFileNoop(t *testing.T) {
	e, path := newTestEngine(t, 5, true)

	require.NoError(t, e.ForceRotate())
	assert.Equal(t, 0, e.LineCount())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestForceRotate_TrimsUnconditionally(t *testing.T) {
	e, path := newTestEngine(t, 10, true)

	for i := 1; i <= 4; i++ {
		appendLevel(t, e, format.InfoLevel, fmt.Sprintf("info-%d", i))
	}
	require.NoError(t, e.SetMaxLines(2))
	require.NoError(t, e.ForceRotate())

	lines := fileLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "info-3")
	assert.Contains(t, lines[1], "info-4")
	assert.Equal(t, 2, e.LineCount())
}

func TestColdStart_RecountsAndClassifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	content := strings.Join([]string{
		testLine(format.InfoLevel, "old-info"),
		testLine(format.ErrorLevel, "old-error"),
		testLine(format.CriticalLevel, "old-critical"),
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	e, err := NewEngine(path, 10, true, nil)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 3, e.LineCount())

	stats, err := e.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalLines: 3, ErrorLines: 1, CriticalLines: 1}, stats)
}

func TestView_TailMostRecentLast(t *testing.T) {
	e, _ := newTestEngine(t, 100, true)

	for i := 1; i <= 5; i++ {
		appendLevel(t, e, format.InfoLevel, fmt.Sprintf("msg-%d", i))
	}

	tail, err := e.View(2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Contains(t, tail[0], "msg-4")
	assert.Contains(t, tail[1], "msg-5")

	all, err := e.View(50)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := e.View(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetMaxLines_RejectsNonPositive(t *testing.T) {
	e, _ := newTestEngine(t, 5, true)

	assert.ErrorIs(t, e.SetMaxLines(0), ErrInvalidMaxLines)
	assert.ErrorIs(t, e.SetMaxLines(-1), ErrInvalidMaxLines)

	// Previous cap retained: six appends still trigger rotation at >5.
	for i := 1; i <= 6; i++ {
		appendLevel(t, e, format.InfoLevel, fmt.Sprintf("m-%d", i))
	}
	assert.Equal(t, 5, e.LineCount())
}

func TestAppend_EscapesEmbeddedLineBreaks(t *testing.T) {
	e, path := newTestEngine(t, 10, true)

	require.NoError(t, e.Append("[ts] [INFO] multi\nline", false))
	require.NoError(t, e.Append("[ts] [INFO] carriage\rreturn", false))
	require.NoError(t, e.Append("[ts] [INFO] windows\r\nbreak", false))

	lines := fileLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, `[ts] [INFO] multi\nline`, lines[0])
	assert.Equal(t, `[ts] [INFO] carriage\rreturn`, lines[1])
	assert.Equal(t, `[ts] [INFO] windows\r\nbreak`, lines[2])
}

func TestAppend_ReopensDroppedHandle(t *testing.T) {
	e, path := newTestEngine(t, 10, true)

	appendLevel(t, e, format.InfoLevel, "before")

	// Simulate a rotation that renamed the temp file into place but failed
	// to reopen it: the engine holds no handle until the next append.
	e.mu.Lock()
	e.f.Close()
	e.f = nil
	e.mu.Unlock()

	appendLevel(t, e, format.InfoLevel, "after")

	lines := fileLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "after")

	require.NoError(t, e.Close())
}

func TestCurrentLinesGauge_PerPath(t *testing.T) {
	a, _ := newTestEngine(t, 100, true)
	b, _ := newTestEngine(t, 100, true)

	appendLevel(t, a, format.InfoLevel, "a-1")
	appendLevel(t, a, format.InfoLevel, "a-2")
	appendLevel(t, b, format.InfoLevel, "b-1")

	// Each engine reports under its own path label; one file's count must
	// not clobber another's.
	assert.Equal(t, 2.0, testutil.ToFloat64(CurrentLines.WithLabelValues(a.Path())))
	assert.Equal(t, 1.0, testutil.ToFloat64(CurrentLines.WithLabelValues(b.Path())))
}

func TestClose_ThenUse(t *testing.T) {
	e, _ := newTestEngine(t, 5, true)

	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Close(), ErrClosed)
	assert.ErrorIs(t, e.Append("x", false), ErrClosed)
	assert.ErrorIs(t, e.ForceRotate(), ErrClosed)
	_, err := e.Stats()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = e.View(1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRotationFailure_OriginalIntactAndRetried(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission-based failure injection does not work as root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	e, err := NewEngine(path, 2, false, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	appendLevel(t, e, format.InfoLevel, "one")
	appendLevel(t, e, format.InfoLevel, "two")

	// Temp-file creation in a read-only directory fails, so rotation fails;
	// the oversized original must survive untouched.
	require.NoError(t, os.Chmod(dir, 0o500))
	err = e.Append(testLine(format.InfoLevel, "three"), false)
	assert.ErrorIs(t, err, ErrRotationFailed)
	require.NoError(t, os.Chmod(dir, 0o700))

	assert.Len(t, fileLines(t, path), 3, "failed rotation must not lose lines")

	// Next append retries the pending rotation.
	appendLevel(t, e, format.InfoLevel, "four")
	assert.LessOrEqual(t, len(fileLines(t, path)), 3)
}

func TestRotation_DiagnosticLogged(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	path := filepath.Join(t.TempDir(), "app.log")
	e, err := NewEngine(path, 2, true, zap.New(core))
	require.NoError(t, err)
	defer e.Close()

	for i := 1; i <= 3; i++ {
		appendLevel(t, e, format.InfoLevel, fmt.Sprintf("m-%d", i))
	}

	entries := observed.FilterMessage("log file rotated").All()
	require.Len(t, entries, 1)
}

func TestConcurrentAppends_NoLostLines(t *testing.T) {
	const n = 64
	e, path := newTestEngine(t, n+10, true)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, e.Append(testLine(format.InfoLevel, fmt.Sprintf("c-%d", i)), false))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, e.LineCount())
	assert.Len(t, fileLines(t, path), n)
}

func TestSelectKept_PreservedInterleavedOrder(t *testing.T) {
	lines := []string{
		testLine(format.InfoLevel, "i1"),
		testLine(format.ErrorLevel, "e1"),
		testLine(format.InfoLevel, "i2"),
		testLine(format.ErrorLevel, "e2"),
		testLine(format.InfoLevel, "i3"),
	}

	kept, preserved := selectKept(lines, 3, true)
	assert.Equal(t, 2, preserved)
	require.Len(t, kept, 3)
	// e1 and e2 kept, plus the most recent ordinary line, original order.
	assert.Contains(t, kept[0], "e1")
	assert.Contains(t, kept[1], "e2")
	assert.Contains(t, kept[2], "i3")
}
