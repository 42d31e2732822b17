package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.Info("panel loaded", slog.Int("rows", 42))
	logger.Warn("titles table is empty")
	logger.Debug("resolving columns")

	assert.Equal(t, 3, handler.Count())
	assert.True(t, handler.ContainsMessage("panel loaded"))
	assert.True(t, handler.ContainsAttr("rows", int64(42)))
	assert.False(t, handler.ContainsMessage("no such message"))

	warns := handler.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "titles table is empty", warns[0].Message)

	handler.Clear()
	assert.Equal(t, 0, handler.Count())
}

func TestBufferedSlogHandler_WithAttrs(t *testing.T) {
	logger, handler := NewTestLogger(t)

	child := logger.With(slog.String("run_id", "abc123"))
	child.Info("allocation started", slog.Int("years", 4))

	// Derived loggers share the parent's buffer and stamp their attrs on
	// every record.
	require.Equal(t, 1, handler.Count())
	assert.True(t, handler.ContainsAttr("run_id", "abc123"))
	assert.True(t, handler.ContainsAttr("years", int64(4)))
}

func TestBufferedSlogHandler_RecordCopies(t *testing.T) {
	logger, handler := NewTestLogger(t)
	logger.Info("first")

	records := handler.GetRecords()
	require.Len(t, records, 1)

	logger.Info("second")
	assert.Len(t, records, 1, "snapshot does not grow with later records")
	assert.Len(t, handler.GetRecords(), 2)
}

func TestAssertHelpers(t *testing.T) {
	logger, handler := NewTestLogger(t)
	logger.Info("crosswalk built", slog.Int("edges", 7))

	AssertLogContains(t, handler, slog.LevelInfo, "crosswalk built")
	AssertLogAttr(t, handler, "edges", int64(7))
	AssertNoErrors(t, handler)
}
