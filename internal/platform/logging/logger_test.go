package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ContextFieldsIncludeRequestID(t *testing.T) {
	t.Parallel()

	logger, logs := NewObserved(LevelDebug)
	ctx := ContextWithRequestID(context.Background(), "req-123")

	logger.WarnContext(ctx, "mirror attempt failed", "host", "api.example.test", "error", errors.New("boom"), "elapsed", 1500*time.Millisecond)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "api.example.test", fields["host"])
	assert.Equal(t, "boom", fields["error"])
	assert.EqualValues(t, 1500, fields["elapsed_ms"])
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("hello", "k", "v")
		logger.Named("resolver").Debug("noop")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetMirror_ReceivesEnabledEntries(t *testing.T) {
	logger, _ := NewObserved(LevelInfo)

	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.Debug("filtered")
	logger.Info("kept", "tag", "#ABC")
	logger.ErrorContext(context.Background(), "failed")

	assert.Equal(t, []string{"info:kept", "error:failed"}, got)
}
