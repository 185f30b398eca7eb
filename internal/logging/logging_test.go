package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	require.Empty(t, buf.String())

	logger.Warn("shown", "env", "ppm_env")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "env=ppm_env")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Debug("attached")
	require.Contains(t, buf.String(), "attached")

	// No logger attached: must not panic and must not write anywhere visible.
	FromContext(context.Background()).Error("dropped")
}
