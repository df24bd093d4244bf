package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrettyHandlerWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, slog.LevelInfo))

	logger.With("store", "sqlite").Info("opened database", "path", "/tmp/app.db")

	out := buf.String()
	require.Contains(t, out, "opened database")
	require.Contains(t, out, "store")
	require.Contains(t, out, "sqlite")
	require.Contains(t, out, "/tmp/app.db")
}

func TestPrettyHandlerLevelGate(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, slog.LevelWarn)
	require.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestSetupDefaultsToInfo(t *testing.T) {
	require.Equal(t, slog.LevelInfo, parseLevel("bogus"))
	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
}
