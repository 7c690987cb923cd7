package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, ParseLevel(input), input)
	}
}

func TestWithModule(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer

	SetupWriter(&buf, "warn")

	logger := WithModule("editor")
	logger.Info("hidden")
	logger.Warn("shown", "node_id", "n1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "module=editor")
	assert.Contains(t, out, "node_id=n1")
}
