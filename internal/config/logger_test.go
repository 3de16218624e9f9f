package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorHandler(t *testing.T) {
	newLogger := func() (*slog.Logger, *bytes.Buffer) {
		out := &bytes.Buffer{}
		return slog.New(newColorHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})), out
	}

	t.Run("wraps each line in its level color", func(t *testing.T) {
		logger, out := newLogger()

		logger.Info("listening")
		logger.Error("boom")

		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "\033[32m"))
		assert.True(t, strings.HasPrefix(lines[1], "\033[31m"))
		for _, line := range lines {
			assert.True(t, strings.HasSuffix(line, "\033[0m"))
		}
	})

	t.Run("attrs added with With survive", func(t *testing.T) {
		logger, out := newLogger()

		logger.With("request", "abc").Warn("slow upstream")

		assert.Contains(t, out.String(), "request=abc")
		assert.Contains(t, out.String(), "slow upstream")
		assert.True(t, strings.HasPrefix(out.String(), "\033[33m"))
	})

	t.Run("respects the configured level", func(t *testing.T) {
		out := &bytes.Buffer{}
		logger := slog.New(newColorHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))

		logger.Debug("hidden")

		assert.Empty(t, out.String())
	})
}

func TestInitLogger(t *testing.T) {
	t.Run("writes json records to the configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		logger, err := InitLogger(&LoggingConfig{Level: "info", Format: "json", File: path})
		require.NoError(t, err)

		logger.Info("started", "port", 8080)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"started"`)
		assert.NotContains(t, string(data), "\033[")
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.in))
		})
	}
}
