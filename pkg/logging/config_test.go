package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	tests := []struct {
		name      string
		level     string
		logDebug  bool
		wantDebug bool
	}{
		{name: "debug level keeps debug events", level: "debug", logDebug: true, wantDebug: true},
		{name: "info level drops debug events", level: "info", logDebug: true, wantDebug: false},
		{name: "warning alias", level: "warning", logDebug: true, wantDebug: false},
		{name: "unknown level falls back to info", level: "loud", logDebug: true, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.log")
			logger := logging.NewLoggerFromConfig(&logging.Config{
				Level:  tt.level,
				Format: "json",
				Output: path,
				Fields: map[string]any{"run": "test"},
			})

			logger.Debug().Msg("debug-line")
			logger.Warn().Msg("warn-line")

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(content), "warn-line")
			assert.Contains(t, string(content), `"run":"test"`)
			assert.Equal(t, tt.wantDebug, strings.Contains(string(content), "debug-line"))
		})
	}
}

func TestLogFileDirectoryCreated(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	path := filepath.Join(t.TempDir(), "logs", "2024", "run.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "json", Output: path})
	logger.Info().Msg("file-line")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file-line")
}
