// Package logging provides structured logging for clubmerge using zerolog.
// Terminals get human-readable console output; everything else gets JSON
// lines so merge runs can be shipped to a log pipeline as-is.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("club", "DE APTA").Int("records", 120).Msg("Loaded club file")
//
//	ctx := logging.WithIdentity(context.Background(), "jane@example.com")
//	logging.FromContext(ctx).Debug().Msg("Merging identity")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agentstation/clubmerge/pkg/constants"
)

// defaultLogger is the global logger instance.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = createDefaultLogger()
}

// createDefaultLogger creates a logger with default settings.
func createDefaultLogger() zerolog.Logger {
	var writer io.Writer = os.Stderr

	if isTerminal(os.Stderr) && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := getLogLevel()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Info starts a new info level log event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a new warning level log event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// getLogLevel reads CLUBMERGE_LOG_LEVEL, then LOG_LEVEL. DEBUG set to
// anything turns on debug when neither is present.
func getLogLevel() zerolog.Level {
	for _, key := range []string{constants.EnvPrefix + "_LOG_LEVEL", "LOG_LEVEL"} {
		if level := os.Getenv(key); level != "" {
			return parseLevel(level)
		}
	}
	if os.Getenv("DEBUG") != "" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
