package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	// Sensible default so packages can log before InitLogging runs.
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// InitLogging configures the global logger. When filePath is non-empty,
// log lines are duplicated to that file in JSON form.
func InitLogging(filePath string) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var w io.Writer = console
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("failed to open log file, using stderr only")
		} else {
			w = zerolog.MultiLevelWriter(console, f)
		}
	}

	log = zerolog.New(w).With().Timestamp().Logger()
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}
