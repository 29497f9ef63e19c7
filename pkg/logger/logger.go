package logger

import (
	"os"
	"time"

	"github.com/blog-api/internal/config"
	"github.com/rs/zerolog"
)

// New creates a new zerolog logger with structured output
func New(cfg config.LogConfig) zerolog.Logger {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339

	var logLevel zerolog.Level
	switch cfg.Level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	// Use pretty console output in development
	if cfg.Format == "pretty" || os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(logLevel).
			With().
			Timestamp().
			Caller().
			Str("service", "blog-api").
			Logger()
	}

	// JSON output for production
	return zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", "blog-api").
		Logger()
}
