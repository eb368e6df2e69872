// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog (production) and zerolog (local
// development).
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "env", env)
type Logger interface {
	// Debug logs diagnostic details that are off in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New returns the logger for the given environment. "development" and
// "local" get a human-readable zerolog console writer on stderr, anything
// else a JSON slog handler on stdout.
func New(env string) Logger {
	switch strings.ToLower(env) {
	case "development", "local":
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		return NewZerologLogger(zl)
	default:
		h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
		return NewSlogLogger(slog.New(h))
	}
}
