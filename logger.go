package wabbit

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with wabbit-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPass adds a pass number field to the logger.
func (l *Logger) WithPass(pass int) *Logger {
	return &Logger{
		Logger: l.Logger.With("pass", pass),
	}
}

// LogPass logs a completed dataset pass.
func (l *Logger) LogPass(pass int, source string, examples uint64, skipped int, err error) {
	if err != nil {
		l.Error("pass failed",
			"pass", pass,
			"source", source,
			"examples", examples,
			"error", err,
		)
	} else {
		l.Info("pass completed",
			"pass", pass,
			"source", source,
			"examples", examples,
			"skipped", skipped,
		)
	}
}

// LogCacheFallback logs a fallback from cache replay to text parsing.
func (l *Logger) LogCacheFallback(pass int, err error) {
	l.Warn("cache replay failed, falling back to text",
		"pass", pass,
		"error", err,
	)
}
