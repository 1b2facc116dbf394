package embdrift

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with embdrift-specific context.
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
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

// WithKey adds a key field to the logger (useful for tagging per-key work).
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key),
	}
}

// WithK adds a k (neighborhood size) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogIndexBuild logs the construction of one side's neighbor index.
func (l *Logger) LogIndexBuild(ctx context.Context, side string, vectors, dimension int, cached bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"side", side,
			"vectors", vectors,
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index ready",
			"side", side,
			"vectors", vectors,
			"dimension", dimension,
			"cached", cached,
		)
	}
}

// LogAlign logs a vocabulary alignment.
func (l *Logger) LogAlign(ctx context.Context, common, onlyInA, onlyInB int, coverage float64) {
	l.DebugContext(ctx, "vocabularies aligned",
		"common", common,
		"only_in_a", onlyInA,
		"only_in_b", onlyInB,
		"coverage", coverage,
	)
}

// LogCompare logs a completed comparison.
func (l *Logger) LogCompare(ctx context.Context, compared, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "comparison failed",
			"compared", compared,
			"k", k,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "comparison completed",
			"compared", compared,
			"k", k,
		)
	}
}
