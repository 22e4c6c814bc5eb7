package rowpack

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rowpack-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithContentWidth adds a content_width field to the logger.
func (l *Logger) WithContentWidth(px int) *Logger {
	return &Logger{
		Logger: l.Logger.With("content_width", px),
	}
}

// LogExtend logs a completed extension of the memo tables.
func (l *Logger) LogExtend(ctx context.Context, from, to, rows int, took time.Duration) {
	l.DebugContext(ctx, "layout extended",
		"from", from,
		"to", to,
		"rows", rows,
		"took", took,
	)
}

// LogReset logs a wholesale invalidation of the memo tables.
func (l *Logger) LogReset(ctx context.Context, reason string, positions int) {
	l.DebugContext(ctx, "layout reset",
		"reason", reason,
		"discarded", positions,
	)
}

// LogSlackCorrection logs a fixed-height row that had its last item moved to
// the next row.
func (l *Logger) LogSlackCorrection(ctx context.Context, row, dropped int, accepted bool) {
	if accepted {
		l.DebugContext(ctx, "row shortened",
			"row", row,
			"dropped", dropped,
		)
	} else {
		l.WarnContext(ctx, "row shortened but slack still out of bounds",
			"row", row,
			"dropped", dropped,
		)
	}
}
