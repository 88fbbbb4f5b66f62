package knn

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with classifier-specific fields so that every
// record uses the same keys.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at Info level is used.
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

// NewJSONLogger creates a Logger that outputs JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithK adds the neighbor count to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// WithDimension adds the feature dimension to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim)}
}

// WithStrategy adds the distance strategy to the logger.
func (l *Logger) WithStrategy(s Strategy) *Logger {
	return &Logger{Logger: l.Logger.With("strategy", s.String())}
}

// LogTrain logs a training call.
func (l *Logger) LogTrain(ctx context.Context, samples, dim int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "train failed",
			"samples", samples,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "train completed",
		"samples", samples,
		"dimension", dim,
	)
}

// LogPredict logs a prediction call.
func (l *Logger) LogPredict(ctx context.Context, s Strategy, k, queries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "predict failed",
			"strategy", s.String(),
			"k", k,
			"queries", queries,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "predict completed",
		"strategy", s.String(),
		"k", k,
		"queries", queries,
	)
}
