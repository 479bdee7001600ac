package cluster

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used across the index.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler logs text
// to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger logs human-readable lines to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger logs JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithLevel tags log lines with a grid level.
func (l *Logger) WithLevel(level int) *Logger {
	return &Logger{Logger: l.Logger.With("lod_level", level)}
}

// LogAdd records the outcome of bucketing a batch into one level.
func (l *Logger) LogAdd(stats AddStats, cellSize Size) {
	l.Debug("items bucketed",
		"touched", stats.Touched,
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"cell_size", cellSize.Width,
	)
}

// LogFlush records a flush before display.
func (l *Logger) LogFlush(clusters, flushed int) {
	l.Debug("clusters flushed",
		"clusters", clusters,
		"flushed", flushed,
	)
}
