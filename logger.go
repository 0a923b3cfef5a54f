package segcache

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with segcache-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPath adds the backing file path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithSegment adds a segment field to the logger.
func (l *Logger) WithSegment(seg int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", seg),
	}
}

// LogOpen logs the outcome of opening a matrix.
func (l *Logger) LogOpen(mode Mode, g Geometry, segments int64, err error) {
	if err != nil {
		l.Error("open failed",
			"mode", mode.String(),
			"rows", g.Rows,
			"cols", g.Cols,
			"error", err,
		)
		return
	}
	l.Info("matrix opened",
		"mode", mode.String(),
		"rows", g.Rows,
		"cols", g.Cols,
		"cell_size", g.CellSize,
		"segment", [2]int{g.SegRows, g.SegCols},
		"segments", segments,
		"slots", g.Slots,
	)
}

// LogEviction logs a slot being reused for another segment.
func (l *Logger) LogEviction(victim, seg int64, dirty bool) {
	l.Debug("segment evicted",
		"victim", victim,
		"loading", seg,
		"dirty", dirty,
	)
}

// LogFlush logs a flush that wrote at least one segment, or failed.
func (l *Logger) LogFlush(written int, duration time.Duration, err error) {
	if err != nil {
		l.Error("flush failed",
			"written", written,
			"error", err,
		)
		return
	}
	l.Debug("flush completed",
		"written", written,
		"duration", duration,
	)
}

// LogClose logs the outcome of closing a matrix.
func (l *Logger) LogClose(stats Stats, err error) {
	if err != nil {
		l.Error("close failed",
			"error", err,
		)
		return
	}
	l.Info("matrix closed",
		"hits", stats.Hits,
		"misses", stats.Misses,
		"page_ins", stats.PageIns,
		"page_outs", stats.PageOuts,
	)
}

// LogIOError logs a failed page transfer.
// Combine with WithSegment to tag the segment.
func (l *Logger) LogIOError(op string, err error) {
	l.Error("segment io failed",
		"op", op,
		"error", err,
	)
}
