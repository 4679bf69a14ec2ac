// Package logging wraps log/slog with the field names used across marquee.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with marquee-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable lines to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON lines to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// New builds a Logger from textual settings as they appear in config files
// and flags. format is "text" or "json".
func New(w io.Writer, level, format string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextLogger(w, lvl), nil
	case "json":
		return NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog.Level.
// The empty string means warn, which keeps one-shot commands quiet.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// LogInsert logs a record insertion.
func (l *Logger) LogInsert(ctx context.Context, title string, attrs int, err error) {
	if err != nil {
		l.DebugContext(ctx, "insert rejected", "title", title, "error", err)
		return
	}
	l.DebugContext(ctx, "insert completed", "title", title, "attributes", attrs)
}

// LogDelete logs a record deletion.
func (l *Logger) LogDelete(ctx context.Context, title string, err error) {
	if err != nil {
		l.DebugContext(ctx, "delete failed", "title", title, "error", err)
		return
	}
	l.DebugContext(ctx, "delete completed", "title", title)
}

// LogLoad logs the outcome of a dataset load.
func (l *Logger) LogLoad(ctx context.Context, path string, loaded, skipped, duplicates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed", "path", path, "error", err)
		return
	}
	l.InfoContext(ctx, "load completed",
		"path", path,
		"loaded", loaded,
		"skipped", skipped,
		"duplicates", duplicates,
	)
}

// LogQuery logs a traversal or lookup.
func (l *Logger) LogQuery(ctx context.Context, op string, results int, err error) {
	if err != nil {
		l.DebugContext(ctx, "query failed", "op", op, "error", err)
		return
	}
	l.DebugContext(ctx, "query completed", "op", op, "results", results)
}
