// Package logger provides logging utilities for the export monitor.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// ErrUnknownLevel is returned for a level name outside debug, info, warn and error.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownFormat is returned for a format other than text or json.
	ErrUnknownFormat = errors.New("unknown log format")
)

// Options configures a Logger.
type Options struct {
	Writer io.Writer
	Level  string
	Format string
}

// Logger provides structured logging functionality.
type Logger struct {
	internal *slog.Logger
	level    *slog.LevelVar
}

// ParseLevel converts a level name into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// ValidFormat reports whether format names a supported handler.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", FormatText, FormatJSON:
		return true
	}

	return false
}

// NewLogger creates a text logger writing to stderr with the specified level.
// Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	log, err := New(Options{Level: level})
	if err != nil {
		log, _ = New(Options{})
	}

	return log
}

// New creates a logger from explicit options.
func New(opts Options) (*Logger, error) {
	parsed, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	lvl := new(slog.LevelVar)
	lvl.Set(parsed)

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
	}

	var handler slog.Handler

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, handlerOpts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	return &Logger{
		internal: slog.New(handler),
		level:    lvl,
	}, nil
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	log, _ := New(Options{Writer: io.Discard, Level: "error"})

	return log
}

// SetLevel changes the minimum level of this logger and all its children.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Enabled reports whether records at level are emitted.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.level.Level() <= level
}

// Info logs an info level message.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info(msg, args...)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error(msg, args...)
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		internal: l.internal.With(args...),
		level:    l.level,
	}
}

// Log logs a message with the given level and attributes.
func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.internal.Log(ctx, level, msg, args...)
}
