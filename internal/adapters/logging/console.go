// Package logging provides a ports.Logger writing structured text or JSON
// through log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// ConsoleLogger logs structured messages to the console through log/slog.
type ConsoleLogger struct {
	out          io.Writer
	level        *slog.LevelVar
	jsonFormat   bool
	includeTime  bool
	includeLevel bool
	logger       *slog.Logger
}

// ConsoleLoggerOption configures the console logger.
type ConsoleLoggerOption func(*ConsoleLogger)

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.level.Set(toSlogLevel(level))
	}
}

// WithJSONFormat enables JSON output format.
func WithJSONFormat(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.jsonFormat = enabled
	}
}

// WithTimestamp includes timestamp in log entries.
func WithTimestamp(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.includeTime = enabled
	}
}

// WithLevelLabel includes level label in log entries.
func WithLevelLabel(enabled bool) ConsoleLoggerOption {
	return func(l *ConsoleLogger) {
		l.includeLevel = enabled
	}
}

// NewConsoleLogger creates a new console logger.
func NewConsoleLogger(opts ...ConsoleLoggerOption) *ConsoleLogger {
	l := &ConsoleLogger{
		out:          os.Stderr,
		level:        new(slog.LevelVar),
		includeTime:  true,
		includeLevel: true,
	}

	for _, opt := range opts {
		opt(l)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       l.level,
		ReplaceAttr: l.replaceAttr,
	}
	if l.jsonFormat {
		l.logger = slog.New(slog.NewJSONHandler(l.out, handlerOpts))
	} else {
		l.logger = slog.New(slog.NewTextHandler(l.out, handlerOpts))
	}

	return l
}

// replaceAttr drops disabled built-in attributes and renders times compactly.
func (l *ConsoleLogger) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		if !l.includeTime {
			return slog.Attr{}
		}
		if !l.jsonFormat {
			return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05"))
		}
		return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339))
	case slog.LevelKey:
		if !l.includeLevel {
			return slog.Attr{}
		}
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, fromSlogLevel(lvl).String())
		}
	}
	return a
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

// With returns a new logger with additional fields. The level is shared
// with the parent.
func (l *ConsoleLogger) With(fields ...ports.Field) ports.Logger {
	c := *l
	c.logger = l.logger.With(toArgs(fields)...)
	return &c
}

// Level returns the minimum log level.
func (l *ConsoleLogger) Level() ports.Level {
	return fromSlogLevel(l.level.Level())
}

// SetLevel sets the minimum log level.
func (l *ConsoleLogger) SetLevel(level ports.Level) {
	l.level.Set(toSlogLevel(level))
}

func (l *ConsoleLogger) log(ctx context.Context, level slog.Level, msg string, fields []ports.Field) {
	l.logger.Log(ctx, level, msg, toArgs(fields)...)
}

func toArgs(fields []ports.Field) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, slog.Any(f.Key, f.Value))
	}
	return args
}

func toSlogLevel(level ports.Level) slog.Level {
	switch level {
	case ports.LevelDebug:
		return slog.LevelDebug
	case ports.LevelWarn:
		return slog.LevelWarn
	case ports.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fromSlogLevel(level slog.Level) ports.Level {
	switch {
	case level < slog.LevelInfo:
		return ports.LevelDebug
	case level < slog.LevelWarn:
		return ports.LevelInfo
	case level < slog.LevelError:
		return ports.LevelWarn
	default:
		return ports.LevelError
	}
}

// Ensure ConsoleLogger implements Logger.
var _ ports.Logger = (*ConsoleLogger)(nil)
