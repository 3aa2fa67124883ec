package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   ports.Level
	Message string
	Fields  map[string]interface{}
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Logger is a thread-safe ports.Logger that records every entry. Loggers
// derived with With share the parent's record.
type Logger struct {
	sink   *logSink
	fields []ports.Field
	level  ports.Level
}

// NewLogger creates a Logger recording every level.
func NewLogger() *Logger {
	return &Logger{sink: &logSink{}, level: ports.LevelDebug}
}

func (l *Logger) log(level ports.Level, msg string, fields []ports.Field) {
	if level < l.level {
		return
	}
	entry := LogEntry{Level: level, Message: msg, Fields: make(map[string]interface{})}
	for _, f := range l.fields {
		entry.Fields[f.Key] = f.Value
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, entry)
}

// Debug records a debug entry.
func (l *Logger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	l.log(ports.LevelDebug, msg, fields)
}

// Info records an info entry.
func (l *Logger) Info(_ context.Context, msg string, fields ...ports.Field) {
	l.log(ports.LevelInfo, msg, fields)
}

// Warn records a warn entry.
func (l *Logger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	l.log(ports.LevelWarn, msg, fields)
}

// Error records an error entry.
func (l *Logger) Error(_ context.Context, msg string, fields ...ports.Field) {
	l.log(ports.LevelError, msg, fields)
}

// With returns a Logger adding fields to every entry.
func (l *Logger) With(fields ...ports.Field) ports.Logger {
	c := *l
	c.fields = append(append([]ports.Field(nil), l.fields...), fields...)
	return &c
}

// Level returns the minimum recorded level.
func (l *Logger) Level() ports.Level {
	return l.level
}

// SetLevel sets the minimum recorded level.
func (l *Logger) SetLevel(level ports.Level) {
	l.level = level
}

// Entries returns a copy of every recorded entry.
func (l *Logger) Entries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return append([]LogEntry(nil), l.sink.entries...)
}

// Messages returns the recorded messages in order.
func (l *Logger) Messages() []string {
	entries := l.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

var _ ports.Logger = (*Logger)(nil)
