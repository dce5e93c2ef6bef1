// Package eventlog keeps the bounded, timestamped log shown in the UI.
package eventlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is one visible log line.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// String formats the entry as "[15:04:05] message".
func (e Entry) String() string {
	return "[" + e.Time.Format("15:04:05") + "] " + e.Message
}

// Log is an append-only list of entries that drops the oldest entry once
// capacity is reached. Every entry is mirrored to a slog.Logger.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	version  uint64
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithLogger mirrors entries to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates a Log holding at most capacity entries.
func New(capacity int, opts ...Option) *Log {
	if capacity < 1 {
		capacity = 1
	}
	l := &Log{
		capacity: capacity,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds a message at the given level.
func (l *Log) Append(level slog.Level, msg string) {
	e := Entry{Time: l.now(), Level: level, Message: msg}

	l.mu.Lock()
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, e)
	l.version++
	l.mu.Unlock()

	l.logger.Log(context.Background(), level, msg)
}

func (l *Log) Info(format string, args ...any) {
	l.Append(slog.LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Log) Warn(format string, args ...any) {
	l.Append(slog.LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Log) Error(format string, args ...any) {
	l.Append(slog.LevelError, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.version++
	l.mu.Unlock()
}

// Version changes whenever the entries change.
func (l *Log) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Lines formats all entries, one per line.
func (l *Log) Lines() string {
	entries := l.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
