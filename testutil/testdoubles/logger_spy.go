package testdoubles

import (
	"context"
	"sync"

	"github.com/Arrow-air/tool-simulation/observability"
)

// Log levels as recorded by LoggerSpy.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged for key, if any.
func (r SpyLogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// LoggerSpy captures plain and contextual logging calls. Plain calls are recorded with a nil Context.
type LoggerSpy struct {
	mu      sync.Mutex
	records []SpyLogRecord
}

// NewLoggerSpy creates a new LoggerSpy instance.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

// Debug implements the Logger interface for testing.
func (s *LoggerSpy) Debug(msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelDebug, Message: msg, Args: args})
}

// Info implements the Logger interface for testing.
func (s *LoggerSpy) Info(msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelInfo, Message: msg, Args: args})
}

// Warn implements the Logger interface for testing.
func (s *LoggerSpy) Warn(msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelWarn, Message: msg, Args: args})
}

// Error implements the Logger interface for testing.
func (s *LoggerSpy) Error(msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelError, Message: msg, Args: args})
}

func (s *LoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelDebug, Message: msg, Args: args, Context: ctx})
}

func (s *LoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelInfo, Message: msg, Args: args, Context: ctx})
}

func (s *LoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelWarn, Message: msg, Args: args, Context: ctx})
}

func (s *LoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.append(SpyLogRecord{Level: LevelError, Message: msg, Args: args, Context: ctx})
}

// Records returns a copy of all records of the given level. An empty level returns all records.
func (s *LoggerSpy) Records(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyLogRecord, 0, len(s.records))
	for _, record := range s.records {
		if level == "" || record.Level == level {
			records = append(records, record)
		}
	}

	return records
}

// HasLog checks if a log with the specified level and message exists.
func (s *LoggerSpy) HasLog(level, message string) bool {
	return s.CountLogs(level, message) > 0
}

// CountLogs counts the logs with the specified level and message.
func (s *LoggerSpy) CountLogs(level, message string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			count++
		}
	}

	return count
}

// Reset clears all recorded log calls.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

func (s *LoggerSpy) append(record SpyLogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Args = append([]any(nil), record.Args...)
	s.records = append(s.records, record)
}

var (
	_ observability.Logger           = (*LoggerSpy)(nil)
	_ observability.ContextualLogger = (*LoggerSpy)(nil)
)
