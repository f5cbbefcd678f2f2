package testdoubles

import (
	"sync"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy is a storage.Logger implementation that captures logging calls
// for testing.
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
	s.record("debug", msg, args)
}

// Info implements the Logger interface for testing.
func (s *LoggerSpy) Info(msg string, args ...any) {
	s.record("info", msg, args)
}

// Warn implements the Logger interface for testing.
func (s *LoggerSpy) Warn(msg string, args ...any) {
	s.record("warn", msg, args)
}

// Error implements the Logger interface for testing.
func (s *LoggerSpy) Error(msg string, args ...any) {
	s.record("error", msg, args)
}

// RecordsWithLevel returns all captured records with the given level.
func (s *LoggerSpy) RecordsWithLevel(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []SpyLogRecord
	for _, rec := range s.records {
		if rec.Level == level {
			matching = append(matching, rec)
		}
	}

	return matching
}

func (s *LoggerSpy) record(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args})
}
