package testutil

import (
	"sync"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

type logBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
}

// MockLogger captures log calls for assertions.  Child loggers from With
// and Named share the parent's capture buffer.  Safe for concurrent use.
type MockLogger struct {
	buf  *logBuffer
	with []logging.Field
}

// NewMockLogger returns an empty capturing logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{buf: &logBuffer{}}
}

func (m *MockLogger) record(level, msg string, fields []logging.Field) {
	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	all := append(append([]logging.Field{}, m.with...), fields...)
	m.buf.entries = append(m.buf.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.record("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.record("fatal", msg, fields) }

// With returns a child logger sharing the capture buffer.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return &MockLogger{
		buf:  m.buf,
		with: append(append([]logging.Field{}, m.with...), fields...),
	}
}

// Named returns a child logger sharing the capture buffer.
func (m *MockLogger) Named(string) logging.Logger {
	return &MockLogger{buf: m.buf, with: m.with}
}

// Entries returns a copy of the captured entries.
func (m *MockLogger) Entries() []LogEntry {
	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	return append([]LogEntry{}, m.buf.entries...)
}

// HasMessage reports whether any captured entry carries the message.
func (m *MockLogger) HasMessage(msg string) bool {
	m.buf.mu.Lock()
	defer m.buf.mu.Unlock()
	for _, e := range m.buf.entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}

var _ logging.Logger = (*MockLogger)(nil)
