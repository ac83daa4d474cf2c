package logger

import (
	"sync"
)

// TestLogger is a logger implementation for testing that captures all
// log messages in memory.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
	err      error
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{messages: make([]LogMessage, 0)}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}
func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}
func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}
func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}
func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.log("FATAL", msg, fields)
}

// WithField returns a child logger recording into the same message list
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &sharedTestLogger{parent: l, fields: map[string]interface{}{key: value}, err: l.err}
}

// WithFields returns a child logger recording into the same message list
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &sharedTestLogger{parent: l, fields: fields, err: l.err}
}

// WithError returns a child logger recording into the same message list
func (l *TestLogger) WithError(err error) Logger {
	return &sharedTestLogger{parent: l, err: err}
}

// Messages returns a copy of all captured messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// MessagesByLevel returns captured messages at the given level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	var out []LogMessage
	for _, m := range l.Messages() {
		if m.Level == level {
			out = append(out, m)
		}
	}
	return out
}

// Clear discards all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}

// sharedTestLogger forwards to its parent TestLogger with extra context
type sharedTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
	err    error
}

func (s *sharedTestLogger) merged(fields map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(s.fields)+len(fields)+1)
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if s.err != nil {
		merged["error"] = s.err.Error()
	}
	return merged
}

func (s *sharedTestLogger) Debug(msg string) { s.parent.log("DEBUG", msg, s.merged(nil)) }
func (s *sharedTestLogger) Info(msg string)  { s.parent.log("INFO", msg, s.merged(nil)) }
func (s *sharedTestLogger) Warn(msg string)  { s.parent.log("WARN", msg, s.merged(nil)) }
func (s *sharedTestLogger) Error(msg string) { s.parent.log("ERROR", msg, s.merged(nil)) }
func (s *sharedTestLogger) Fatal(msg string) { s.parent.log("FATAL", msg, s.merged(nil)) }

func (s *sharedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	s.parent.log("DEBUG", msg, s.merged(fields))
}
func (s *sharedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	s.parent.log("INFO", msg, s.merged(fields))
}
func (s *sharedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	s.parent.log("WARN", msg, s.merged(fields))
}
func (s *sharedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	s.parent.log("ERROR", msg, s.merged(fields))
}
func (s *sharedTestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	s.parent.log("FATAL", msg, s.merged(fields))
}

func (s *sharedTestLogger) WithField(key string, value interface{}) Logger {
	fields := s.merged(map[string]interface{}{key: value})
	return &sharedTestLogger{parent: s.parent, fields: fields, err: s.err}
}

func (s *sharedTestLogger) WithFields(fields map[string]interface{}) Logger {
	return &sharedTestLogger{parent: s.parent, fields: s.merged(fields), err: s.err}
}

func (s *sharedTestLogger) WithError(err error) Logger {
	return &sharedTestLogger{parent: s.parent, fields: s.fields, err: err}
}
