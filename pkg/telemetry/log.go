package telemetry

import "time"

// LogLevel classifies log entries.
type LogLevel string

const (
	LevelDebug    LogLevel = "debug"
	LevelInfo     LogLevel = "info"
	LevelWarning  LogLevel = "warning"
	LevelError    LogLevel = "error"
	LevelCritical LogLevel = "critical"
)

// IsValid reports whether the level is one of the known values.
func (l LogLevel) IsValid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return true
	}
	return false
}

// LogEntry is a structured log record. CorrelationID associates the entry
// with the request chain that produced it; it is empty when no correlation
// context was established.
type LogEntry struct {
	ID            string
	Level         LogLevel
	Message       string
	Context       map[string]string
	CorrelationID string
	Timestamp     time.Time
}
