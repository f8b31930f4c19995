package telemetry

import "time"

// Severity classifies how urgent an alert is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether the severity is one of the known values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// Rank returns the escalation rank of the severity. Higher values are more
// urgent. Unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Alert represents a condition that requires attention. Delivery to
// notification channels is outside this module; an Alert only records that
// the condition occurred.
type Alert struct {
	ID        string
	Name      string
	Severity  Severity
	Message   string
	Details   map[string]string
	CreatedAt time.Time
}
