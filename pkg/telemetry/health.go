package telemetry

import "time"

// HealthStatus is the outcome of a health check.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// IsValid reports whether the status is one of the known values.
func (s HealthStatus) IsValid() bool {
	switch s {
	case StatusHealthy, StatusDegraded, StatusUnhealthy:
		return true
	}
	return false
}

// HealthCheck records the observed health of a named component at a point in
// time.
type HealthCheck struct {
	ID        string
	Name      string
	Status    HealthStatus
	Message   string
	Details   map[string]string
	CheckedAt time.Time
}
