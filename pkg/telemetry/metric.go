// Package telemetry defines the core telemetry entities and their validation
// rules: Metric, Trace, Alert, HealthCheck, and LogEntry. Entities are value
// objects created exclusively through the Factory, which validates input,
// mints a unique id, and stamps a UTC creation time. Once constructed an
// entity is never mutated; a changed reading is a new entity.
package telemetry

import "time"

// MetricType identifies how a metric value is to be interpreted.
type MetricType string

const (
	// MetricTypeGauge is a point-in-time reading that can move in either direction.
	MetricTypeGauge MetricType = "gauge"
	// MetricTypeCounter is a cumulative value that never decreases.
	MetricTypeCounter MetricType = "counter"
	// MetricTypeHistogram is a sampled observation of a distribution.
	MetricTypeHistogram MetricType = "histogram"
)

// IsValid reports whether the metric type is one of the known values.
func (t MetricType) IsValid() bool {
	switch t {
	case MetricTypeGauge, MetricTypeCounter, MetricTypeHistogram:
		return true
	}
	return false
}

// Metric represents a single captured measurement.
//
// Name is a stable identifier following Prometheus naming rules. Counter
// metrics carry a non-negative value; that invariant is enforced at
// construction time.
type Metric struct {
	ID        string
	Name      string
	Value     float64
	Unit      string
	Tags      map[string]string
	Type      MetricType
	Timestamp time.Time
}
