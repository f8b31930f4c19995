package store

import (
	"fmt"

	"obskit/pkg/result"
	"obskit/pkg/telemetry"
)

// Entity kind names used for metrics labels and logging.
const (
	KindMetric      = "metric"
	KindTrace       = "trace"
	KindAlert       = "alert"
	KindHealthCheck = "health_check"
	KindLogEntry    = "log_entry"
)

// Store holds the most recent entities of each kind in independently capped,
// insertion-ordered collections. It is safe for concurrent use; eviction is
// atomic with respect to concurrent Record calls, and no reader can observe
// a partially evicted collection.
//
// Entities recorded into the Store are owned by it until eviction removes
// them; there is no explicit delete.
type Store struct {
	metrics *collection[telemetry.Metric]
	traces  *collection[telemetry.Trace]
	alerts  *collection[telemetry.Alert]
	checks  *collection[telemetry.HealthCheck]
	logs    *collection[telemetry.LogEntry]
}

// KindStats reports the counters of one per-kind collection.
type KindStats struct {
	Retained int
	Recorded uint64
	Evicted  uint64
	Capacity int
}

// Stats reports counters for every kind.
type Stats struct {
	Metrics      KindStats
	Traces       KindStats
	Alerts       KindStats
	HealthChecks KindStats
	LogEntries   KindStats
}

// Snapshot is a consistent point-in-time copy of each collection. Snapshots
// of different kinds are taken independently; within one kind, insertion
// order is preserved.
type Snapshot struct {
	Metrics      []telemetry.Metric
	Traces       []telemetry.Trace
	Alerts       []telemetry.Alert
	HealthChecks []telemetry.HealthCheck
	LogEntries   []telemetry.LogEntry
}

// New creates a Store with the given configuration. An invalid configuration
// is rejected rather than silently corrected.
func New(cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("store config: %w", err)
	}

	return &Store{
		metrics: newCollection(KindMetric, cfg,
			func(m telemetry.Metric) string { return m.ID },
			func(m telemetry.Metric) string { return m.Name }),
		traces: newCollection(KindTrace, cfg,
			func(t telemetry.Trace) string { return t.ID },
			func(t telemetry.Trace) string { return t.OperationName }),
		alerts: newCollection(KindAlert, cfg,
			func(a telemetry.Alert) string { return a.ID },
			func(a telemetry.Alert) string { return a.Name }),
		checks: newCollection(KindHealthCheck, cfg,
			func(h telemetry.HealthCheck) string { return h.ID },
			func(h telemetry.HealthCheck) string { return h.Name }),
		logs: newCollection(KindLogEntry, cfg,
			func(l telemetry.LogEntry) string { return l.ID },
			func(l telemetry.LogEntry) string { return l.Message }),
	}, nil
}

// MustNew is New for composition roots where a configuration error is a
// programming bug.
func MustNew(cfg Config) *Store {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// RecordMetric inserts a metric, evicting the oldest batch first if the
// metric collection is at capacity.
func (s *Store) RecordMetric(m telemetry.Metric) result.Result[telemetry.Metric] {
	return s.metrics.record(m)
}

// RecordTrace inserts a trace.
func (s *Store) RecordTrace(t telemetry.Trace) result.Result[telemetry.Trace] {
	return s.traces.record(t)
}

// RecordAlert inserts an alert.
func (s *Store) RecordAlert(a telemetry.Alert) result.Result[telemetry.Alert] {
	return s.alerts.record(a)
}

// RecordHealthCheck inserts a health check.
func (s *Store) RecordHealthCheck(h telemetry.HealthCheck) result.Result[telemetry.HealthCheck] {
	return s.checks.record(h)
}

// RecordLogEntry inserts a log entry.
func (s *Store) RecordLogEntry(l telemetry.LogEntry) result.Result[telemetry.LogEntry] {
	return s.logs.record(l)
}

// QueryMetricsByName returns all retained metrics with the given name, in
// insertion order.
func (s *Store) QueryMetricsByName(name string) result.Result[[]telemetry.Metric] {
	return s.metrics.queryByName(name)
}

// QueryTracesByName returns all retained traces with the given operation
// name, in insertion order.
func (s *Store) QueryTracesByName(operationName string) result.Result[[]telemetry.Trace] {
	return s.traces.queryByName(operationName)
}

// QueryAlertsByName returns all retained alerts with the given name, in
// insertion order.
func (s *Store) QueryAlertsByName(name string) result.Result[[]telemetry.Alert] {
	return s.alerts.queryByName(name)
}

// QueryHealthChecksByName returns all retained health checks with the given
// name, in insertion order.
func (s *Store) QueryHealthChecksByName(name string) result.Result[[]telemetry.HealthCheck] {
	return s.checks.queryByName(name)
}

// QueryLogEntriesByMessage returns all retained log entries with the given
// message, in insertion order.
func (s *Store) QueryLogEntriesByMessage(message string) result.Result[[]telemetry.LogEntry] {
	return s.logs.queryByName(message)
}

// Snapshot returns a point-in-time copy of every collection.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Metrics:      s.metrics.snapshot(),
		Traces:       s.traces.snapshot(),
		Alerts:       s.alerts.snapshot(),
		HealthChecks: s.checks.snapshot(),
		LogEntries:   s.logs.snapshot(),
	}
}

// Stats returns the per-kind counters.
func (s *Store) Stats() Stats {
	return Stats{
		Metrics:      s.metrics.stats(),
		Traces:       s.traces.stats(),
		Alerts:       s.alerts.stats(),
		HealthChecks: s.checks.stats(),
		LogEntries:   s.logs.stats(),
	}
}

// Saturation returns the highest retained/capacity ratio across all kinds,
// used by health evaluation to detect a store close to constant eviction.
func (s *Store) Saturation() float64 {
	stats := s.Stats()
	max := 0.0
	for _, ks := range []KindStats{stats.Metrics, stats.Traces, stats.Alerts, stats.HealthChecks, stats.LogEntries} {
		if r := ks.saturation(); r > max {
			max = r
		}
	}
	return max
}
