package telemetry

import (
	"sync"

	"github.com/google/uuid"

	"obskit/pkg/result"
)

// Factory is the single creation surface for telemetry entities. Each Create
// method runs the corresponding validation function, and on success
// constructs the entity with a freshly minted id and a UTC timestamp. On
// failure the validation failure is returned unchanged so the original field
// and rule information survive.
//
// A Factory is safe for concurrent use. Applications should construct one
// explicit Factory at their composition root and inject it; the package-level
// Default instance exists only for scripts and tests.
type Factory struct {
	clock Clock
	newID func() string
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithClock overrides the clock used for entity timestamps.
func WithClock(clock Clock) FactoryOption {
	return func(f *Factory) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// WithIDGenerator overrides the id generator. Generated ids must be unique
// for the lifetime of the process; the store rejects collisions.
func WithIDGenerator(newID func() string) FactoryOption {
	return func(f *Factory) {
		if newID != nil {
			f.newID = newID
		}
	}
}

// NewFactory creates a Factory with a system clock and UUID v4 id generation.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		clock: &SystemClock{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateMetric validates the input and constructs a Metric.
func (f *Factory) CreateMetric(name string, value float64, unit string, tags map[string]string, metricType MetricType) result.Result[Metric] {
	if v := ValidateMetric(name, value, tags, metricType); v.IsFailure() {
		return result.FailFrom[result.Unit, Metric](v)
	}
	return result.Ok(Metric{
		ID:        f.newID(),
		Name:      name,
		Value:     value,
		Unit:      unit,
		Tags:      copyMap(tags),
		Type:      metricType,
		Timestamp: f.clock.Now().UTC(),
	})
}

// CreateTrace validates the input and constructs a Trace. parentTraceID may
// be empty; when set it is kept as a soft reference without a store lookup.
func (f *Factory) CreateTrace(operationName, serviceName string, traceContext map[string]string, parentTraceID string) result.Result[Trace] {
	if v := ValidateTrace(operationName, serviceName); v.IsFailure() {
		return result.FailFrom[result.Unit, Trace](v)
	}
	return result.Ok(Trace{
		ID:            f.newID(),
		OperationName: operationName,
		ServiceName:   serviceName,
		Context:       copyMap(traceContext),
		ParentTraceID: parentTraceID,
		StartTime:     f.clock.Now().UTC(),
	})
}

// CreateAlert validates the input and constructs an Alert.
func (f *Factory) CreateAlert(name string, severity Severity, message string, details map[string]string) result.Result[Alert] {
	if v := ValidateAlert(name, severity, message); v.IsFailure() {
		return result.FailFrom[result.Unit, Alert](v)
	}
	return result.Ok(Alert{
		ID:        f.newID(),
		Name:      name,
		Severity:  severity,
		Message:   message,
		Details:   copyMap(details),
		CreatedAt: f.clock.Now().UTC(),
	})
}

// CreateHealthCheck validates the input and constructs a HealthCheck.
func (f *Factory) CreateHealthCheck(name string, status HealthStatus, message string, details map[string]string) result.Result[HealthCheck] {
	if v := ValidateHealthCheck(name, status); v.IsFailure() {
		return result.FailFrom[result.Unit, HealthCheck](v)
	}
	return result.Ok(HealthCheck{
		ID:        f.newID(),
		Name:      name,
		Status:    status,
		Message:   message,
		Details:   copyMap(details),
		CheckedAt: f.clock.Now().UTC(),
	})
}

// CreateLogEntry validates the input and constructs a LogEntry.
// correlationID may be empty; callers typically pass the value read from the
// correlation context, omitting it when none is established.
func (f *Factory) CreateLogEntry(level LogLevel, message string, logContext map[string]string, correlationID string) result.Result[LogEntry] {
	if v := ValidateLogEntry(level, message); v.IsFailure() {
		return result.FailFrom[result.Unit, LogEntry](v)
	}
	return result.Ok(LogEntry{
		ID:            f.newID(),
		Level:         level,
		Message:       message,
		Context:       copyMap(logContext),
		CorrelationID: correlationID,
		Timestamp:     f.clock.Now().UTC(),
	})
}

// copyMap returns a defensive copy so entities stay immutable even when the
// caller retains and mutates the input map. A nil input stays nil.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
)

// Default returns the lazily-constructed process-wide Factory. It is a
// convenience binding for simple call sites; every method is equally usable
// on an explicitly constructed Factory, which is the primary API.
func Default() *Factory {
	defaultFactoryOnce.Do(func() {
		defaultFactory = NewFactory()
	})
	return defaultFactory
}
