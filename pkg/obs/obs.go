// Package obs bundles the telemetry factory, the bounded store, and the
// monitor into a single Toolkit, plus package-level helpers backed by a
// shared default instance. Applications that want the pieces individually
// should use pkg/telemetry, pkg/store, and pkg/monitor directly.
package obs

import (
	"context"
	"log/slog"
	"sync"

	"obskit/pkg/monitor"
	"obskit/pkg/result"
	"obskit/pkg/store"
	"obskit/pkg/telemetry"
)

// Options configures a Toolkit. The zero value yields the defaults.
type Options struct {
	// ServiceName is stamped on traces created by the monitor.
	// Default: "obskit".
	ServiceName string

	// Store configures the bounded telemetry store. Zero fields fall back
	// to the store defaults.
	Store store.Config

	// Logger receives internal warnings (eviction, bookkeeping failures).
	// Default: slog.Default().
	Logger *slog.Logger

	// MonitorOptions are passed through to monitor.New.
	MonitorOptions []monitor.Option
}

// Toolkit wires a Factory, a Store, and a Monitor together.
type Toolkit struct {
	factory *telemetry.Factory
	store   *store.Store
	monitor *monitor.Monitor
}

// New builds a Toolkit from opts.
func New(opts Options) (*Toolkit, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	storeCfg := opts.Store
	if storeCfg.Logger == nil {
		storeCfg.Logger = logger
	}
	st, err := store.New(storeCfg)
	if err != nil {
		return nil, err
	}

	factory := telemetry.NewFactory()

	monOpts := []monitor.Option{monitor.WithLogger(logger)}
	if opts.ServiceName != "" {
		monOpts = append(monOpts, monitor.WithServiceName(opts.ServiceName))
	}
	monOpts = append(monOpts, opts.MonitorOptions...)

	return &Toolkit{
		factory: factory,
		store:   st,
		monitor: monitor.New(factory, st, monOpts...),
	}, nil
}

// MustNew is New but panics on invalid options. Intended for main functions
// and tests.
func MustNew(opts Options) *Toolkit {
	tk, err := New(opts)
	if err != nil {
		panic(err)
	}
	return tk
}

// Factory returns the toolkit's entity factory.
func (t *Toolkit) Factory() *telemetry.Factory { return t.factory }

// Store returns the toolkit's telemetry store.
func (t *Toolkit) Store() *store.Store { return t.store }

// Monitor returns the toolkit's function monitor.
func (t *Toolkit) Monitor() *monitor.Monitor { return t.monitor }

// RecordMetric creates a metric and stores it in one step.
func (t *Toolkit) RecordMetric(name string, value float64, unit string, tags map[string]string, metricType telemetry.MetricType) result.Result[telemetry.Metric] {
	return result.Then(t.factory.CreateMetric(name, value, unit, tags, metricType), t.store.RecordMetric)
}

// RecordTrace creates a trace and stores it in one step.
func (t *Toolkit) RecordTrace(operationName, serviceName string, traceContext map[string]string, parentTraceID string) result.Result[telemetry.Trace] {
	return result.Then(t.factory.CreateTrace(operationName, serviceName, traceContext, parentTraceID), t.store.RecordTrace)
}

// RecordAlert creates an alert and stores it in one step.
func (t *Toolkit) RecordAlert(name string, severity telemetry.Severity, message string, details map[string]string) result.Result[telemetry.Alert] {
	return result.Then(t.factory.CreateAlert(name, severity, message, details), t.store.RecordAlert)
}

// RecordHealthCheck creates a health check and stores it in one step.
func (t *Toolkit) RecordHealthCheck(name string, status telemetry.HealthStatus, message string, details map[string]string) result.Result[telemetry.HealthCheck] {
	return result.Then(t.factory.CreateHealthCheck(name, status, message, details), t.store.RecordHealthCheck)
}

// RecordLogEntry creates a log entry and stores it in one step.
func (t *Toolkit) RecordLogEntry(level telemetry.LogLevel, message string, logContext map[string]string, correlationID string) result.Result[telemetry.LogEntry] {
	return result.Then(t.factory.CreateLogEntry(level, message, logContext, correlationID), t.store.RecordLogEntry)
}

// Wrap instruments fn under the given operation name.
func (t *Toolkit) Wrap(operation string, fn func(context.Context) error) func(context.Context) error {
	return t.monitor.Wrap(operation, fn)
}

// ExportPrometheus renders the stored metrics in Prometheus text format.
func (t *Toolkit) ExportPrometheus() result.Result[string] {
	return t.store.ExportPrometheus()
}

var (
	defaultOnce    sync.Once
	defaultToolkit *Toolkit
)

// Default returns the shared process-wide Toolkit, building it with default
// options on first use.
func Default() *Toolkit {
	defaultOnce.Do(func() {
		defaultToolkit = MustNew(Options{})
	})
	return defaultToolkit
}

// RecordMetric records a metric on the default Toolkit.
func RecordMetric(name string, value float64, unit string, tags map[string]string, metricType telemetry.MetricType) result.Result[telemetry.Metric] {
	return Default().RecordMetric(name, value, unit, tags, metricType)
}

// RecordTrace records a trace on the default Toolkit.
func RecordTrace(operationName, serviceName string, traceContext map[string]string, parentTraceID string) result.Result[telemetry.Trace] {
	return Default().RecordTrace(operationName, serviceName, traceContext, parentTraceID)
}

// RecordAlert records an alert on the default Toolkit.
func RecordAlert(name string, severity telemetry.Severity, message string, details map[string]string) result.Result[telemetry.Alert] {
	return Default().RecordAlert(name, severity, message, details)
}

// RecordHealthCheck records a health check on the default Toolkit.
func RecordHealthCheck(name string, status telemetry.HealthStatus, message string, details map[string]string) result.Result[telemetry.HealthCheck] {
	return Default().RecordHealthCheck(name, status, message, details)
}

// RecordLogEntry records a log entry on the default Toolkit.
func RecordLogEntry(level telemetry.LogLevel, message string, logContext map[string]string, correlationID string) result.Result[telemetry.LogEntry] {
	return Default().RecordLogEntry(level, message, logContext, correlationID)
}

// Monitor returns the default Toolkit's function monitor.
func Monitor() *monitor.Monitor {
	return Default().Monitor()
}

// Wrap instruments fn on the default Toolkit.
func Wrap(operation string, fn func(context.Context) error) func(context.Context) error {
	return Default().Wrap(operation, fn)
}

// ExportPrometheus renders the default Toolkit's metrics in Prometheus text
// format.
func ExportPrometheus() result.Result[string] {
	return Default().ExportPrometheus()
}
