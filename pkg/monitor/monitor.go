// Package monitor provides automatic instrumentation for arbitrary
// functions. Wrapping a function produces one of the same signature that, on
// every call, opens a span, times the execution, and records duration and
// success/failure metrics into the telemetry store, tagged with the
// correlation id of the current call chain.
//
// The wrapper only observes: the wrapped function's return value, error, or
// panic always reaches the caller unchanged. Failures of the monitor's own
// bookkeeping are logged (throttled) and guarded by a circuit breaker, never
// surfaced as if they were business failures.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"obskit/pkg/correlation"
	"obskit/pkg/store"
	"obskit/pkg/telemetry"
)

// State tracks an invocation through its lifecycle:
// pending → running → (succeeded | failed) → recorded.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateRecorded  State = "recorded"
)

// Status labels used on the <operation>_status counter metric.
const (
	StatusSuccess   = "success"
	StatusFailure   = "failure"
	StatusCancelled = "cancelled"
)

// Invocation describes one completed wrapped call. It is passed to the
// OnRecorded hook after bookkeeping finishes.
type Invocation struct {
	Operation     string
	CorrelationID string
	TraceID       string
	State         State
	StartedAt     time.Time
	Duration      time.Duration
	Status        string
	Err           error
}

// Monitor wraps functions with timing, success/failure tracking, and
// correlation-id propagation. Construct one per application next to the
// Factory and Store it feeds.
type Monitor struct {
	factory *telemetry.Factory
	store   *store.Store
	service string

	logger     *slog.Logger
	tracer     trace.Tracer
	breaker    *bookkeepingBreaker
	breakerCfg BreakerConfig
	clock      telemetry.Clock

	// warnRate throttles bookkeeping-failure logs so a persistently broken
	// store cannot flood the log from a hot code path.
	warnRate *rate.Limiter

	// bookkeepTimeout bounds bookkeeping after a cancelled call, so
	// observability can never delay cancellation indefinitely.
	bookkeepTimeout time.Duration

	onRecorded func(Invocation)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger for bookkeeping failures and breaker events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithServiceName sets the service name stamped on created traces.
// Default: "obskit".
func WithServiceName(name string) Option {
	return func(m *Monitor) {
		if name != "" {
			m.service = name
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer used for spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Monitor) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithClock overrides the clock used for duration measurement.
func WithClock(clock telemetry.Clock) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithBreakerConfig overrides the bookkeeping circuit breaker configuration.
func WithBreakerConfig(cfg BreakerConfig) Option {
	return func(m *Monitor) {
		m.breakerCfg = cfg
	}
}

// WithOnRecorded registers a hook called with the final Invocation after
// each wrapped call has been recorded. Intended for tests and debugging.
func WithOnRecorded(fn func(Invocation)) Option {
	return func(m *Monitor) {
		m.onRecorded = fn
	}
}

// New creates a Monitor feeding the given factory and store.
func New(factory *telemetry.Factory, st *store.Store, opts ...Option) *Monitor {
	m := &Monitor{
		factory:         factory,
		store:           st,
		service:         "obskit",
		logger:          slog.Default(),
		clock:           &telemetry.SystemClock{},
		warnRate:        rate.NewLimiter(rate.Limit(1), 1),
		bookkeepTimeout: 100 * time.Millisecond,
		breakerCfg:      DefaultBreakerConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer("obskit/monitor")
	}
	m.breaker = newBookkeepingBreaker(m.breakerCfg, m.logger)
	return m
}

// BookkeepingDegraded reports whether the bookkeeping circuit breaker is
// open, i.e. telemetry recording is currently skipped.
func (m *Monitor) BookkeepingDegraded() bool {
	return m.breaker.IsOpen()
}

// Wrap decorates fn with instrumentation under the given operation name.
func (m *Monitor) Wrap(operation string, fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := run(m, ctx, operation, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
		return err
	}
}

// WrapFunc decorates a value-returning function. The returned function has
// the same signature as fn; its value and error pass through unchanged.
func WrapFunc[T any](m *Monitor, operation string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return run(m, ctx, operation, fn)
	}
}

// Go runs fn asynchronously under instrumentation and returns a channel that
// delivers the settled error (nil on success). Duration is measured as
// wall-clock time across the full asynchronous completion, not just the
// synchronous portion of the launch.
func (m *Monitor) Go(ctx context.Context, operation string, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	wrapped := m.Wrap(operation, fn)
	go func() {
		done <- wrapped(ctx)
		close(done)
	}()
	return done
}

// run is the per-invocation state machine shared by Wrap, WrapFunc, and Go.
func run[T any](m *Monitor, ctx context.Context, operation string, fn func(context.Context) (T, error)) (T, error) {
	inv := Invocation{Operation: operation, State: StatePending}

	ctx, cid := correlation.Ensure(ctx)
	inv.CorrelationID = cid

	ctx, span := m.tracer.Start(ctx, operation,
		trace.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("correlation_id", cid),
		))
	defer span.End()

	if tr := m.factory.CreateTrace(operation, m.service, map[string]string{"correlation_id": cid}, ""); tr.IsOK() {
		inv.TraceID = tr.Value().ID
		m.bookkeep(operation, func() error { return m.store.RecordTrace(tr.Value()).Err() })
	} else {
		m.warnBookkeeping(operation, tr.Err())
	}

	inv.State = StateRunning
	inv.StartedAt = m.clock.Now()

	var value T
	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				inv.Duration = m.clock.Now().Sub(inv.StartedAt)
				inv.State = StateFailed
				inv.Err = fmt.Errorf("panic: %v", p)
				inv.Status = StatusFailure
				m.recordFailure(span, &inv)
				inv.State = StateRecorded
				m.notify(inv)
				panic(p)
			}
		}()
		value, err = fn(ctx)
	}()

	inv.Duration = m.clock.Now().Sub(inv.StartedAt)

	if err != nil {
		inv.State = StateFailed
		inv.Err = err
		inv.Status = StatusFailure
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			inv.Status = StatusCancelled
		}
		m.recordFailure(span, &inv)
	} else {
		inv.State = StateSucceeded
		inv.Status = StatusSuccess
		m.recordSuccess(span, &inv)
	}

	inv.State = StateRecorded
	m.notify(inv)
	return value, err
}

// recordSuccess records the duration histogram and the success counter.
func (m *Monitor) recordSuccess(span trace.Span, inv *Invocation) {
	seconds := inv.Duration.Seconds()
	span.SetAttributes(attribute.Float64("duration_seconds", seconds))

	m.bookkeep(inv.Operation, func() error {
		if r := m.factory.CreateMetric(inv.Operation+"_duration", seconds, "seconds", nil, telemetry.MetricTypeHistogram); r.IsFailure() {
			return r.Err()
		} else if rec := m.store.RecordMetric(r.Value()); rec.IsFailure() {
			return rec.Err()
		}
		return m.recordStatus(inv.Operation, StatusSuccess)
	})
}

// recordFailure records the failure/cancelled counter and an error-level log
// entry carrying the correlation id. For cancelled calls the bookkeeping is
// best-effort, bounded by the monitor's internal timeout so it can never
// hold up a cancellation.
func (m *Monitor) recordFailure(span trace.Span, inv *Invocation) {
	span.RecordError(inv.Err)
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("status", inv.Status),
	)

	record := func() {
		m.bookkeep(inv.Operation, func() error {
			if err := m.recordStatus(inv.Operation, inv.Status); err != nil {
				return err
			}
			r := m.factory.CreateLogEntry(
				telemetry.LevelError,
				fmt.Sprintf("%s failed: %v", inv.Operation, inv.Err),
				map[string]string{"operation": inv.Operation, "status": inv.Status},
				inv.CorrelationID,
			)
			if r.IsFailure() {
				return r.Err()
			}
			return m.store.RecordLogEntry(r.Value()).Err()
		})
	}

	if inv.Status != StatusCancelled {
		record()
		return
	}

	done := make(chan struct{})
	go func() {
		record()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(m.bookkeepTimeout):
		m.warnBookkeeping(inv.Operation, errors.New("bookkeeping timed out after cancellation"))
	}
}

// recordStatus records one <operation>_status counter sample.
func (m *Monitor) recordStatus(operation, status string) error {
	r := m.factory.CreateMetric(operation+"_status", 1, "", map[string]string{"status": status}, telemetry.MetricTypeCounter)
	if r.IsFailure() {
		return r.Err()
	}
	return m.store.RecordMetric(r.Value()).Err()
}

// bookkeep runs one bookkeeping write through the circuit breaker. Errors
// are logged and swallowed: observability failures must never alter the
// wrapped function's outcome.
func (m *Monitor) bookkeep(operation string, fn func() error) {
	if err := m.breaker.execute(fn); err != nil {
		m.warnBookkeeping(operation, err)
	}
}

func (m *Monitor) warnBookkeeping(operation string, err error) {
	if m.warnRate.Allow() {
		m.logger.Warn("telemetry bookkeeping failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
}

func (m *Monitor) notify(inv Invocation) {
	if m.onRecorded != nil {
		m.onRecorded(inv)
	}
}
