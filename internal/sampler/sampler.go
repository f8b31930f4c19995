// Package sampler periodically samples Go runtime statistics and the
// telemetry store's own health into the toolkit, so the daemon's /metrics
// and /healthz endpoints always have fresh data.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/robfig/cron/v3"

	"obskit/pkg/obs"
	"obskit/pkg/telemetry"
)

// Saturation thresholds for the store health check.
const (
	saturationDegraded = 0.80
	saturationAlert    = 0.95
)

// Sampler records runtime gauges and health checks on a cron schedule.
type Sampler struct {
	toolkit  *obs.Toolkit
	logger   *slog.Logger
	schedule string
	cron     *cron.Cron

	sample func(context.Context) error
}

// New creates a Sampler. schedule is a cron expression, including the
// "@every <duration>" form.
func New(toolkit *obs.Toolkit, schedule string, logger *slog.Logger) *Sampler {
	s := &Sampler{
		toolkit:  toolkit,
		logger:   logger,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	// The sampler observes itself through the monitor, so sampling shows up
	// as runtime_sample_duration and runtime_sample_status like any other
	// instrumented operation.
	s.sample = toolkit.Wrap("runtime_sample", s.collect)
	return s
}

// Start registers the cron job and starts the scheduler.
func (s *Sampler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.sample(context.Background()); err != nil {
			s.logger.Warn("runtime sample failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("register sampling job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("runtime sampler started", slog.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running sample to finish.
func (s *Sampler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("runtime sampler stopped")
}

// SampleOnce takes a single sample outside the schedule. Used at startup so
// endpoints have data before the first tick.
func (s *Sampler) SampleOnce(ctx context.Context) error {
	return s.sample(ctx)
}

// collect records the runtime gauges, the store health check, and a
// saturation alert when the store is close to evicting.
func (s *Sampler) collect(ctx context.Context) error {
	// Read saturation before recording anything: the sample's own writes
	// can trigger eviction and distort the measurement.
	saturation := s.toolkit.Store().Saturation()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	gauges := []struct {
		name  string
		value float64
		unit  string
	}{
		{"process_goroutines", float64(runtime.NumGoroutine()), ""},
		{"process_heap_alloc_bytes", float64(mem.HeapAlloc), "bytes"},
		{"process_heap_objects", float64(mem.HeapObjects), ""},
		{"process_gc_pause_total_seconds", float64(mem.PauseTotalNs) / 1e9, "seconds"},
	}
	for _, g := range gauges {
		if r := s.toolkit.RecordMetric(g.name, g.value, g.unit, nil, telemetry.MetricTypeGauge); r.IsFailure() {
			return fmt.Errorf("record %s: %w", g.name, r.Err())
		}
	}

	if r := s.toolkit.RecordMetric("process_gc_runs_total", float64(mem.NumGC), "", nil, telemetry.MetricTypeCounter); r.IsFailure() {
		return fmt.Errorf("record process_gc_runs_total: %w", r.Err())
	}

	if r := s.toolkit.RecordMetric("telemetry_store_saturation_ratio", saturation, "", nil, telemetry.MetricTypeGauge); r.IsFailure() {
		return fmt.Errorf("record saturation: %w", r.Err())
	}

	if err := s.checkStoreHealth(saturation); err != nil {
		return err
	}
	return s.checkBookkeepingHealth()
}

func (s *Sampler) checkStoreHealth(saturation float64) error {
	status := telemetry.StatusHealthy
	message := "store below eviction pressure"
	if saturation >= saturationDegraded {
		status = telemetry.StatusDegraded
		message = "store approaching capacity, eviction imminent"
	}

	details := map[string]string{"saturation": fmt.Sprintf("%.2f", saturation)}
	if r := s.toolkit.RecordHealthCheck("telemetry_store", status, message, details); r.IsFailure() {
		return fmt.Errorf("record store health: %w", r.Err())
	}

	if saturation >= saturationAlert {
		if r := s.toolkit.RecordAlert("store_saturation_high", telemetry.SeverityWarning,
			"telemetry store nearly full, oldest records will be evicted", details); r.IsFailure() {
			return fmt.Errorf("record saturation alert: %w", r.Err())
		}
	}
	return nil
}

func (s *Sampler) checkBookkeepingHealth() error {
	status := telemetry.StatusHealthy
	message := "monitor bookkeeping operational"
	if s.toolkit.Monitor().BookkeepingDegraded() {
		status = telemetry.StatusDegraded
		message = "monitor bookkeeping circuit breaker open, telemetry recording skipped"
	}
	if r := s.toolkit.RecordHealthCheck("monitor_bookkeeping", status, message, nil); r.IsFailure() {
		return fmt.Errorf("record bookkeeping health: %w", r.Err())
	}
	return nil
}
