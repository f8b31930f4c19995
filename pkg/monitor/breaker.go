package monitor

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds the configuration for the bookkeeping circuit breaker.
// The breaker guards the monitor's own telemetry writes: when the store keeps
// rejecting records, instrumentation degrades to a no-op instead of paying
// the failure cost on every wrapped call.
type BreakerConfig struct {
	// Name is the circuit breaker name for logging
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear success/failure counts
	Interval time.Duration

	// Timeout is how long to wait in open state before trying again
	Timeout time.Duration

	// FailureThreshold is the failure ratio threshold to trip the circuit
	FailureThreshold float64

	// MinRequests is the minimum number of requests before calculating failure ratio
	MinRequests uint32
}

// DefaultBreakerConfig returns a configuration tuned for in-memory store
// writes: failures are cheap and recovery is quick, so the open timeout is
// short.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "telemetry-bookkeeping",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      10,
	}
}

// bookkeepingBreaker wraps gobreaker.CircuitBreaker for the monitor's
// internal telemetry writes.
type bookkeepingBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func newBookkeepingBreaker(cfg BreakerConfig, logger *slog.Logger) *bookkeepingBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("bookkeeping circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &bookkeepingBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// execute runs fn through the circuit breaker. If the circuit is open it
// returns gobreaker.ErrOpenState immediately without calling fn.
func (b *bookkeepingBreaker) execute(fn func() error) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// IsOpen reports whether the breaker is currently rejecting bookkeeping.
func (b *bookkeepingBreaker) IsOpen() bool {
	return b.breaker.State() == gobreaker.StateOpen
}
