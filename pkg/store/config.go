// Package store provides the bounded, thread-safe in-memory store for
// telemetry entities. Each entity kind is held in its own independently
// capped collection; reaching capacity triggers a batched eviction of the
// oldest entries rather than per-item removal, amortizing eviction cost.
package store

import (
	"fmt"
	"log/slog"
)

// Default sizing for each per-kind collection.
const (
	// DefaultCapacity is the maximum number of retained entities per kind.
	DefaultCapacity = 1000
	// DefaultLowWater is the number of entities a collection is reduced to
	// when eviction runs.
	DefaultLowWater = 500
)

// Config holds configuration for a Store. The zero value is usable; missing
// fields fall back to defaults.
type Config struct {
	// Capacity is the maximum number of retained entities per kind.
	// Default: 1000
	Capacity int

	// LowWater is the size a full collection is reduced to before a new
	// insert. Must be smaller than Capacity. Default: 500
	LowWater int

	// Logger receives eviction warnings. Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		LowWater: DefaultLowWater,
	}
}

// withDefaults fills unset fields with default values.
func (c Config) withDefaults() Config {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.LowWater == 0 {
		c.LowWater = DefaultLowWater
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("store capacity must be positive, got %d", c.Capacity)
	}
	if c.LowWater <= 0 {
		return fmt.Errorf("store low-water mark must be positive, got %d", c.LowWater)
	}
	if c.LowWater >= c.Capacity {
		return fmt.Errorf("store low-water mark (%d) must be below capacity (%d)", c.LowWater, c.Capacity)
	}
	return nil
}
