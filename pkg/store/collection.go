package store

import (
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"obskit/pkg/result"
)

// collection is one bounded, insertion-ordered entity collection. All
// mutation goes through record, which holds the write lock for the full
// check-evict-insert sequence so readers never observe a partially evicted
// collection.
type collection[T any] struct {
	mu sync.RWMutex

	kind     string
	capacity int
	lowWater int

	entries []T
	ids     map[string]struct{}

	idOf   func(T) string
	nameOf func(T) string

	recorded uint64
	evicted  uint64

	logger   *slog.Logger
	warnRate *rate.Limiter
}

func newCollection[T any](kind string, cfg Config, idOf, nameOf func(T) string) *collection[T] {
	return &collection[T]{
		kind:     kind,
		capacity: cfg.Capacity,
		lowWater: cfg.LowWater,
		entries:  make([]T, 0, cfg.Capacity),
		ids:      make(map[string]struct{}, cfg.Capacity),
		idOf:     idOf,
		nameOf:   nameOf,
		logger:   cfg.Logger,
		// At most one eviction warning per second per kind; eviction is
		// routine under sustained load and must not flood the log.
		warnRate: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// record inserts an entity, evicting the oldest batch first when the
// collection is at capacity. The entire operation happens under one write
// lock acquisition.
func (c *collection[T]) record(e T) result.Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.idOf(e)
	if _, exists := c.ids[id]; exists {
		idCollisionsTotal.WithLabelValues(c.kind).Inc()
		return result.Failf[T]("record %s: %w: id %q", c.kind, ErrIDCollision, id)
	}

	if len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	if len(c.entries) >= c.capacity {
		return result.Failf[T]("record %s: %w", c.kind, ErrCapacityExceeded)
	}

	c.entries = append(c.entries, e)
	c.ids[id] = struct{}{}
	c.recorded++

	recordsTotal.WithLabelValues(c.kind).Inc()
	entriesGauge.WithLabelValues(c.kind).Set(float64(len(c.entries)))

	return result.Ok(e)
}

// evictLocked removes the oldest entries until the collection is at the
// low-water mark. Batched rather than per-item so a hot collection pays the
// eviction cost once per ~half capacity instead of on every insert.
// Caller must hold the write lock.
func (c *collection[T]) evictLocked() {
	drop := len(c.entries) - c.lowWater
	if drop <= 0 {
		drop = 1
	}

	for _, e := range c.entries[:drop] {
		delete(c.ids, c.idOf(e))
	}

	// Copy the tail into a fresh slice so evicted entries are released to
	// the garbage collector instead of pinned by the old backing array.
	remaining := make([]T, len(c.entries)-drop, c.capacity)
	copy(remaining, c.entries[drop:])
	c.entries = remaining

	c.evicted += uint64(drop)
	evictedTotal.WithLabelValues(c.kind).Add(float64(drop))
	evictionRunsTotal.WithLabelValues(c.kind).Inc()
	entriesGauge.WithLabelValues(c.kind).Set(float64(len(c.entries)))

	if c.warnRate.Allow() {
		c.logger.Warn("store eviction",
			slog.String("kind", c.kind),
			slog.Int("evicted", drop),
			slog.Int("retained", len(c.entries)))
	}
}

// queryByName returns all retained entities with the given name, in
// insertion order.
func (c *collection[T]) queryByName(name string) result.Result[[]T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := make([]T, 0)
	for _, e := range c.entries {
		if c.nameOf(e) == name {
			matches = append(matches, e)
		}
	}
	return result.Ok(matches)
}

// snapshot returns a point-in-time copy of all retained entities in
// insertion order.
func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.entries))
	copy(out, c.entries)
	return out
}

// stats returns the collection's counters under a read lock.
func (c *collection[T]) stats() KindStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return KindStats{
		Retained: len(c.entries),
		Recorded: c.recorded,
		Evicted:  c.evicted,
		Capacity: c.capacity,
	}
}

// saturation returns retained size over capacity as a ratio in [0, 1].
func (s KindStats) saturation() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Retained) / float64(s.Capacity)
}
