package store

import "errors"

// Sentinel errors for store operations.
var (
	// ErrIDCollision indicates that an entity id already exists in the
	// collection. With UUID generation this is effectively impossible, but
	// it is checked and reported rather than silently overwritten.
	ErrIDCollision = errors.New("entity id already recorded")

	// ErrCapacityExceeded indicates that a collection was still full after
	// eviction ran. It is unreachable under a validated configuration and
	// exists as a distinct, checked invariant violation.
	ErrCapacityExceeded = errors.New("store capacity exceeded after eviction")
)
