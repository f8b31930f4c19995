package telemetry

import "time"

// Clock provides an abstraction for time operations to enable testing.
// Production code uses SystemClock; tests can inject fixed or stepped clocks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
