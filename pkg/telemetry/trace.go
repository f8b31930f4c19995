package telemetry

import "time"

// Trace is the time-bounded record of one traced operation (a span).
//
// ParentTraceID is a soft reference to another Trace used only for
// correlation lookup. It is never resolved against the store at construction
// time and carries no ownership; a dangling parent id is not an error.
type Trace struct {
	ID            string
	OperationName string
	ServiceName   string
	Context       map[string]string
	ParentTraceID string
	StartTime     time.Time
}
