// Package observability provides the daemon's own observability
// infrastructure: structured logging and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: structured logging utilities with slog
//   - tracing: OpenTelemetry tracing integration
//
// These cover the daemon observing itself; the telemetry entities the
// daemon collects on behalf of applications live under pkg/.
package observability
