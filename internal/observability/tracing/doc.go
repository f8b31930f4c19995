// Package tracing provides OpenTelemetry tracing integration.
//
// It exposes the daemon's global tracer and an HTTP middleware that extracts
// W3C trace context from incoming requests, opens a server span, and echoes
// the trace id back in the X-Trace-Id response header.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
package tracing
