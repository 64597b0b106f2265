// Package observability groups the logging, metrics and tracing helpers.
//
// Subpackages:
//   - logging: slog JSON loggers with request-id and context propagation
//   - metrics: Prometheus instrumentation for operational HTTP endpoints
//   - slo: delivery objectives of scheduled dispatches
//   - tracing: OpenTelemetry spans, HTTP middleware and provider setup
package observability
