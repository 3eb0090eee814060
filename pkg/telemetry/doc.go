// Package telemetry groups the observability packages of fragrules.
//
//   - logging: slog-based structured logging with rule-file context fields
//   - metrics: Prometheus compile and catalog metrics
//   - tracing: OpenTelemetry spans for recompiles and catalog writes
//   - health: liveness and readiness probes for `fragrules watch`
//
// Only `fragrules watch` serves metrics and probes over HTTP. The other
// commands log to stderr and exit.
package telemetry
