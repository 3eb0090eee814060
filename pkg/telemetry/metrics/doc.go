// Package metrics exports Prometheus metrics for rule compilation and the
// revision catalog.
//
// All metrics are registered on a dedicated *prometheus.Registry owned by
// the Collector; Handler serves them in the OpenMetrics format. With
// metrics disabled in configuration every Record method is a no-op, so
// callers never need to check.
package metrics
