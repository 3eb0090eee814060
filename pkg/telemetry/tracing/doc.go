// Package tracing exports OpenTelemetry spans for rule compilation.
//
// A disabled Tracer hands out no-op spans, so callers never check whether
// tracing is on:
//
//	tracer, err := tracing.New(&cfg.Tracing, tracing.WithVersion(Version))
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "fragrules.compile",
//		trace.WithAttributes(tracing.SourceAttributes(path)...))
//	defer span.End()
//
// Enabled tracers send spans over OTLP gRPC to the configured collector.
package tracing
