// Package observability provides OpenTelemetry tracing and metrics for
// autowire.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordCacheMiss(ctx, "acme.Mailer")
//
// A nil *Metrics is valid and records nothing.
package observability
