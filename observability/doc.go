// Package observability holds the OpenTelemetry tracing, Prometheus metrics
// and readiness reporting shared by pipeline runs and the HTTP API.
//
//	tp, err := observability.InitTracer(ctx, cfg.Observability, "legalassist")
//	defer tp.Shutdown(ctx)
//
//	ctx, st := observability.StartStage(ctx, "transcribing", runID, metrics)
//	err := transcribe(ctx)
//	st.End(err)
//
// Metrics live on a private registry served by Metrics.Handler.
package observability
