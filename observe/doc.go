// Package observe provides the observability surface of the fleet health
// engine: a small structured logging interface and OpenTelemetry tracing
// and metrics wiring with pluggable exporters.
//
// The engine packages log through the Logger interface and never depend on
// a concrete backend; the daemon backs it with logrus via NewLogrusLogger,
// and library consumers may pass NopLogger.
//
//	obs, err := observe.Init(ctx, observe.Config{
//	    ServiceName: "fleethealthd",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	})
//	if err != nil { ... }
//	defer obs.Shutdown(context.Background())
//
// Metrics records per-probe counters and latency plus the fleet tier
// counts after each aggregation pass.
package observe
