package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config holds all observability configuration for the daemon.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled     bool
	Exporter    string  // otlp|stdout|none
	SampleRatio float64 // 0.0-1.0, 0 means always sample
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none
}

var validTracingExporters = map[string]bool{
	"otlp":   true,
	"stdout": true,
	"none":   true,
	"":       true,
}

var validMetricsExporters = map[string]bool{
	"otlp":       true,
	"prometheus": true,
	"stdout":     true,
	"none":       true,
	"":           true,
}

// Validate checks the configuration for unknown exporter names.
func (c Config) Validate() error {
	if c.Tracing.Enabled && !validTracingExporters[c.Tracing.Exporter] {
		return fmt.Errorf("%w: tracing exporter %q", ErrUnknownExporter, c.Tracing.Exporter)
	}
	if c.Metrics.Enabled && !validMetricsExporters[c.Metrics.Exporter] {
		return fmt.Errorf("%w: metrics exporter %q", ErrUnknownExporter, c.Metrics.Exporter)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: sample ratio %v", ErrInvalidSampleRatio, c.Tracing.SampleRatio)
	}
	return nil
}

// Observer bundles the configured tracer and meter providers together with
// their shutdown hooks.
type Observer struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *Metrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init builds an Observer from the configuration. Disabled subsystems get
// no-op providers, so callers never need nil checks.
func Init(ctx context.Context, cfg Config) (*Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "fleethealth"
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: build resource: %w", err)
	}

	obs := &Observer{
		Tracer: tracenoop.NewTracerProvider().Tracer(cfg.ServiceName),
		Meter:  metricnoop.NewMeterProvider().Meter(cfg.ServiceName),
	}

	if cfg.Tracing.Enabled {
		exporter, err := newTraceExporter(ctx, cfg.Tracing.Exporter)
		if err != nil {
			return nil, err
		}
		sampler := sdktrace.AlwaysSample()
		if cfg.Tracing.SampleRatio > 0 && cfg.Tracing.SampleRatio < 1 {
			sampler = sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRatio)
		}
		obs.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		)
		otel.SetTracerProvider(obs.tracerProvider)
		obs.Tracer = obs.tracerProvider.Tracer(cfg.ServiceName)
	}

	if cfg.Metrics.Enabled {
		reader, err := newMetricReader(ctx, cfg.Metrics.Exporter)
		if err != nil {
			return nil, err
		}
		obs.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(reader),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(obs.meterProvider)
		obs.Meter = obs.meterProvider.Meter(cfg.ServiceName)
	}

	obs.Metrics, err = newMetrics(obs.Meter)
	if err != nil {
		return nil, fmt.Errorf("observe: create instruments: %w", err)
	}

	return obs, nil
}

// Shutdown flushes and stops the configured providers.
func (o *Observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: shutdown tracing: %w", err))
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: shutdown metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}
