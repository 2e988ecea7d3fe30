package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records probe and fleet-level measurements.
//
// Contract:
//   - Safe for concurrent use.
//   - Must not panic; recording failures are silently dropped.
type Metrics struct {
	probeTotal   metric.Int64Counter
	probeErrors  metric.Int64Counter
	probeLatency metric.Float64Histogram
	fleetCounts  metric.Int64Gauge
}

// newMetrics creates the instrument set on the given meter.
func newMetrics(meter metric.Meter) (*Metrics, error) {
	probeTotal, err := meter.Int64Counter(
		"fleethealth.probe.total",
		metric.WithDescription("Total number of health probes issued"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	probeErrors, err := meter.Int64Counter(
		"fleethealth.probe.errors",
		metric.WithDescription("Total number of failed health probes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	probeLatency, err := meter.Float64Histogram(
		"fleethealth.probe.duration_ms",
		metric.WithDescription("Health probe duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	fleetCounts, err := meter.Int64Gauge(
		"fleethealth.fleet.entities",
		metric.WithDescription("Entities per health tier after the last aggregation"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		probeTotal:   probeTotal,
		probeErrors:  probeErrors,
		probeLatency: probeLatency,
		fleetCounts:  fleetCounts,
	}, nil
}

// RecordProbe records one probe attempt with its scope, duration, and
// error status.
func (m *Metrics) RecordProbe(ctx context.Context, scope string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	opt := metric.WithAttributes(attribute.String("probe.scope", scope))

	m.probeTotal.Add(ctx, 1, opt)
	if err != nil {
		m.probeErrors.Add(ctx, 1, opt)
	}
	m.probeLatency.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// RecordFleet records the tier counts of the latest aggregation pass.
func (m *Metrics) RecordFleet(ctx context.Context, healthy, partial, unhealthy int) {
	if m == nil {
		return
	}
	record := func(tier string, n int) {
		m.fleetCounts.Record(ctx, int64(n), metric.WithAttributes(attribute.String("tier", tier)))
	}
	record("healthy", healthy)
	record("partial", partial)
	record("unhealthy", unhealthy)
}
