package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatfleet/fleethealth/client"
	"github.com/chatfleet/fleethealth/health"
	"github.com/chatfleet/fleethealth/observe"
	"github.com/chatfleet/fleethealth/poll"
)

// EngineConfig configures the engine facade.
type EngineConfig struct {
	// Client issues the health probes. Required.
	Client client.Client

	// Logger receives engine diagnostics. Default: no-op.
	Logger observe.Logger

	// Notifier receives the one-line summary after each check.
	// Default: no-op.
	Notifier Notifier

	// Observer provides tracing and metrics instruments. Optional.
	Observer *observe.Observer

	// ExtraServices are backend services probed individually on every
	// fleet check, beyond those the fleet payload reports.
	ExtraServices []string

	// PollTimeout bounds the session a polling tick triggers.
	// Default: 30s.
	PollTimeout time.Duration
}

// Engine is the public face of the health engine: it owns the store, the
// polling scheduler, and the current fleet snapshot, and exposes the
// operations the dashboard calls.
//
// Concurrent check triggers are not deduplicated here — the dashboard
// disables its buttons while a check runs — but every operation is safe to
// call concurrently; the store and snapshot swaps are mutex-guarded.
type Engine struct {
	session  *Session
	store    *health.Store
	sched    *poll.Scheduler
	logger   observe.Logger
	notifier Notifier
	metrics  *observe.Metrics
	tracer   trace.Tracer

	pollTimeout time.Duration

	mu      sync.RWMutex
	current *health.FleetSnapshot
}

// NewEngine builds an engine over the given client.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}

	store := health.NewStore()
	runner := NewSession(cfg.Client, store, cfg.Logger)
	runner.AddExtraServices(cfg.ExtraServices...)
	e := &Engine{
		session:     runner,
		store:       store,
		sched:       poll.NewScheduler(),
		logger:      cfg.Logger,
		notifier:    cfg.Notifier,
		pollTimeout: cfg.PollTimeout,
	}
	if cfg.Observer != nil {
		e.metrics = cfg.Observer.Metrics
		e.tracer = cfg.Observer.Tracer
	}
	return e, nil
}

// RunFleetCheck runs a fleet-wide session and publishes the resulting
// snapshot. On failure the store and the previous snapshot are retained.
func (e *Engine) RunFleetCheck(ctx context.Context) (*health.FleetSnapshot, error) {
	return e.run(ctx, "fleet", func(ctx context.Context) (*health.FleetSnapshot, error) {
		return e.session.RunFleet(ctx)
	})
}

// RunSingleCheck re-checks one tenant and merges the result into the
// existing fleet; unrelated entities keep their last-known state.
func (e *Engine) RunSingleCheck(ctx context.Context, id string) (*health.FleetSnapshot, error) {
	return e.run(ctx, "entity", func(ctx context.Context) (*health.FleetSnapshot, error) {
		return e.session.RunEntity(ctx, id)
	})
}

// RunServiceCheck re-checks one backend service.
func (e *Engine) RunServiceCheck(ctx context.Context, name string) (*health.FleetSnapshot, error) {
	return e.run(ctx, "service", func(ctx context.Context) (*health.FleetSnapshot, error) {
		return e.session.RunService(ctx, name)
	})
}

func (e *Engine) run(ctx context.Context, scope string, fn func(context.Context) (*health.FleetSnapshot, error)) (*health.FleetSnapshot, error) {
	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "fleethealth.check",
			trace.WithAttributes(attribute.String("check.scope", scope)))
		defer span.End()
	}

	start := time.Now()
	snap, err := fn(ctx)
	e.metrics.RecordProbe(ctx, scope, time.Since(start), err)

	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "health check failed")
		}
		e.logger.Error("health check failed", observe.Fields{"scope": scope, "error": err.Error()})
		// The raw transport error stays in the logs; users get one line.
		e.notifier.Notify("health check failed; showing last known status", NotifyError)
		return nil, err
	}

	e.mu.Lock()
	e.current = snap
	e.mu.Unlock()

	e.metrics.RecordFleet(ctx, snap.Counts.Healthy, snap.Counts.Partial, snap.Counts.Unhealthy)
	e.notifier.Notify(SummaryMessage(snap.Counts), SummaryTier(snap.Counts))
	return snap, nil
}

// StartPolling begins fleet-wide checks on the given interval. Calling it
// while polling restarts the loop with the new interval.
func (e *Engine) StartPolling(interval time.Duration) error {
	return e.sched.Start(interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.pollTimeout)
		defer cancel()
		// Errors are already logged and notified inside run.
		_, _ = e.RunFleetCheck(ctx)
	})
}

// StopPolling cancels future ticks. A check already in flight completes
// and its result is still applied; last write wins.
func (e *Engine) StopPolling() {
	e.sched.Stop()
}

// Polling reports the scheduler state and the countdown to the next tick.
func (e *Engine) Polling() (poll.State, time.Duration) {
	return e.sched.State(), e.sched.Remaining()
}

// Snapshot returns the most recent fleet snapshot, or nil before the
// first successful check.
func (e *Engine) Snapshot() *health.FleetSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Entity returns the last-known record for one entity.
func (e *Engine) Entity(id string) (health.EntityRecord, bool) {
	return e.store.Get(id)
}

// Clear resets the store and discards the current snapshot.
func (e *Engine) Clear() {
	e.store.Clear()
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
}

// Close stops polling. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.StopPolling()
}
