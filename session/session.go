package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chatfleet/fleethealth/client"
	"github.com/chatfleet/fleethealth/health"
	"github.com/chatfleet/fleethealth/observe"
)

// Session runs one end-to-end health check against the backend and folds
// the result into the store. It does not own the store's lifecycle and
// never touches it when the probe fails.
type Session struct {
	client client.Client
	store  *health.Store
	logger observe.Logger
	now    func() time.Time

	extraServices []string
}

// NewSession creates a session runner over the given client and store.
func NewSession(c client.Client, store *health.Store, logger observe.Logger) *Session {
	if logger == nil {
		logger = observe.NopLogger{}
	}
	return &Session{client: c, store: store, logger: logger, now: time.Now}
}

// AddExtraServices registers backend services probed individually on
// every fleet check, beyond whatever the fleet payload reports. A
// targeted probe for a name the fleet also reports wins.
func (s *Session) AddExtraServices(names ...string) {
	s.extraServices = append(s.extraServices, names...)
}

// RunFleet performs a fleet-wide check: probe, classify, full store
// replacement, aggregate. Configured extra services are probed in the
// same pass; any probe failing fails the whole check and the store is
// left untouched.
func (s *Session) RunFleet(ctx context.Context) (*health.FleetSnapshot, error) {
	start := s.now()

	report, err := s.client.CheckFleet(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: fleet check: %w", err)
	}

	extras, err := s.checkExtraServices(ctx)
	if err != nil {
		return nil, err
	}

	entities := recordsFromFleet(report, start)
	for name, svc := range extras {
		entities[name] = serviceRecord(name, *svc, start)
	}
	s.store.ReplaceAll(entities)

	snap := s.snapshot(start)
	s.logger.Info("fleet check complete", observe.Fields{
		"entities":    snap.Counts.Total,
		"healthy":     snap.Counts.Healthy,
		"duration_ms": snap.CheckDuration.Milliseconds(),
	})
	return snap, nil
}

// RunEntity performs a targeted re-check of one tenant and merges the
// result into the existing table without disturbing other entities.
func (s *Session) RunEntity(ctx context.Context, id string) (*health.FleetSnapshot, error) {
	start := s.now()

	report, err := s.client.CheckEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session: entity check %q: %w", id, err)
	}

	s.store.MergeOne(id, health.KindTenant, patchFromEntity(report))

	snap := s.snapshot(start)
	s.logger.Info("entity check complete", observe.Fields{
		"entity": id,
		"tier":   health.ClassifyEntity(report.Checks, report.Available).String(),
	})
	return snap, nil
}

// RunService performs a targeted re-check of one backend service.
func (s *Session) RunService(ctx context.Context, name string) (*health.FleetSnapshot, error) {
	start := s.now()

	report, err := s.client.CheckService(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("session: service check %q: %w", name, err)
	}

	s.store.MergeOne(name, health.KindService, patchFromService(report))

	snap := s.snapshot(start)
	s.logger.Info("service check complete", observe.Fields{
		"service": name,
		"status":  report.Status.Tier().String(),
	})
	return snap, nil
}

// checkExtraServices fans out targeted probes for the configured extra
// services.
func (s *Session) checkExtraServices(ctx context.Context) (map[string]*client.ServiceReport, error) {
	if len(s.extraServices) == 0 {
		return nil, nil
	}
	reports, err := s.client.CheckServices(ctx, s.extraServices)
	if err != nil {
		return nil, fmt.Errorf("session: extra service check: %w", err)
	}
	return reports, nil
}

// snapshot builds the immutable aggregate view from the store's current
// table. The store mutation always completes before this runs, so a
// snapshot never exposes a half-updated fleet.
func (s *Session) snapshot(start time.Time) *health.FleetSnapshot {
	entities := s.store.Snapshot()
	return &health.FleetSnapshot{
		Timestamp:     s.now(),
		CheckDuration: s.now().Sub(start),
		Entities:      entities,
		Counts:        health.Aggregate(entities, nil),
	}
}

// recordsFromFleet flattens a fleet report into the entity table: one
// record per tenant company and one per backend service, with the database
// folded in as a service.
func recordsFromFleet(report *client.FleetReport, checkedAt time.Time) map[string]health.EntityRecord {
	entities := make(map[string]health.EntityRecord, len(report.Companies)+len(report.Services)+1)

	for _, company := range report.Companies {
		entities[company.ID] = health.EntityRecord{
			ID:             company.ID,
			DisplayName:    company.Name,
			Kind:           health.KindTenant,
			Checks:         company.Checks,
			Available:      company.Available,
			ResponseTimeMs: company.ResponseTimeMs,
			LastCheckedAt:  checkedAt,
			Errors:         company.Errors,
		}
	}

	for name, svc := range report.Services {
		entities[name] = serviceRecord(name, svc, checkedAt)
	}
	if report.Database != nil {
		entities["database"] = serviceRecord("database", *report.Database, checkedAt)
	}

	return entities
}

func serviceRecord(name string, svc client.ServiceReport, checkedAt time.Time) health.EntityRecord {
	tier := svc.Status.Tier()
	return health.EntityRecord{
		ID:             name,
		DisplayName:    name,
		Kind:           health.KindService,
		Available:      tier == health.ServiceHealthy || tier == health.ServiceWarning,
		RawStatus:      svc.Status.Raw,
		ResponseTimeMs: svc.ResponseTimeMs,
		LastCheckedAt:  checkedAt,
		Errors:         svc.Errors,
	}
}

func patchFromEntity(report *client.EntityReport) health.Patch {
	available := report.Available
	return health.Patch{
		Available:      &available,
		Checks:         report.Checks,
		ResponseTimeMs: report.ResponseTimeMs,
		Errors:         report.Errors,
		HasErrors:      true,
	}
}

func patchFromService(report *client.ServiceReport) health.Patch {
	tier := report.Status.Tier()
	available := tier == health.ServiceHealthy || tier == health.ServiceWarning
	raw := report.Status.Raw
	return health.Patch{
		Available:      &available,
		RawStatus:      &raw,
		ResponseTimeMs: report.ResponseTimeMs,
		Errors:         report.Errors,
		HasErrors:      true,
	}
}
