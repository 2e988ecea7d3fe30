// Package session orchestrates end-to-end health checks and owns the
// engine facade consumed by the admin dashboard.
//
// A check session times the probe, invokes the backend client, classifies
// the payload into entity records, writes the store (full replacement for
// fleet-wide checks, a single merge for targeted re-checks), recomputes the
// fleet aggregate, and derives a user-facing notification tier from the
// resulting counts.
//
// Engine wraps sessions with the polling scheduler, the current snapshot,
// and the logging/notification sinks:
//
//	engine, err := session.NewEngine(session.EngineConfig{Client: c})
//	if err != nil { ... }
//	defer engine.Close()
//
//	snap, err := engine.RunFleetCheck(ctx)
//	_ = engine.StartPolling(30 * time.Second)
//
// A failed probe never mutates the store: the previous snapshot stays
// available so the dashboard keeps showing last-known status with a retry
// affordance.
package session
