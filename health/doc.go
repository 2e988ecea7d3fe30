// Package health contains the core domain of the fleet health engine:
// entity records, tier classification, fleet aggregation, and the in-memory
// store of last-known health per entity.
//
// An entity is one monitored unit — a tenant company on the chatbot backend
// or one of the backend's own services. Each entity carries a variable set
// of named boolean checks plus an availability flag; its tier is always
// recomputed from those fields, never stored.
//
// # Classification
//
// Fleet entities classify into three tiers:
//
//	tier := health.ClassifyEntity(record.Checks, record.Available)
//	if tier == health.TierUnhealthy {
//	    // entity is unreachable or failing every check
//	}
//
// Individual backend services use a four-tier vocabulary derived from the
// status value the service reports:
//
//	tier := health.ClassifyService("degraded") // ServiceWarning
//
// # Aggregation
//
// Aggregate tallies an entity table into fleet-wide counts:
//
//	counts := health.Aggregate(store.Snapshot(), nil)
//	fmt.Printf("%d/%d healthy", counts.Healthy, counts.Total)
//
// # Store
//
// Store is the single source of truth for last-known health. It is mutated
// only by full replacement after a fleet-wide check or by merging one
// entity after a targeted re-check; readers get deep-copied snapshots.
package health
