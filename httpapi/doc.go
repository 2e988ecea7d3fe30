// Package httpapi exposes the health engine over a small JSON HTTP
// surface for the dashboard UI.
//
// Routes:
//
//	GET    /healthz                        liveness
//	GET    /api/v1/fleet                   current fleet snapshot
//	POST   /api/v1/fleet/check             trigger a fleet-wide check
//	DELETE /api/v1/fleet                   clear all health state
//	POST   /api/v1/entities/{id}/check     targeted re-check (rate limited)
//	POST   /api/v1/services/{name}/check   service re-check (rate limited)
//	GET    /api/v1/polling                 scheduler state and countdown
//	POST   /api/v1/polling/start           begin periodic checks
//	POST   /api/v1/polling/stop            stop periodic checks
//
// All errors are returned as {"error": "..."} JSON bodies. When an API
// key is configured, every /api/v1 route requires a matching X-API-Key
// header.
package httpapi
