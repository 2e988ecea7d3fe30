package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/chatfleet/fleethealth/client"
	"github.com/chatfleet/fleethealth/health"
	"github.com/chatfleet/fleethealth/observe"
	"github.com/chatfleet/fleethealth/poll"
)

// entityView is the wire shape of one entity, with its tier precomputed
// so the dashboard never reimplements classification.
type entityView struct {
	ID             string          `json:"id"`
	DisplayName    string          `json:"display_name,omitempty"`
	Kind           string          `json:"kind"`
	Tier           string          `json:"tier"`
	Checks         map[string]bool `json:"checks,omitempty"`
	Available      bool            `json:"available"`
	RawStatus      string          `json:"raw_status,omitempty"`
	ResponseTimeMs *float64        `json:"response_time_ms,omitempty"`
	LastCheckedAt  time.Time       `json:"last_checked_at"`
	Errors         []string        `json:"errors,omitempty"`
}

type fleetResponse struct {
	Timestamp       time.Time             `json:"timestamp"`
	CheckDurationMs float64               `json:"check_duration_ms"`
	Counts          health.Counts         `json:"counts"`
	Entities        map[string]entityView `json:"entities"`
}

type pollingResponse struct {
	State            string  `json:"state"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

type startPollingRequest struct {
	IntervalSeconds float64 `json:"interval_seconds"`
}

func viewOf(r health.EntityRecord) entityView {
	tier := r.Tier().String()
	if r.Kind == health.KindService {
		tier = r.ServiceStatus().String()
	}
	return entityView{
		ID:             r.ID,
		DisplayName:    r.DisplayName,
		Kind:           r.Kind.String(),
		Tier:           tier,
		Checks:         r.Checks,
		Available:      r.Available,
		RawStatus:      r.RawStatus,
		ResponseTimeMs: r.ResponseTimeMs,
		LastCheckedAt:  r.LastCheckedAt,
		Errors:         r.Errors,
	}
}

func viewOfSnapshot(snap *health.FleetSnapshot) fleetResponse {
	entities := make(map[string]entityView, len(snap.Entities))
	for id, record := range snap.Entities {
		entities[id] = viewOf(record)
	}
	return fleetResponse{
		Timestamp:       snap.Timestamp,
		CheckDurationMs: float64(snap.CheckDuration) / float64(time.Millisecond),
		Counts:          snap.Counts,
		Entities:        entities,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetFleet(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet; trigger or wait for a check")
		return
	}
	writeJSON(w, http.StatusOK, viewOfSnapshot(snap))
}

func (s *Server) handleFleetCheck(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.RunFleetCheck(r.Context())
	if err != nil {
		s.writeCheckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfSnapshot(snap))
}

func (s *Server) handleClearFleet(w http.ResponseWriter, _ *http.Request) {
	s.engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntityCheck(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "re-check rate limit exceeded; try again shortly")
		return
	}
	id := r.PathValue("id")
	snap, err := s.engine.RunSingleCheck(r.Context(), id)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfSnapshot(snap))
}

func (s *Server) handleServiceCheck(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "re-check rate limit exceeded; try again shortly")
		return
	}
	name := r.PathValue("name")
	snap, err := s.engine.RunServiceCheck(r.Context(), name)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfSnapshot(snap))
}

func (s *Server) handleGetPolling(w http.ResponseWriter, _ *http.Request) {
	state, remaining := s.engine.Polling()
	writeJSON(w, http.StatusOK, pollingResponse{
		State:            pollStateString(state),
		RemainingSeconds: remaining.Seconds(),
	})
}

func (s *Server) handleStartPolling(w http.ResponseWriter, r *http.Request) {
	var req startPollingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	interval := time.Duration(req.IntervalSeconds * float64(time.Second))
	if err := s.engine.StartPolling(interval); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, remaining := s.engine.Polling()
	writeJSON(w, http.StatusOK, pollingResponse{
		State:            pollStateString(state),
		RemainingSeconds: remaining.Seconds(),
	})
}

func (s *Server) handleStopPolling(w http.ResponseWriter, _ *http.Request) {
	s.engine.StopPolling()
	state, remaining := s.engine.Polling()
	writeJSON(w, http.StatusOK, pollingResponse{
		State:            pollStateString(state),
		RemainingSeconds: remaining.Seconds(),
	})
}

// writeCheckError maps a failed check onto a status code. Transport
// failures surface as 502 with the generic summary only; the detail
// stays in the logs.
func (s *Server) writeCheckError(w http.ResponseWriter, err error) {
	var te *client.TransportError
	if errors.As(err, &te) {
		s.logger.Warn("check failed", observe.Fields{"error": err.Error()})
		writeError(w, http.StatusBadGateway, "health check failed; showing last known status")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func pollStateString(state poll.State) string {
	if state == poll.StatePolling {
		return "polling"
	}
	return "idle"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
