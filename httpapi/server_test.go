package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chatfleet/fleethealth/client"
	"github.com/chatfleet/fleethealth/session"
)

// stubClient serves a fixed two-company fleet; failing toggles every
// probe into a transport error.
type stubClient struct {
	failing bool
}

func (c *stubClient) CheckFleet(context.Context) (*client.FleetReport, error) {
	if c.failing {
		return nil, &client.TransportError{Endpoint: "/health", Err: errors.New("connection refused")}
	}
	return &client.FleetReport{
		Status: client.StatusValue{Raw: "healthy"},
		Companies: []client.CompanyReport{
			{ID: "acme", Name: "Acme", Available: true, Checks: map[string]bool{"db": true}},
			{ID: "globex", Name: "Globex", Available: false},
		},
	}, nil
}

func (c *stubClient) CheckEntity(_ context.Context, id string) (*client.EntityReport, error) {
	if c.failing {
		return nil, &client.TransportError{Endpoint: "/companies/" + id + "/health", Err: errors.New("timeout")}
	}
	return &client.EntityReport{Available: true, Checks: map[string]bool{"db": true}}, nil
}

func (c *stubClient) CheckService(_ context.Context, name string) (*client.ServiceReport, error) {
	if c.failing {
		return nil, &client.TransportError{Endpoint: "/services/" + name + "/health", Err: errors.New("timeout")}
	}
	return &client.ServiceReport{Status: client.StatusValue{Raw: "operational"}}, nil
}

func (c *stubClient) CheckServices(ctx context.Context, names []string) (map[string]*client.ServiceReport, error) {
	reports := make(map[string]*client.ServiceReport, len(names))
	for _, name := range names {
		report, err := c.CheckService(ctx, name)
		if err != nil {
			return nil, err
		}
		reports[name] = report
	}
	return reports, nil
}

func newTestServer(t *testing.T, cfg Config, probe *stubClient) (*Server, *session.Engine) {
	t.Helper()
	engine, err := session.NewEngine(session.EngineConfig{Client: probe})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(engine.Close)
	return NewServer(cfg, engine), engine
}

func doRequest(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, &stubClient{})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", rec.Code)
	}
}

func TestGetFleet_BeforeFirstCheck(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, &stubClient{})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/fleet", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /api/v1/fleet = %d, want 503 before any check", rec.Code)
	}
	if decodeError(t, rec) == "" {
		t.Error("503 body should carry an error message")
	}
}

func TestFleetCheck_ThenGet(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, &stubClient{})
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/fleet/check", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/v1/fleet/check = %d: %s", rec.Code, rec.Body.String())
	}

	var resp fleetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Counts.Total != 2 || resp.Counts.Healthy != 1 || resp.Counts.Unhealthy != 1 {
		t.Errorf("counts = %+v, want 1 healthy + 1 unhealthy", resp.Counts)
	}
	if resp.Entities["acme"].Tier != "healthy" {
		t.Errorf("acme tier = %q, want healthy", resp.Entities["acme"].Tier)
	}
	if resp.Entities["globex"].Tier != "unhealthy" {
		t.Errorf("globex tier = %q, want unhealthy", resp.Entities["globex"].Tier)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/fleet", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/fleet after check = %d", rec.Code)
	}
}

func TestFleetCheck_TransportFailure(t *testing.T) {
	probe := &stubClient{}
	srv, _ := newTestServer(t, Config{}, probe)
	h := srv.Handler()

	// Seed a good snapshot, then break the backend.
	doRequest(t, h, http.MethodPost, "/api/v1/fleet/check", "", nil)
	probe.failing = true

	rec := doRequest(t, h, http.MethodPost, "/api/v1/fleet/check", "", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed check = %d, want 502", rec.Code)
	}
	if msg := decodeError(t, rec); strings.Contains(msg, "connection refused") {
		t.Errorf("transport detail leaked to the client: %q", msg)
	}

	// The stale snapshot is still served.
	rec = doRequest(t, h, http.MethodGet, "/api/v1/fleet", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET after failed check = %d, want 200 with last known fleet", rec.Code)
	}
}

func TestEntityCheck_RateLimited(t *testing.T) {
	srv, _ := newTestServer(t, Config{RecheckPerSecond: 0.001, RecheckBurst: 1}, &stubClient{})
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/entities/acme/check", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first re-check = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, h, http.MethodPost, "/api/v1/entities/acme/check", "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second re-check = %d, want 429", rec.Code)
	}
}

func TestServiceCheck(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, &stubClient{})
	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/services/queue/check", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("service re-check = %d: %s", rec.Code, rec.Body.String())
	}
	var resp fleetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Entities["queue"].Tier != "healthy" || resp.Entities["queue"].Kind != "service" {
		t.Errorf("queue view = %+v, want healthy service", resp.Entities["queue"])
	}
}

func TestPollingEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, &stubClient{})
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodGet, "/api/v1/polling", "", nil)
	var status pollingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.State != "idle" {
		t.Errorf("state = %q, want idle before start", status.State)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/v1/polling/start", `{"interval_seconds": 60}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start polling = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.State != "polling" {
		t.Errorf("state = %q, want polling after start", status.State)
	}
	if status.RemainingSeconds <= 0 || status.RemainingSeconds > 60 {
		t.Errorf("remaining = %v, want within (0, 60]", status.RemainingSeconds)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/v1/polling/start", `{"interval_seconds": 0}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("start with zero interval = %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/v1/polling/stop", "", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.State != "idle" {
		t.Errorf("state = %q, want idle after stop", status.State)
	}
}

func TestClearFleet(t *testing.T) {
	srv, engine := newTestServer(t, Config{}, &stubClient{})
	h := srv.Handler()

	doRequest(t, h, http.MethodPost, "/api/v1/fleet/check", "", nil)
	rec := doRequest(t, h, http.MethodDelete, "/api/v1/fleet", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /api/v1/fleet = %d, want 204", rec.Code)
	}
	if engine.Snapshot() != nil {
		t.Error("clear left a snapshot behind")
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, Config{APIKey: "sekrit"}, &stubClient{})
	h := srv.Handler()

	// Liveness stays open.
	if rec := doRequest(t, h, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz with auth enabled = %d, want 200", rec.Code)
	}

	if rec := doRequest(t, h, http.MethodGet, "/api/v1/polling", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", rec.Code)
	}
	if rec := doRequest(t, h, http.MethodGet, "/api/v1/polling", "", map[string]string{apiKeyHeader: "wrong"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key = %d, want 401", rec.Code)
	}
	if rec := doRequest(t, h, http.MethodGet, "/api/v1/polling", "", map[string]string{apiKeyHeader: "sekrit"}); rec.Code != http.StatusOK {
		t.Errorf("valid key = %d, want 200", rec.Code)
	}
}
