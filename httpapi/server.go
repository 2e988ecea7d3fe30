package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/chatfleet/fleethealth/observe"
	"github.com/chatfleet/fleethealth/resilience"
	"github.com/chatfleet/fleethealth/session"
)

// Config configures the HTTP surface.
type Config struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// APIKey protects /api/v1 routes when set. Empty disables auth.
	APIKey string

	// RecheckPerSecond throttles targeted re-checks across all callers.
	// Default: 1.
	RecheckPerSecond float64

	// RecheckBurst is the re-check burst allowance.
	// Default: 3.
	RecheckBurst int

	// ReadTimeout and WriteTimeout bound the underlying http.Server.
	// Defaults: 10s read, 60s write (fleet checks can be slow).
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logger receives request diagnostics. Default: no-op.
	Logger observe.Logger
}

// Server serves the dashboard JSON API over an engine.
type Server struct {
	engine  *session.Engine
	logger  observe.Logger
	limiter *resilience.Limiter
	apiKey  string
	httpSrv *http.Server
}

// NewServer builds the server and its route table.
func NewServer(cfg Config, engine *session.Engine) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RecheckPerSecond <= 0 {
		cfg.RecheckPerSecond = 1
	}
	if cfg.RecheckBurst <= 0 {
		cfg.RecheckBurst = 3
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger{}
	}

	s := &Server{
		engine: engine,
		logger: cfg.Logger,
		limiter: resilience.NewLimiter(resilience.LimiterConfig{
			PerSecond: cfg.RecheckPerSecond,
			Burst:     cfg.RecheckBurst,
		}),
		apiKey: cfg.APIKey,
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the full route table, including middleware. It is
// exposed separately so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/fleet", s.handleGetFleet)
	api.HandleFunc("POST /api/v1/fleet/check", s.handleFleetCheck)
	api.HandleFunc("DELETE /api/v1/fleet", s.handleClearFleet)
	api.HandleFunc("POST /api/v1/entities/{id}/check", s.handleEntityCheck)
	api.HandleFunc("POST /api/v1/services/{name}/check", s.handleServiceCheck)
	api.HandleFunc("GET /api/v1/polling", s.handleGetPolling)
	api.HandleFunc("POST /api/v1/polling/start", s.handleStartPolling)
	api.HandleFunc("POST /api/v1/polling/stop", s.handleStopPolling)

	mux.Handle("/api/v1/", s.requireAPIKey(api))
	return s.logRequests(mux)
}

// ListenAndServe blocks serving the API until the listener fails or
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", observe.Fields{"addr": s.httpSrv.Addr})
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
