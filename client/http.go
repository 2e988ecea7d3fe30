package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chatfleet/fleethealth/observe"
	"github.com/chatfleet/fleethealth/resilience"
)

// Config configures the HTTP health-check client.
type Config struct {
	// BaseURL is the root of the backend admin API, e.g.
	// "https://backend.internal/admin/api". Required.
	BaseURL string

	// Token is an optional bearer token attached to every probe. When it
	// parses as a JWT its expiry is checked at construction and a warning
	// is logged if it is past or near the horizon.
	Token string

	// TokenExpiryHorizon is how far ahead of token expiry to start
	// warning. Default: 24h.
	TokenExpiryHorizon time.Duration

	// Timeout bounds each probe. Default: 10s.
	Timeout time.Duration

	// RetryAttempts is the attempt budget per probe, including the first.
	// Default: 2.
	RetryAttempts int

	// MaxConcurrentProbes caps the errgroup fan-out in CheckServices.
	// Default: 4.
	MaxConcurrentProbes int

	// ServiceEndpoints maps a service name to an absolute URL probed
	// instead of the default /services/{name}/health path, for services
	// whose health lives outside the backend admin API.
	ServiceEndpoints map[string]string

	// Logger receives probe diagnostics. Default: no-op.
	Logger observe.Logger

	// HTTPClient overrides the underlying http.Client, mainly for tests.
	HTTPClient *http.Client
}

// HTTPClient probes the backend's health endpoints over HTTP.
type HTTPClient struct {
	baseURL     string
	token       string
	concurrency int
	endpoints   map[string]string
	httpClient  *http.Client
	timeout     *resilience.Timeout
	retry       *resilience.Retry
	logger      observe.Logger

	warnOnce sync.Once
	horizon  time.Duration
}

// NewHTTPClient creates a probe client for the given backend.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TokenExpiryHorizon <= 0 {
		cfg.TokenExpiryHorizon = 24 * time.Hour
	}
	if cfg.MaxConcurrentProbes <= 0 {
		cfg.MaxConcurrentProbes = 4
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &HTTPClient{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		token:       cfg.Token,
		concurrency: cfg.MaxConcurrentProbes,
		endpoints:   cfg.ServiceEndpoints,
		httpClient:  httpClient,
		timeout:     resilience.NewTimeout(resilience.TimeoutConfig{Timeout: cfg.Timeout}),
		retry: resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			RetryIf:     retryTemporary,
		}),
		logger:  cfg.Logger,
		horizon: cfg.TokenExpiryHorizon,
	}
	c.warnIfTokenExpiring(time.Now())
	return c, nil
}

func retryTemporary(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Temporary()
	}
	return err != nil
}

// CheckFleet requests the fleet-wide health summary.
func (c *HTTPClient) CheckFleet(ctx context.Context) (*FleetReport, error) {
	var report FleetReport
	if err := c.probe(ctx, "/health", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// CheckEntity requests a single tenant's health detail.
func (c *HTTPClient) CheckEntity(ctx context.Context, id string) (*EntityReport, error) {
	endpoint := "/companies/" + url.PathEscape(id) + "/health"

	start := time.Now()
	var report EntityReport
	if err := c.probe(ctx, endpoint, &report); err != nil {
		return nil, err
	}
	if report.ResponseTimeMs == nil {
		// Backend did not measure itself; fall back to the round trip.
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)
		report.ResponseTimeMs = &elapsed
	}
	return &report, nil
}

// CheckService requests a single backend service's health detail. A
// configured endpoint override for the name takes precedence over the
// default admin-API path.
func (c *HTTPClient) CheckService(ctx context.Context, name string) (*ServiceReport, error) {
	endpoint := "/services/" + url.PathEscape(name) + "/health"
	if override, ok := c.endpoints[name]; ok {
		endpoint = override
	}

	var report ServiceReport
	if err := c.probe(ctx, endpoint, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// CheckServices probes several services concurrently. The result map holds
// an entry per requested name; a failed probe aborts the whole batch and
// returns the first error.
func (c *HTTPClient) CheckServices(ctx context.Context, names []string) (map[string]*ServiceReport, error) {
	reports := make(map[string]*ServiceReport, len(names))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, name := range names {
		g.Go(func() error {
			report, err := c.CheckService(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			reports[name] = report
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// probe issues one GET under the timeout/retry policy and decodes the JSON
// body into out.
func (c *HTTPClient) probe(ctx context.Context, endpoint string, out any) error {
	return c.retry.Execute(ctx, func(ctx context.Context) error {
		return c.timeout.Execute(ctx, func(ctx context.Context) error {
			return c.doOnce(ctx, endpoint, out)
		})
	})
}

func (c *HTTPClient) doOnce(ctx context.Context, endpoint string, out any) error {
	// Endpoint overrides arrive as absolute URLs; default paths are
	// relative to the backend base.
	target := endpoint
	if !strings.Contains(endpoint, "://") {
		target = c.baseURL + endpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = resilience.ErrTimeout
		}
		c.logger.Warn("probe failed", observe.Fields{"endpoint": endpoint, "error": err.Error()})
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("probe returned non-2xx", observe.Fields{"endpoint": endpoint, "status": resp.StatusCode})
		return &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("malformed payload: %w", err),
		}
	}
	return nil
}
