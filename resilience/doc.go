// Package resilience provides the failure-handling patterns wrapped around
// health probes: timeouts, retry with backoff, and rate limiting.
//
// The HTTP client composes Timeout and Retry around each probe so a slow or
// flaky backend degrades into an ordinary transport error instead of a hung
// session. The HTTP API uses Limiter to bound how often the dashboard can
// trigger ad-hoc single-entity re-checks.
//
//	retry := resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3})
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return probe(ctx)
//	})
package resilience
