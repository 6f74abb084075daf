package fetch

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter spaces page loads so the source site sees at most the configured request rate,
// counting readiness reloads as well as first loads.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows requestsPerSecond loads per second. Zero or less disables the limit.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, 1)}
}

// WaitTurn blocks until the caller may send its request, or ctx is done.
func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	if r == nil || r.limiter == nil {
		return ctx.Err()
	}
	return r.limiter.Wait(ctx)
}
