package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter implements token bucket algorithm for rate limiting.
// It prevents provider APIs from being overwhelmed with too many requests.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewRateLimiter creates a new RateLimiter with the specified rate and burst capacity.
//
// The token bucket algorithm allows up to 'burst' requests immediately,
// then refills tokens at 'requestsPerSecond' rate.
//
// Example:
//
//	limiter := NewRateLimiter(5.0, 10)  // 5 req/s with burst of 10
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	r := rate.Limit(requestsPerSecond)
	l := rate.NewLimiter(r, burst)

	return &RateLimiter{
		rate:    r,
		burst:   burst,
		limiter: l,
	}
}

// Allow blocks until a token is available or the context is canceled.
// It should be called before making a rate-limited request.
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
