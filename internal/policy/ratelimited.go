package policy

import (
	"context"
	"sync"
	"time"

	"github.com/canberks/riotbroker/internal/ratelimit"
)

// RateLimiterFactory builds a fresh per-connection rate limiter, letting
// RateLimitedPolicy stay agnostic to which internal/ratelimit
// implementation backs it (TokenBucketLimiter or the samber/ro-native
// reactive limiter).
type RateLimiterFactory func() ratelimit.RateLimiter

// RateLimitedPolicy wraps a Policy and layers a per-connection
// triggers-per-minute budget on top of its MinimumTimeBetweenTriggers
// floor, wiring internal/ratelimit (previously unexercised outside its own
// package) into the real TooFrequentTrigger decision path (spec.md §7).
//
// A connection that has exhausted its per-minute budget is reported twice
// the wrapped policy's minimum-interval floor (one second when that floor
// is zero); one that is still within budget defers entirely to the
// wrapped Policy.
type RateLimitedPolicy struct {
	Policy
	newLimiter RateLimiterFactory

	mu       sync.Mutex
	limiters map[string]ratelimit.RateLimiter
}

// NewRateLimitedPolicy wraps inner, building one RateLimiter per
// connection name on first use via newLimiter.
func NewRateLimitedPolicy(inner Policy, newLimiter RateLimiterFactory) *RateLimitedPolicy {
	return &RateLimitedPolicy{
		Policy:     inner,
		newLimiter: newLimiter,
		limiters:   make(map[string]ratelimit.RateLimiter),
	}
}

func (p *RateLimitedPolicy) limiterFor(name string) ratelimit.RateLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[name]; ok {
		return l
	}
	l := p.newLimiter()
	p.limiters[name] = l
	return l
}

// MinimumTimeBetweenTriggers consults the connection's trigger-rate budget
// first: while Allow refuses, the floor reported is twice the wrapped
// policy's minimum interval (or one second if that is zero). The factor
// is fixed; it does not grow with repeated refusals.
func (p *RateLimitedPolicy) MinimumTimeBetweenTriggers(conn ConnectionInfo) time.Duration {
	floor := p.Policy.MinimumTimeBetweenTriggers(conn)
	limiter := p.limiterFor(conn.Name())
	if limiter.Allow(context.Background()) {
		return floor
	}
	if floor <= 0 {
		return time.Second
	}
	return floor * 2
}

var _ Policy = (*RateLimitedPolicy)(nil)
