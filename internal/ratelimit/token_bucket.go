package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// TokenBucketLimiter implements RateLimiter using golang.org/x/time/rate,
// collapsed from cc-relay's dual RPM/TPM token_bucket.go to the single
// triggers-per-minute dimension spec.md §7's TooFrequentTrigger needs: an
// SFE trigger has no token cost, only a rate.
//
// Burst is set equal to the limit, so a connection that has been idle can
// still publish a full minute's worth of triggers instantly before the
// bucket starts refilling gradually.
//
// Thread safety: all methods are safe for concurrent use.
type TokenBucketLimiter struct {
	limiter *rate.Limiter
	limit   int
	mu      sync.RWMutex
}

// unlimitedRate stands in for "no limit" since golang.org/x/time/rate has
// no literal unlimited mode short of rate.Inf, which would also defeat
// Burst-based usage estimation below.
const unlimitedRate = 1_000_000

// NewTokenBucketLimiter creates a new token bucket rate limiter.
//
// tpm is the triggers-per-minute limit; zero or negative is treated as
// unlimited.
func NewTokenBucketLimiter(tpm int) *TokenBucketLimiter {
	if tpm <= 0 {
		tpm = unlimitedRate
	}
	return &TokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(tpm)/60.0), tpm),
		limit:   tpm,
	}
}

// Allow checks if a trigger is allowed under the current rate limit. This
// is a non-blocking operation.
func (l *TokenBucketLimiter) Allow(_ context.Context) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limiter.Allow()
}

// Wait blocks until a trigger is allowed or the context is canceled.
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	l.mu.RLock()
	limiter := l.limiter
	l.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ErrContextCancelled
		}
		return err
	}
	return nil
}

// SetLimit updates the trigger-rate limit dynamically, replacing the
// underlying limiter so the new rate takes effect immediately.
func (l *TokenBucketLimiter) SetLimit(tpm int) {
	if tpm <= 0 {
		tpm = unlimitedRate
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter = rate.NewLimiter(rate.Limit(float64(tpm)/60.0), tpm)
	l.limit = tpm
}

// GetUsage returns the current usage statistics.
//
// golang.org/x/time/rate doesn't expose remaining tokens directly; this
// approximates by checking, without consuming a token, whether at least
// one token is currently available: if so, half the limit is reported as
// remaining, otherwise zero.
func (l *TokenBucketLimiter) GetUsage() Usage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	remaining := 0
	if l.limiter.Tokens() >= 1 {
		remaining = l.limit / 2
	}

	return Usage{
		TriggersUsed:      l.limit - remaining,
		TriggersLimit:     l.limit,
		TriggersRemaining: remaining,
	}
}
