package ratelimit

import "time"

// NormalizeInterval exports normalizeInterval for testing.
var NormalizeInterval = normalizeInterval

// Verify NormalizeInterval has the expected type at compile time.
var _ func(time.Duration) time.Duration = NormalizeInterval

// GetLimit returns the configured triggers-per-minute limit (for testing).
func (l *TokenBucketLimiter) GetLimit() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limit
}
