package di

import (
	"sync/atomic"

	"github.com/canberks/riotbroker/internal/cache"
	"github.com/canberks/riotbroker/internal/config"
	"github.com/canberks/riotbroker/internal/health"
)

// Exported for testing.
// This file provides access to unexported identifiers needed by tests in package di_test.

// GetConfigAtomic returns the atomic pointer for config storage.
func (c *ConfigService) GetConfigAtomic() *atomic.Pointer[config.Config] {
	return &c.config
}

// GetWatcher returns the watcher for testing purposes.
func (c *ConfigService) GetWatcher() *config.Watcher {
	return c.watcher
}

// MustTestConfig creates a minimal Config for testing with all required
// fields initialized.
func MustTestConfig() config.Config {
	return config.Config{
		Listeners: config.ListenersConfig{
			ByteStream: config.ByteStreamListenerConfig{
				Listen:   ":7300",
				ServerID: "test-server",
				TLS:      config.TLSConfig{},
				Enabled:  true,
			},
			FrameStream: config.FrameStreamListenerConfig{},
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
			Pretty: false,
		},
		Policy: config.PolicyConfig{
			RateLimiter: config.RateLimiterConfig{Backend: config.RateLimiterTokenBucket},
		},
		Cache: cache.Config{
			Mode:      cache.ModeDisabled,
			Olric:     cache.DefaultOlricConfig(),
			Ristretto: cache.DefaultRistrettoConfig(),
		},
		Health: health.Config{
			CircuitBreaker: health.CircuitBreakerConfig{
				OpenDurationMS:   0,
				FailureThreshold: 0,
				HalfOpenProbes:   0,
			},
		},
	}
}

// MustTestHealthConfig creates a minimal health.Config for testing.
func MustTestHealthConfig() health.Config {
	return health.Config{
		CircuitBreaker: health.CircuitBreakerConfig{
			OpenDurationMS:   0,
			FailureThreshold: 0,
			HalfOpenProbes:   0,
		},
	}
}

// MustTestCacheConfig creates a minimal cache.Config for testing.
func MustTestCacheConfig(mode cache.Mode) cache.Config {
	return cache.Config{
		Mode:      mode,
		Olric:     cache.DefaultOlricConfig(),
		Ristretto: cache.DefaultRistrettoConfig(),
	}
}

// NewConfigServiceUninitialized creates a ConfigService without initialization.
func NewConfigServiceUninitialized() *ConfigService {
	cfg := MustTestConfig()
	svc := &ConfigService{
		config:  atomic.Pointer[config.Config]{},
		watcher: nil,
		Config:  nil,
		path:    "",
	}
	svc.config.Store(&cfg)
	return svc
}

// NewConfigServiceWithConfig creates a ConfigService with config and nil watcher.
func NewConfigServiceWithConfig(cfg *config.Config) *ConfigService {
	svc := &ConfigService{
		config:  atomic.Pointer[config.Config]{},
		watcher: nil,
		Config:  cfg,
		path:    "",
	}
	svc.config.Store(cfg)
	return svc
}

// NewConfigServiceWithNilWatcher creates a ConfigService with config and explicit nil watcher.
func NewConfigServiceWithNilWatcher(cfg *config.Config) *ConfigService {
	svc := &ConfigService{
		config:  atomic.Pointer[config.Config]{},
		watcher: nil,
		Config:  cfg,
		path:    "",
	}
	svc.config.Store(cfg)
	return svc
}

// NewHealthTrackerServiceWithTracker creates a HealthTrackerService with a specific tracker.
func NewHealthTrackerServiceWithTracker(tracker *health.Tracker) *HealthTrackerService {
	svc := &HealthTrackerService{cfgSvc: nil, logger: nil}
	svc.tracker.Store(tracker)
	return svc
}
