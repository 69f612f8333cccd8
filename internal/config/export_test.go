package config

import (
	"github.com/canberks/riotbroker/internal/cache"
	"github.com/canberks/riotbroker/internal/health"
)

// DetectFormat exports detectFormat for testing.
var DetectFormat = detectFormat

// Test helpers with all fields initialized for exhaustruct compliance.

// MakeTestConfig returns a minimal valid Config with all fields set.
func MakeTestConfig() *Config {
	return &Config{
		Listeners: MakeTestListenersConfig(),
		Logging:   MakeTestLoggingConfig(),
		Policy:    MakeTestPolicyConfig(),
		Cache:     MakeTestCacheConfig(),
		Health:    MakeTestHealthConfig(),
	}
}

// MakeTestListenersConfig returns a minimal ListenersConfig with all fields set.
func MakeTestListenersConfig() ListenersConfig {
	return ListenersConfig{
		ByteStream:  MakeTestByteStreamListenerConfig(),
		FrameStream: MakeTestFrameStreamListenerConfig(),
	}
}

// MakeTestByteStreamListenerConfig returns a minimal ByteStreamListenerConfig
// with all fields set.
func MakeTestByteStreamListenerConfig() ByteStreamListenerConfig {
	return ByteStreamListenerConfig{
		Listen:   "127.0.0.1:7300",
		ServerID: "test-server",
		TLS:      MakeTestTLSConfig(),
		Enabled:  true,
	}
}

// MakeTestFrameStreamListenerConfig returns a minimal
// FrameStreamListenerConfig with all fields set.
func MakeTestFrameStreamListenerConfig() FrameStreamListenerConfig {
	return FrameStreamListenerConfig{
		Listen:        "127.0.0.1:7301",
		Path:          "/",
		ServerID:      "test-server",
		TLS:           MakeTestTLSConfig(),
		Enabled:       false,
		EnableHTTP2:   false,
		Observability: false,
	}
}

// MakeTestTLSConfig returns a disabled TLSConfig with all fields set.
func MakeTestTLSConfig() TLSConfig {
	return TLSConfig{
		CertFile: "",
		KeyFile:  "",
		Enabled:  false,
	}
}

// MakeTestPolicyConfig returns a minimal PolicyConfig with all fields set.
func MakeTestPolicyConfig() PolicyConfig {
	return PolicyConfig{
		RateLimiter:           MakeTestRateLimiterConfig(),
		MaxHeaderMessageBytes: DefaultMaxHeaderMessageBytes,
		MaxHeaderTotalBytes:   DefaultMaxHeaderTotalBytes,
		MinTriggerIntervalMS:  DefaultMinTriggerIntervalMS,
		FreezeDurationMS:      DefaultFreezeDurationMS,
		KeepAliveMS:           DefaultKeepAliveMS,
	}
}

// MakeTestRateLimiterConfig returns a minimal RateLimiterConfig with all
// fields set.
func MakeTestRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Backend:           RateLimiterTokenBucket,
		TriggersPerMinute: 600,
	}
}

// MakeTestLoggingConfig returns a minimal LoggingConfig with all fields set.
func MakeTestLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
		Pretty: false,
	}
}

// MakeTestHealthConfig returns a minimal health.Config with all fields set.
func MakeTestHealthConfig() health.Config {
	return health.Config{
		CircuitBreaker: health.CircuitBreakerConfig{
			OpenDurationMS:   30000,
			FailureThreshold: 5,
			HalfOpenProbes:   3,
		},
	}
}

// MakeTestCacheConfig returns a minimal cache.Config with all fields set.
func MakeTestCacheConfig() cache.Config {
	return cache.Config{
		Mode:      cache.ModeDisabled,
		Olric:     cache.DefaultOlricConfig(),
		Ristretto: cache.DefaultRistrettoConfig(),
	}
}

// MakeTestValidationError returns a ValidationError with Errors initialized.
func MakeTestValidationError() *ValidationError {
	return &ValidationError{
		Errors: []string{},
	}
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool {
	return &b
}
