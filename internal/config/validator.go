// Package config provides configuration loading, parsing, and validation for riot-broker.
package config

import (
	"net"
	"strings"
)

// Valid rate limiter backends.
var validRateLimiterBackends = map[string]bool{
	"":                     true, // Empty defaults to token_bucket
	RateLimiterTokenBucket: true,
	RateLimiterRONative:    true,
}

// Valid logging levels.
var validLogLevels = map[string]bool{
	"":      true, // Empty defaults to info
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Valid logging formats.
var validLogFormats = map[string]bool{
	"":        true, // Empty defaults to json
	"json":    true,
	"console": true,
	"text":    true, // Alias for console
	"pretty":  true,
}

// Validate checks the configuration for errors.
// It validates all required fields, valid values, and cross-field constraints.
// Returns a ValidationError containing all errors found, or nil if valid.
func (c *Config) Validate() error {
	errs := &ValidationError{Errors: nil}

	validateListeners(c, errs)
	validatePolicy(c, errs)
	validateLogging(c, errs)

	return errs.ToError()
}

// validateListeners validates the listeners configuration section. At least
// one of the two transports must be enabled (spec.md §3 - a broker with
// neither listener active can accept no connections at all).
func validateListeners(cfg *Config, errs *ValidationError) {
	bs := cfg.Listeners.ByteStream
	fs := cfg.Listeners.FrameStream

	if !bs.Enabled && !fs.Enabled {
		errs.Add("listeners: at least one of byte_stream or frame_stream must be enabled")
	}

	if bs.Enabled {
		if bs.Listen == "" {
			errs.Add("listeners.byte_stream.listen is required when enabled")
		} else {
			validateListenAddress("listeners.byte_stream.listen", bs.Listen, errs)
		}
		validateTLS("listeners.byte_stream.tls", &bs.TLS, errs)
	}

	if fs.Enabled {
		if fs.Listen == "" {
			errs.Add("listeners.frame_stream.listen is required when enabled")
		} else {
			validateListenAddress("listeners.frame_stream.listen", fs.Listen, errs)
		}
		validateTLS("listeners.frame_stream.tls", &fs.TLS, errs)
	}
}

// validateListenAddress validates a listen address in host:port format.
func validateListenAddress(field, addr string, errs *ValidationError) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		errs.Addf("%s must be in host:port format (got %q)", field, addr)
		return
	}

	if host != "" {
		if ip := net.ParseIP(host); ip == nil {
			if strings.ContainsAny(host, " \t\n") {
				errs.Addf("%s host contains invalid characters", field)
			}
		}
	}

	if port == "" {
		errs.Addf("%s port is required", field)
	}
}

// validateTLS validates an optional TLS block: when enabled, both cert and
// key paths are required.
func validateTLS(field string, tls *TLSConfig, errs *ValidationError) {
	if !tls.Enabled {
		return
	}
	if tls.CertFile == "" {
		errs.Addf("%s.cert_file is required when tls is enabled", field)
	}
	if tls.KeyFile == "" {
		errs.Addf("%s.key_file is required when tls is enabled", field)
	}
}

// validatePolicy validates the policy configuration section.
func validatePolicy(cfg *Config, errs *ValidationError) {
	p := &cfg.Policy

	if p.MinTriggerIntervalMS < 0 {
		errs.Add("policy.min_trigger_interval_ms must be >= 0")
	}
	if p.FreezeDurationMS < 0 {
		errs.Add("policy.freeze_duration_ms must be >= 0")
	}
	if p.KeepAliveMS < 0 {
		errs.Add("policy.keep_alive_ms must be >= 0")
	}

	if p.RateLimiter.Backend != "" && !validRateLimiterBackends[p.RateLimiter.Backend] {
		errs.Addf("policy.rate_limiter.backend is invalid (got %q, valid: token_bucket, ro_native)",
			p.RateLimiter.Backend)
	}
	if p.RateLimiter.TriggersPerMinute < 0 {
		errs.Add("policy.rate_limiter.triggers_per_minute must be >= 0")
	}
}

// validateLogging validates the logging configuration section.
func validateLogging(cfg *Config, errs *ValidationError) {
	if !validLogLevels[cfg.Logging.Level] {
		errs.Addf("logging.level is invalid (got %q, valid: debug, info, warn, error)",
			cfg.Logging.Level)
	}

	if !validLogFormats[cfg.Logging.Format] {
		errs.Addf("logging.format is invalid (got %q, valid: json, console, text, pretty)",
			cfg.Logging.Format)
	}
}
