// Package config provides configuration loading and parsing for riot-broker.
package config

import (
	"strings"
	"time"

	"github.com/canberks/riotbroker/internal/cache"
	"github.com/canberks/riotbroker/internal/health"
	"github.com/rs/zerolog"
)

// RuntimeConfig defines the interface for accessing runtime configuration that supports hot-reload.
// Components that need to observe config changes should use this interface instead of
// holding a direct *Config pointer, which would become stale after hot-reload.
//
// Usage pattern:
//
//	func (p *DefaultPolicy) MinimumTimeBetweenTriggers(conn ConnectionInfo) time.Duration {
//		cfg := p.runtime.Get()
//		return cfg.Policy.GetMinTriggerInterval()
//	}
type RuntimeConfig interface {
	Get() *Config
}

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config represents the complete riot-broker configuration.
type Config struct {
	Listeners ListenersConfig `yaml:"listeners" toml:"listeners"`
	Logging   LoggingConfig   `yaml:"logging"   toml:"logging"`
	Policy    PolicyConfig    `yaml:"policy"    toml:"policy"`
	Cache     cache.Config    `yaml:"cache"     toml:"cache"`
	Health    health.Config   `yaml:"health"    toml:"health"`
}

// ListenersConfig binds the two transports spec.md §3 names.
type ListenersConfig struct {
	ByteStream  ByteStreamListenerConfig  `yaml:"byte_stream"  toml:"byte_stream"`
	FrameStream FrameStreamListenerConfig `yaml:"frame_stream" toml:"frame_stream"`
}

// TLSConfig configures optional TLS for a listener.
type TLSConfig struct {
	CertFile string `yaml:"cert_file" toml:"cert_file"`
	KeyFile  string `yaml:"key_file"  toml:"key_file"`
	Enabled  bool   `yaml:"enabled"   toml:"enabled"`
}

// IsEnabled reports whether TLS is both enabled and has cert/key paths set.
func (t *TLSConfig) IsEnabled() bool {
	return t.Enabled && t.CertFile != "" && t.KeyFile != ""
}

// ByteStreamListenerConfig binds the line-oriented byte-stream transport
// (internal/transport/byteconn).
type ByteStreamListenerConfig struct {
	Listen   string    `yaml:"listen"  toml:"listen"`
	ServerID string    `yaml:"server_id" toml:"server_id"`
	TLS      TLSConfig `yaml:"tls"     toml:"tls"`
	Enabled  bool      `yaml:"enabled" toml:"enabled"`
}

// FrameStreamListenerConfig binds the websocket frame-stream transport
// (internal/transport/wsconn), plus the observability endpoint served
// alongside it on the same listener.
type FrameStreamListenerConfig struct {
	Listen      string    `yaml:"listen"       toml:"listen"`
	Path        string    `yaml:"path"         toml:"path"`
	ServerID    string    `yaml:"server_id"    toml:"server_id"`
	TLS         TLSConfig `yaml:"tls"          toml:"tls"`
	Enabled     bool      `yaml:"enabled"      toml:"enabled"`
	EnableHTTP2 bool      `yaml:"enable_http2" toml:"enable_http2"`
	Observability bool    `yaml:"observability" toml:"observability"`
}

// GetPath returns Path with a default of "/".
func (f *FrameStreamListenerConfig) GetPath() string {
	if f.Path == "" {
		return "/"
	}
	return f.Path
}

// PolicyConfig configures internal/policy.DefaultPolicy's limits.
type PolicyConfig struct {
	RateLimiter           RateLimiterConfig `yaml:"rate_limiter"              toml:"rate_limiter"`
	MaxHeaderMessageBytes uint64            `yaml:"max_header_message_bytes"  toml:"max_header_message_bytes"`
	MaxHeaderTotalBytes   uint64            `yaml:"max_header_total_bytes"    toml:"max_header_total_bytes"`
	MinTriggerIntervalMS  int               `yaml:"min_trigger_interval_ms"   toml:"min_trigger_interval_ms"`
	FreezeDurationMS      int               `yaml:"freeze_duration_ms"        toml:"freeze_duration_ms"`
	KeepAliveMS           int               `yaml:"keep_alive_ms"             toml:"keep_alive_ms"`
}

// Default policy limits, used whenever the corresponding field is zero.
const (
	DefaultMaxHeaderMessageBytes = 4096
	DefaultMaxHeaderTotalBytes   = 65536
	DefaultMinTriggerIntervalMS  = 10
	DefaultFreezeDurationMS      = 30000
	DefaultKeepAliveMS           = 60000
)

// GetHeaderMessageMaxBytes returns MaxHeaderMessageBytes with a 4KiB default.
func (p *PolicyConfig) GetHeaderMessageMaxBytes() uint64 {
	if p.MaxHeaderMessageBytes == 0 {
		return DefaultMaxHeaderMessageBytes
	}
	return p.MaxHeaderMessageBytes
}

// GetHeaderTotalMaxBytes returns MaxHeaderTotalBytes with a 64KiB default.
func (p *PolicyConfig) GetHeaderTotalMaxBytes() uint64 {
	if p.MaxHeaderTotalBytes == 0 {
		return DefaultMaxHeaderTotalBytes
	}
	return p.MaxHeaderTotalBytes
}

// GetMinTriggerInterval returns MinTriggerIntervalMS as a Duration, with a
// 10ms default.
func (p *PolicyConfig) GetMinTriggerInterval() time.Duration {
	if p.MinTriggerIntervalMS <= 0 {
		return DefaultMinTriggerIntervalMS * time.Millisecond
	}
	return time.Duration(p.MinTriggerIntervalMS) * time.Millisecond
}

// GetFreezeDuration returns FreezeDurationMS as a Duration, with a 30s
// default.
func (p *PolicyConfig) GetFreezeDuration() time.Duration {
	if p.FreezeDurationMS <= 0 {
		return DefaultFreezeDurationMS * time.Millisecond
	}
	return time.Duration(p.FreezeDurationMS) * time.Millisecond
}

// GetKeepAlivePeriod returns KeepAliveMS as a Duration, with a 60s default.
func (p *PolicyConfig) GetKeepAlivePeriod() time.Duration {
	if p.KeepAliveMS <= 0 {
		return DefaultKeepAliveMS * time.Millisecond
	}
	return time.Duration(p.KeepAliveMS) * time.Millisecond
}

// Rate limiter backend names, selecting between internal/ratelimit's two
// implementations.
const (
	RateLimiterTokenBucket = "token_bucket"
	RateLimiterRONative    = "ro_native"
)

// RateLimiterConfig selects and sizes the per-connection trigger-rate
// limiter (internal/ratelimit.TokenBucketLimiter or the samber/ro-backed
// alternative).
type RateLimiterConfig struct {
	Backend           string `yaml:"backend"             toml:"backend"`
	TriggersPerMinute int    `yaml:"triggers_per_minute" toml:"triggers_per_minute"`
}

// GetEffectiveBackend returns Backend with RateLimiterTokenBucket as the
// default.
func (r *RateLimiterConfig) GetEffectiveBackend() string {
	if r.Backend == "" {
		return RateLimiterTokenBucket
	}
	return r.Backend
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"  toml:"level"`  // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json, console
	Output string `yaml:"output" toml:"output"` // stdout, stderr, or file path
	Pretty bool   `yaml:"pretty" toml:"pretty"` // enable colored console output
}

// ParseLevel converts a string log level to zerolog.Level.
// Returns zerolog.InfoLevel if the level string is invalid.
func (l *LoggingConfig) ParseLevel() zerolog.Level {
	switch strings.ToLower(l.Level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
