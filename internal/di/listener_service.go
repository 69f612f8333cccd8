package di

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/config"
	"github.com/canberks/riotbroker/internal/observability"
	"github.com/canberks/riotbroker/internal/transport/byteconn"
	"github.com/canberks/riotbroker/internal/transport/wsconn"
)

// loadTLSConfig builds a server-side tls.Config from cfg, or returns nil if
// TLS isn't enabled or incompletely configured.
func loadTLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS cert/key: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

// ByteStreamListenerService wraps the raw TCP riotp300 listener (one
// newline-terminated line per message, no framing layer beyond the wire
// protocol itself).
type ByteStreamListenerService struct {
	Listener *byteconn.Listener
	enabled  bool
}

// NewByteStreamListener binds the byte-stream listener if enabled in
// configuration. When disabled, Listener is nil; the cmd layer checks
// Enabled before starting the accept loop.
func NewByteStreamListener(i do.Injector) (*ByteStreamListenerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	cfg := cfgSvc.Config.Listeners.ByteStream

	if !cfg.Enabled {
		return &ByteStreamListenerService{enabled: false}, nil
	}

	registrySvc := do.MustInvoke[*RegistryService](i)
	policySvc := do.MustInvoke[*PolicyService](i)
	executorSvc := do.MustInvoke[*ExecutorService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)

	tlsCfg, err := loadTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	ln, err := byteconn.Listen(cfg.Listen, tlsCfg, registrySvc.Registry, policySvc.Policy, executorSvc.Executor, cfg.ServerID, loggerSvc.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to bind byte-stream listener: %w", err)
	}

	return &ByteStreamListenerService{Listener: ln, enabled: true}, nil
}

// Enabled reports whether the byte-stream listener is configured on.
func (s *ByteStreamListenerService) Enabled() bool { return s.enabled }

// Shutdown implements do.Shutdowner.
func (s *ByteStreamListenerService) Shutdown() error {
	if s.Listener == nil {
		return nil
	}
	return s.Listener.Close()
}

// FrameStreamListenerService wraps the websocket frame-stream listener.
type FrameStreamListenerService struct {
	Server  *wsconn.Server
	enabled bool
}

// NewFrameStreamListener builds the websocket listener if enabled in
// configuration, mounting the observability handler on the same mux when
// the listener's Observability flag is set.
func NewFrameStreamListener(i do.Injector) (*FrameStreamListenerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	cfg := cfgSvc.Config.Listeners.FrameStream

	if !cfg.Enabled {
		return &FrameStreamListenerService{enabled: false}, nil
	}

	registrySvc := do.MustInvoke[*RegistryService](i)
	policySvc := do.MustInvoke[*PolicyService](i)
	executorSvc := do.MustInvoke[*ExecutorService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)

	var obsHandler *observability.Handler
	if cfg.Observability {
		obsSvc := do.MustInvoke[*ObservabilityService](i)
		obsHandler = obsSvc.Handler
	}

	wsCfg := wsconn.Config{
		Addr:          cfg.Listen,
		Path:          cfg.GetPath(),
		ServerID:      cfg.ServerID,
		EnableHTTP2:   cfg.EnableHTTP2,
		Observability: obsHandler,
	}
	if cfg.TLS.IsEnabled() {
		wsCfg.CertFile = cfg.TLS.CertFile
		wsCfg.KeyFile = cfg.TLS.KeyFile
	}

	srv := wsconn.NewServer(wsCfg, registrySvc.Registry, policySvc.Policy, executorSvc.Executor, loggerSvc.Logger)

	return &FrameStreamListenerService{Server: srv, enabled: true}, nil
}

// Enabled reports whether the frame-stream listener is configured on.
func (s *FrameStreamListenerService) Enabled() bool { return s.enabled }

// Shutdown implements do.Shutdowner.
func (s *FrameStreamListenerService) Shutdown() error {
	if s.Server == nil {
		return nil
	}
	return s.Server.Shutdown(context.Background())
}
