package wsconn

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/canberks/riotbroker/internal/broker"
	"github.com/canberks/riotbroker/internal/observability"
	"github.com/canberks/riotbroker/internal/policy"
)

// Server wraps an http.Server upgrading every request on path to a
// websocket frame-stream connection, grounded on cc-relay's
// internal/proxy/server.go (same timeout rationale, same optional h2c
// cleartext HTTP/2 wrapper) but with the proxy's request handler replaced
// by a websocket upgrade that hands the resulting frame stream straight
// to a new broker.Connection.
type Server struct {
	httpServer *http.Server
	addr       string
	certFile   string
	keyFile    string
}

// Config controls the frame-stream listener.
type Config struct {
	Addr        string
	Path        string // defaults to "/" if empty
	ServerID    string
	EnableHTTP2 bool

	// CertFile/KeyFile, when both set, serve the upgrade endpoint over TLS
	// instead of cleartext; EnableHTTP2's h2c wrapper is skipped in that
	// case since net/http negotiates HTTP/2 over TLS via ALPN on its own.
	CertFile string
	KeyFile  string

	// Observability, if non-nil, mounts /healthz and /metrics on the same
	// listener (SPEC_FULL.md §11.4).
	Observability *observability.Handler
}

// NewServer builds a Server that upgrades every request on cfg.Path to a
// websocket connection and starts a broker.Connection per upgrade.
func NewServer(cfg Config, reg *broker.Registry, pol policy.Policy, exec *broker.Executor, logger *zerolog.Logger) *Server {
	path := cfg.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	var nextID atomic.Uint64
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if logger != nil {
				logger.Debug().Err(err).Msg("frame-stream upgrade failed")
			}
			return
		}

		id := nextID.Add(1)
		connUUID := uuid.NewString()
		var connLogger *zerolog.Logger
		if logger != nil {
			sub := logger.With().
				Uint64("conn_id", id).
				Str("conn_uuid", connUUID).
				Str("remote_addr", r.RemoteAddr).
				Logger()
			connLogger = &sub
		}

		transport := New(ws)
		conn := broker.NewConnection(id, cfg.ServerID, transport, reg, pol, exec, false, connLogger)
		conn.Start()
	})

	if cfg.Observability != nil {
		cfg.Observability.Register(mux)
	}

	tlsEnabled := cfg.CertFile != "" && cfg.KeyFile != ""

	finalHandler := http.Handler(mux)
	if cfg.EnableHTTP2 && !tlsEnabled {
		h2s := &http2.Server{}
		finalHandler = h2c.NewHandler(mux, h2s)
	}

	return &Server{
		addr:     cfg.Addr,
		certFile: cfg.CertFile,
		keyFile:  cfg.KeyFile,
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      finalHandler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // frame-stream connections are long-lived by design
			IdleTimeout:  120 * time.Second,
		},
	}
}

// ListenAndServe starts the server (blocks), serving over TLS when the
// server was configured with a cert/key pair.
func (s *Server) ListenAndServe() error {
	if s.certFile != "" && s.keyFile != "" {
		return s.httpServer.ListenAndServeTLS(s.certFile, s.keyFile)
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
