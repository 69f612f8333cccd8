package byteconn

import (
	"crypto/tls"
	"net"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/canberks/riotbroker/internal/broker"
	"github.com/canberks/riotbroker/internal/policy"
)

// Listener accepts TCP connections and turns each one into a running
// broker.Connection, grounded on cc-relay's proxy/server.go listener
// construction but collapsed to the broker's blocking-transport model
// instead of net/http's request/response cycle.
type Listener struct {
	ln       net.Listener
	registry *broker.Registry
	policy   policy.Policy
	exec     *broker.Executor
	serverID string
	logger   *zerolog.Logger

	nextID atomic.Uint64
}

// Listen binds addr and returns a Listener ready to Serve. When tlsCfg is
// non-nil, accepted sockets are wrapped in a TLS server handshake before any
// riotp300 bytes are read.
func Listen(addr string, tlsCfg *tls.Config, reg *broker.Registry, pol policy.Policy, exec *broker.Executor, serverID string, logger *zerolog.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		ln = tls.NewListener(ln, tlsCfg)
	}
	return &Listener{ln: ln, registry: reg, policy: pol, exec: exec, serverID: serverID, logger: logger}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Serve accepts connections until the listener is closed, starting one
// broker.Connection per accepted socket. It always returns a non-nil
// error (net.Listener.Accept's contract) once accepting stops.
func (l *Listener) Serve() error {
	for {
		netConn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		l.handle(netConn)
	}
}

func (l *Listener) handle(netConn net.Conn) {
	id := l.nextID.Add(1)
	connUUID := uuid.NewString()

	var connLogger *zerolog.Logger
	if l.logger != nil {
		sub := l.logger.With().
			Uint64("conn_id", id).
			Str("conn_uuid", connUUID).
			Str("remote_addr", netConn.RemoteAddr().String()).
			Logger()
		connLogger = &sub
	}

	transport := New(netConn)
	conn := broker.NewConnection(id, l.serverID, transport, l.registry, l.policy, l.exec, true, connLogger)
	conn.Start()
}
