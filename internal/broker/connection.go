package broker

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/canberks/riotbroker/internal/audit"
	"github.com/canberks/riotbroker/internal/health"
	"github.com/canberks/riotbroker/internal/policy"
	"github.com/canberks/riotbroker/internal/sfe"
)

// ProtocolName is the handshake token a connection must present as its
// very first message (spec.md §6).
const ProtocolName = "riotp300"

type connState int

const (
	stateProtocol connState = iota
	stateProps
	stateActive
)

type writeItem struct {
	data     []byte
	binary   bool
	callback func(ok bool)
}

type readRequest struct {
	binary bool
	size   uint64
}

// Connection is one device's session: the Protocol -> Props -> Active
// state machine, its subscriptions, local storage, and write queue,
// grounded on connection_base.hpp's connection_base<ConnectionManager>.
// Every field below is touched only from the owning Executor goroutine;
// the two per-connection I/O goroutines (read, write) never read or write
// this struct directly, only exchange messages over channels.
type Connection struct {
	ID       uint64
	ServerIDValue string

	registry  *Registry
	policy    policy.Policy
	executor  *Executor
	transport Transport
	logger    *zerolog.Logger
	breaker   *health.CircuitBreaker
	auditSink *audit.Sink

	state      connState
	name       string
	password   string
	groups     []string
	properties map[string][]string

	subscriptions   []Subscription
	localStorage    map[uint64][]byte
	expressionCache map[uint64]sfe.Expr
	storageIDs      *storageIDAllocator

	paused              bool
	echo                bool
	sendTrailingNewline bool

	headerTotalSize uint64
	frozen          bool

	writeQueue []writeItem
	writeJobs  chan writeItem

	readRequests  chan readRequest
	pendingBinary  func(buf []byte)
	pendingMessage func(msg string)

	closed bool
}

// NewConnection constructs a Connection in the initial Protocol state.
// sendTrailingNewline should be true for byte-stream transports and false
// for frame-stream transports (spec.md §3, §6).
func NewConnection(
	id uint64,
	serverID string,
	transport Transport,
	reg *Registry,
	pol policy.Policy,
	exec *Executor,
	sendTrailingNewline bool,
	logger *zerolog.Logger,
) *Connection {
	return &Connection{
		ID:                  id,
		ServerIDValue:       serverID,
		registry:            reg,
		policy:              pol,
		executor:            exec,
		transport:           transport,
		logger:              logger,
		state:               stateProtocol,
		properties:          make(map[string][]string),
		localStorage:        make(map[uint64][]byte),
		expressionCache:     make(map[uint64]sfe.Expr),
		storageIDs:          newStorageIDAllocator(),
		echo:                true,
		sendTrailingNewline: sendTrailingNewline,
		writeJobs:           make(chan writeItem, 1),
		readRequests:        make(chan readRequest, 1),
	}
}

// SetBreaker attaches an optional per-connection circuit breaker. Left
// unset (nil), a connection's policy violations are never escalated
// beyond what the policy itself returns for that single check.
func (c *Connection) SetBreaker(cb *health.CircuitBreaker) {
	c.breaker = cb
}

// SetAuditSink attaches an optional JSON audit log for this connection's
// policy decisions. Left unset (nil), no audit records are produced.
func (c *Connection) SetAuditSink(sink *audit.Sink) {
	c.auditSink = sink
}

// ConnectionInfo implementation, consumed by internal/policy.

func (c *Connection) Name() string     { return c.name }
func (c *Connection) Groups() []string { return c.groups }
func (c *Connection) ServerID() string { return c.ServerIDValue }

// Start arms the initial read and launches the connection's I/O
// goroutines. Must be called once, before the executor starts posting
// tasks for this connection.
func (c *Connection) Start() {
	c.transport.SetMaxMessageSize(c.policy.HeaderMessageMaxSize(c))
	go c.readLoop()
	go c.writeLoop()
	c.armReadMessage()
}

// --- read loop: the only goroutine that calls transport.ReadMessage/ReadBinary ---

func (c *Connection) readLoop() {
	for req := range c.readRequests {
		if req.binary {
			buf := make([]byte, req.size)
			err := c.transport.ReadBinary(buf)
			c.executor.Post(func() { c.onBinaryRead(buf, err) })
		} else {
			msg, err := c.transport.ReadMessage()
			c.executor.Post(func() { c.onMessageRead(msg, err) })
		}
	}
}

func (c *Connection) armReadMessage() {
	c.readRequests <- readRequest{}
}

// armReadMessageFor arms one read-message whose result is delivered to cb
// instead of the ordinary state-machine dispatch. Used by the trigger
// family's line-payload continuation (do_async_read_message in the
// original, as opposed to do_async_read_binary).
func (c *Connection) armReadMessageFor(cb func(msg string)) {
	c.pendingMessage = cb
	c.readRequests <- readRequest{}
}

func (c *Connection) armReadBinary(size uint64, cb func(buf []byte)) {
	c.pendingBinary = cb
	c.readRequests <- readRequest{binary: true, size: size}
}

func (c *Connection) onMessageRead(msg string, err error) {
	if c.closed {
		return
	}
	if err != nil {
		c.teardown()
		return
	}
	if c.pendingMessage != nil {
		cb := c.pendingMessage
		c.pendingMessage = nil
		cb(msg)
		return
	}
	c.handleNextMessage(msg)
}

func (c *Connection) onBinaryRead(buf []byte, err error) {
	if c.closed {
		return
	}
	if err != nil {
		c.teardown()
		return
	}
	cb := c.pendingBinary
	c.pendingBinary = nil
	cb(buf)
}

// --- write loop: the only goroutine that calls transport.Write ---

func (c *Connection) writeLoop() {
	for job := range c.writeJobs {
		err := c.transport.Write(job.data, job.binary)
		c.executor.Post(func() { c.onWriteComplete(err, job.callback) })
	}
}

// enqueueWrite appends data to the FIFO write queue (§4.7). If the queue
// was empty, the write starts immediately; otherwise it simply waits its
// turn. Must only be called from the executor goroutine.
func (c *Connection) enqueueWrite(data []byte, binary bool, callback func(ok bool)) {
	item := writeItem{data: data, binary: binary, callback: callback}
	c.writeQueue = append(c.writeQueue, item)
	if len(c.writeQueue) == 1 {
		c.writeJobs <- item
	}
}

func (c *Connection) onWriteComplete(err error, callback func(ok bool)) {
	if len(c.writeQueue) > 0 {
		c.writeQueue = c.writeQueue[1:]
	}
	ok := err == nil
	if callback != nil {
		callback(ok)
	}
	if ok && len(c.writeQueue) > 0 {
		c.writeJobs <- c.writeQueue[0]
	}
}

// --- outgoing text helpers, grounded on connection_base.hpp's send_* family ---

func (c *Connection) sendRaw(s string) {
	if c.sendTrailingNewline {
		s += "\n"
	}
	c.enqueueWrite([]byte(s), false, nil)
}

// sendText bypasses the echo flag entirely, matching send_text's direct
// use for numbered replies (`ok <n>`) per spec.md §4.5/§6/§12.
func (c *Connection) sendText(s string) {
	c.sendRaw(s)
}

func (c *Connection) sendOK() {
	if c.echo {
		c.sendRaw("ok")
	}
}

func (c *Connection) sendOKWithID(id uint64) {
	c.sendText("ok " + strconv.FormatUint(id, 10))
}

func (c *Connection) sendErrorCode(token string, ec policy.ErrorCode) {
	if !c.echo {
		return
	}
	// zero-padded to the widest decimal value an ErrorCode (uint16) can
	// hold, matching send_error_code's std::setw(numeric_limits::digits10+1).
	c.sendRaw(token + " " + padErrorCode(uint16(ec)))
}

func padErrorCode(ec uint16) string {
	s := strconv.FormatUint(uint64(ec), 10)
	const width = 5 // digits10(uint16) + 1
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func (c *Connection) sendError(ec policy.ErrorCode) {
	c.sendErrorCode("err", ec)
}

func (c *Connection) sendWarning(ec policy.ErrorCode) {
	c.sendErrorCode("warn", ec)
}

func (c *Connection) sendInfo(s string) {
	if c.echo {
		c.sendRaw("info " + s)
	}
}

func (c *Connection) sendProtocol() {
	c.sendInfo(ProtocolName)
}

// --- teardown ---

func (c *Connection) teardown() {
	if c.closed {
		return
	}
	c.closed = true
	c.registry.Remove(c)
	close(c.writeJobs)
	close(c.readRequests)
	_ = c.transport.Close()
}

// Close asks the connection to shut down, mirroring kill_me/do_close.
func (c *Connection) Close() {
	c.teardown()
}

// freeze applies a policy-directed freeze for the duration the policy
// reports for ec. Freeze/block are reserved (spec.md §5): a conforming
// implementation may treat this as a no-op beyond recording the state, and
// riot-broker does exactly that, leaving the hook for a future scheduler
// that actually suspends command processing for the duration.
func (c *Connection) freeze(ec policy.ErrorCode) {
	d := c.policy.FreezeDuration(c, ec)
	if d <= 0 {
		return
	}
	c.frozen = true
	if c.logger != nil {
		c.logger.Debug().Uint64("conn_id", c.ID).Dur("duration", d).Msg("connection frozen (reserved, no-op)")
	}
}
