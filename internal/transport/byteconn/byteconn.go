// Package byteconn adapts a plain net.Conn (TCP, optionally TLS) into
// broker.Transport for riot-broker's byte-stream listener, grounded on
// cc-relay's internal/proxy/server.go listener-construction style
// (explicit timeouts, plain net/http-adjacent net package use, no
// framework indirection).
package byteconn

import (
	"bufio"
	"io"
	"net"
	"sync"
	"sync/atomic"
)

// Conn wraps a net.Conn as a line-oriented broker.Transport: one logical
// message is one newline-terminated line, matching spec.md §3/§6's
// send_trailing_newline = true byte-stream behavior.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader

	writeMu sync.Mutex

	maxMessageSize atomic.Uint64
	blocked        atomic.Bool
}

// New wraps conn. The returned Conn is ready for use by exactly one reader
// goroutine and one writer goroutine, per broker.Transport's contract.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// ReadMessage reads up to the next newline, stripping it. A line
// exceeding the configured max size is read in full and then rejected
// with io.ErrShortBuffer; ReadMessage itself does not close the
// connection.
func (c *Conn) ReadMessage() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && len(line) == 0 {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	if max := c.maxMessageSize.Load(); max > 0 && uint64(len(line)) > max {
		return "", io.ErrShortBuffer
	}
	return line, err
}

// ReadBinary fills buf with exactly len(buf) bytes.
func (c *Conn) ReadBinary(buf []byte) error {
	_, err := io.ReadFull(c.reader, buf)
	return err
}

// Write sends data followed by a newline. binary is informational only on
// a byte stream - framing is always a trailing newline.
func (c *Conn) Write(data []byte, _ bool) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(data); err != nil {
		return err
	}
	_, err := c.conn.Write([]byte("\n"))
	return err
}

// SetMaxMessageSize bounds subsequent ReadMessage calls; zero disables
// the bound.
func (c *Conn) SetMaxMessageSize(n uint64) {
	c.maxMessageSize.Store(n)
}

// Close closes the underlying net.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// BlockEndpoint marks the remote address as refused going forward. This
// adapter only records the flag (spec.md §5 reserves the behavior); a
// listener wrapping New may consult Blocked to refuse future dials from
// the same address.
func (c *Conn) BlockEndpoint() error {
	c.blocked.Store(true)
	return nil
}

// Blocked reports whether BlockEndpoint was called on this connection.
func (c *Conn) Blocked() bool {
	return c.blocked.Load()
}

// RemoteAddr returns the underlying connection's remote address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
