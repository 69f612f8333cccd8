// Package broker implements the connection state machine, event dispatch,
// write serializer, and live-connection registry described in SPEC_FULL.md
// §4.5-§4.8. It is transport-agnostic: internal/transport's byte-stream and
// frame-stream adapters satisfy the Transport interface below.
package broker

// Transport is the capability surface a connection needs from its
// underlying byte-stream or frame-stream adapter. It mirrors
// connection_base.hpp's do_async_read_message / do_async_read_binary /
// do_async_write / do_set_async_read_message_max_size / do_close /
// do_block_endpoint virtuals, collapsed into blocking calls: broker drives
// each one from a dedicated per-connection goroutine and posts the result
// back onto the single executor goroutine, rather than threading
// completion callbacks through ASIO.
type Transport interface {
	// ReadMessage blocks for one logical message: a newline-terminated
	// line for byte streams, or a single frame for frame streams. The
	// returned string never includes a trailing newline.
	ReadMessage() (string, error)

	// ReadBinary blocks until buf is filled with exactly len(buf) bytes.
	ReadBinary(buf []byte) error

	// Write sends one logical unit: a line/frame for binary=false, a
	// binary payload for binary=true. On frame-stream transports this
	// distinction selects the frame opcode; on byte streams it is
	// informational only.
	Write(data []byte, binary bool) error

	// SetMaxMessageSize bounds the next ReadMessage calls; zero disables
	// the bound. Used during the header phase and lifted once Active.
	SetMaxMessageSize(n uint64)

	// Close cancels any in-flight read/write and releases the transport.
	Close() error

	// BlockEndpoint asks the transport to refuse further traffic from
	// this endpoint (e.g. at the listener level). Reserved: a conforming
	// transport may treat this as a no-op (spec.md §5).
	BlockEndpoint() error
}
