package broker

import (
	"io"
	"sync"
)

// fakeTransport is a Transport double driven by a test: lines/binaries are
// fed in by the test and consumed by Connection.readLoop; writes are
// captured for assertion.
type fakeTransport struct {
	lines     chan string
	binaries  chan []byte
	writes    chan writeRecord
	maxMsg    uint64
	blocked   bool
	closeOnce sync.Once
	closed    chan struct{}
}

type writeRecord struct {
	data   []byte
	binary bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		lines:    make(chan string, 32),
		binaries: make(chan []byte, 32),
		writes:   make(chan writeRecord, 64),
		closed:   make(chan struct{}),
	}
}

func (f *fakeTransport) feedLine(s string) { f.lines <- s }
func (f *fakeTransport) feedBinary(b []byte) { f.binaries <- b }

func (f *fakeTransport) ReadMessage() (string, error) {
	select {
	case s, ok := <-f.lines:
		if !ok {
			return "", io.EOF
		}
		return s, nil
	case <-f.closed:
		return "", io.EOF
	}
}

func (f *fakeTransport) ReadBinary(buf []byte) error {
	select {
	case b, ok := <-f.binaries:
		if !ok {
			return io.EOF
		}
		copy(buf, b)
		return nil
	case <-f.closed:
		return io.EOF
	}
}

func (f *fakeTransport) Write(data []byte, binary bool) error {
	cp := append([]byte{}, data...)
	f.writes <- writeRecord{data: cp, binary: binary}
	return nil
}

func (f *fakeTransport) SetMaxMessageSize(n uint64) { f.maxMsg = n }

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) BlockEndpoint() error {
	f.blocked = true
	return nil
}

// nextWrite blocks until the next captured write arrives; it has no
// timeout of its own (the caller is expected to apply one where that
// matters; kept simple here since every write here is posted promptly by
// a single-buffered executor).
func (f *fakeTransport) nextWrite() writeRecord {
	return <-f.writes
}
