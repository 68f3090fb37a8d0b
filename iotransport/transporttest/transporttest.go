// Package transporttest provides an in-memory Transport fake: a recorder
// for outbound bytes plus a scriptable inbound queue, so codec and device
// tests never touch real hardware.
package transporttest

import (
	"sync"
	"time"

	"github.com/periph-dev/boardkit/ioerrors"
)

// Transport is a goroutine-safe fake: Feed queues bytes to be returned by
// ReadExact in order; Written records everything passed to Write.
type Transport struct {
	mu      sync.Mutex
	opened  bool
	inbound []byte
	written []byte
	timeout time.Duration
}

func New() *Transport {
	return &Transport{}
}

// Feed appends bytes to the inbound queue consumed by ReadExact.
func (t *Transport) Feed(data ...byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inbound = append(t.inbound, data...)
}

// Written returns a copy of every byte handed to Write so far.
func (t *Transport) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.written))
	copy(out, t.written)
	return out
}

// ResetWritten clears the outbound recording (keeps the inbound queue).
func (t *Transport) ResetWritten() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.written = nil
}

func (t *Transport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opened = true
	return nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opened = false
	return nil
}

func (t *Transport) SetReadTimeout(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = d
	return nil
}

func (t *Transport) Write(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.opened {
		return ioerrors.NewNotInitialized("write")
	}
	t.written = append(t.written, p...)
	return nil
}

func (t *Transport) ReadExact(buf []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.opened {
		return ioerrors.NewNotInitialized("read_exact")
	}
	if len(t.inbound) < len(buf) {
		return ioerrors.NewIOError("read_exact", errShortBuffer)
	}
	copy(buf, t.inbound[:len(buf)])
	t.inbound = t.inbound[len(buf):]
	return nil
}

// Pending reports how many unread inbound bytes remain.
func (t *Transport) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inbound)
}

type shortBufferError struct{}

func (shortBufferError) Error() string { return "transporttest: not enough fed bytes" }

var errShortBuffer = shortBufferError{}
