// Package serialport is the reference Transport implementation: a real
// serial link dialed with github.com/tarm/serial, the same dial pattern
// seedhammer's driver/mjolnir/device.go uses (serial.Config + OpenPort
// kept behind a narrow interface rather than exposed to callers).
package serialport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/periph-dev/boardkit/ioerrors"
)

// DefaultBaud is the Firmata reference baud rate, 8-N-1.
const DefaultBaud = 57600

// Port is a serial.Port-backed Transport.
type Port struct {
	name string
	baud int

	mu   sync.Mutex
	port *serial.Port
}

// Option configures a Port before it is opened.
type Option func(*Port)

// WithBaud overrides DefaultBaud.
func WithBaud(baud int) Option {
	return func(p *Port) { p.baud = baud }
}

// New returns an unopened Port bound to the given device name (e.g.
// "/dev/ttyACM0" or "COM3").
func New(name string, opts ...Option) *Port {
	p := &Port{name: name, baud: DefaultBaud}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Port) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port != nil {
		return nil
	}
	cfg := &serial.Config{Name: p.name, Baud: p.baud, ReadTimeout: 10 * time.Second}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return ioerrors.NewIOError("open", fmt.Errorf("%s: %w", p.name, err))
	}
	p.port = port
	return nil
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	if err != nil {
		return ioerrors.NewIOError("close", err)
	}
	return nil
}

func (p *Port) SetReadTimeout(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port == nil {
		return ioerrors.NewNotInitialized("set_read_timeout")
	}
	// tarm/serial has no live-reconfigure API; reopening with the new
	// timeout is the only portable option across its supported platforms.
	cfg := &serial.Config{Name: p.name, Baud: p.baud, ReadTimeout: d}
	_ = p.port.Close()
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return ioerrors.NewIOError("set_read_timeout", err)
	}
	p.port = port
	return nil
}

func (p *Port) Write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port == nil {
		return ioerrors.NewNotInitialized("write")
	}
	if _, err := p.port.Write(data); err != nil {
		return ioerrors.NewIOError("write", err)
	}
	return nil
}

func (p *Port) ReadExact(buf []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port == nil {
		return ioerrors.NewNotInitialized("read_exact")
	}
	if _, err := io.ReadFull(p.port, buf); err != nil {
		return ioerrors.NewIOError("read_exact", err)
	}
	return nil
}
