// Package board owns the lifecycle of a connected I/O Facade: it opens the
// underlying transport and protocol handshake in the background, emits
// "ready" once the handshake completes, and emits "close" once the
// connection has been torn down. Grounded in the source project's
// hardware/board.rs Board type (the open()/blocking_open()/close() split,
// and emitting "ready"/"close" through its own event manager).
package board

import (
	"context"
	"sync"
	"time"

	"github.com/periph-dev/boardkit/event"
	"github.com/periph-dev/boardkit/firmata"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/iotransport/serialport"
	"github.com/periph-dev/boardkit/task"
)

// settleDelay is a pause taken after io.Open returns (for firmata.Protocol,
// after the handshake has completed) and before the board reports ready.
const settleDelay = 200 * time.Millisecond

// Config is the functional-option bag consumed by New.
type Config struct {
	io             iofacade.IO
	portName       string
	baud           int
	samplingMillis uint16
	hasSamplingOpt bool
}

// Option configures a Board at construction time.
type Option func(*Config)

// WithTransport installs an already-constructed I/O Facade (e.g. a
// pca9685.Driver layered on an already-open firmata.Protocol), bypassing
// the default serial+Firmata wiring entirely.
func WithTransport(io iofacade.IO) Option {
	return func(c *Config) { c.io = io }
}

// WithBaud overrides the default serial baud rate used when no explicit
// transport was supplied via WithTransport.
func WithBaud(baud int) Option {
	return func(c *Config) { c.baud = baud }
}

// WithReadTimeout is accepted for forward compatibility with transports
// that expose a configurable read timeout; the default serial transport
// applies its own fixed timeout internally.
func WithReadTimeout(time.Duration) Option {
	return func(c *Config) {}
}

// WithSamplingInterval sets the analog sampling interval applied right
// after a successful handshake.
func WithSamplingInterval(ms uint16) Option {
	return func(c *Config) {
		c.samplingMillis = ms
		c.hasSamplingOpt = true
	}
}

// Board owns a single I/O Facade connection plus the event bus devices
// subscribe to for readiness and teardown notifications.
type Board struct {
	events *event.Bus
	io     iofacade.IO

	samplingMillis uint16
	hasSamplingOpt bool

	mu        sync.RWMutex
	connected bool
}

// New constructs a Board that will talk Firmata over a serial port named
// portName, unless WithTransport supplies a different I/O Facade.
func New(portName string, opts ...Option) *Board {
	cfg := &Config{portName: portName, baud: serialport.DefaultBaud}
	for _, opt := range opts {
		opt(cfg)
	}

	io := cfg.io
	if io == nil {
		transport := serialport.New(cfg.portName, serialport.WithBaud(cfg.baud))
		io = firmata.New(transport)
	}

	return &Board{
		events:         event.New(),
		io:             io,
		samplingMillis: cfg.samplingMillis,
		hasSamplingOpt: cfg.hasSamplingOpt,
	}
}

// On registers fn to run whenever topic is emitted ("ready" or "close").
func On[T any](b *Board, topic string, fn func(T)) event.Handle {
	return event.On(b.events, topic, fn)
}

// IO exposes the underlying facade so device adapters can bind to it.
func (b *Board) IO() iofacade.IO {
	return b.io
}

// IsConnected reports whether the handshake has completed and no Close has
// run since.
func (b *Board) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

// Open starts the connection procedure in the background and returns
// immediately; the board cannot be considered connected until the "ready"
// event fires. Mirrors the source project's async Board::open().
func (b *Board) Open() *Board {
	task.Run(func(ctx context.Context) error {
		return b.blockingOpen(ctx)
	})
	return b
}

// BlockingOpen runs the connection procedure synchronously and returns once
// the handshake has completed (or failed).
func (b *Board) BlockingOpen() error {
	return b.blockingOpen(context.Background())
}

func (b *Board) blockingOpen(ctx context.Context) error {
	if err := b.io.Open(); err != nil {
		return err
	}

	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if b.hasSamplingOpt {
		if err := b.io.SamplingInterval(b.samplingMillis); err != nil {
			return err
		}
	}

	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()

	b.events.Emit("ready", b)
	return nil
}

// Close tears down the connection and emits "close".
func (b *Board) Close() error {
	err := b.io.Close()

	b.mu.Lock()
	b.connected = false
	b.mu.Unlock()

	b.events.Emit("close", b)
	return err
}
