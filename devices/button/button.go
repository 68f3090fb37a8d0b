// Package button implements Button: a digital input polled for change,
// reporting press/release semantics for both pull-down and pull-up wiring.
// Grounded in the source project's devices/input/button.rs.
package button

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/periph-dev/boardkit/event"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/state"
	"github.com/periph-dev/boardkit/task"
)

// Event topics emitted on Button.On.
const (
	EventChange  = "change"
	EventPress   = "press"
	EventRelease = "release"
)

// PollInterval bounds how often the button's pin is sampled; it also acts
// as a simple debounce window.
const PollInterval = 100 * time.Millisecond

// Button reads a digital pin and raises press/release events on change.
type Button struct {
	io     iofacade.IO
	pin    uint16
	invert bool
	pullup bool

	events *event.Bus

	mu      sync.Mutex
	state   bool
	running bool
	handler task.Handle
}

// New attaches a pull-down button: pressed reads HIGH.
func New(io iofacade.IO, pin uint16) (*Button, error) {
	return newButton(io, pin, false, false)
}

// NewInverted attaches a pull-down button whose logical value is inverted:
// pressed reads HIGH but reports logical false.
func NewInverted(io iofacade.IO, pin uint16) (*Button, error) {
	return newButton(io, pin, true, false)
}

// NewPullup attaches a pull-up button: pressed reads LOW.
func NewPullup(io iofacade.IO, pin uint16) (*Button, error) {
	return newButton(io, pin, false, true)
}

// NewInvertedPullup attaches a pull-up button whose logical value is
// inverted, equivalent in logical terms to a pull-down button.
func NewInvertedPullup(io iofacade.IO, pin uint16) (*Button, error) {
	return newButton(io, pin, true, true)
}

func newButton(io iofacade.IO, pin uint16, invert, pullup bool) (*Button, error) {
	mode := iofacade.ModeInput
	if pullup {
		mode = iofacade.ModePullup
	}
	if err := io.SetPinMode(pin, mode); err != nil {
		return nil, err
	}
	if err := io.ReportDigital(pin, true); err != nil {
		return nil, err
	}

	initial, err := io.DigitalRead(pin)
	if err != nil {
		return nil, err
	}

	b := &Button{
		io:     io,
		pin:    pin,
		invert: invert,
		pullup: pullup,
		events: event.New(),
		state:  initial != 0,
	}
	b.Attach()
	return b, nil
}

func (b *Button) Pin() uint16      { return b.pin }
func (b *Button) IsPullup() bool   { return b.pullup }
func (b *Button) IsInverted() bool { return b.invert }

// On registers a callback for a Button event topic.
func (b *Button) On(topic string, fn func(bool)) event.Handle {
	return event.On(b.events, topic, fn)
}

// GetState returns the button's logical value, with inversion applied.
func (b *Button) GetState() state.State {
	b.mu.Lock()
	raw := b.state
	b.mu.Unlock()
	if b.invert {
		raw = !raw
	}
	return state.Bool(raw)
}

// Attach (re)starts the polling task; a no-op if already running.
func (b *Button) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}
	b.handler = task.Run(b.poll)
}

// Detach stops the polling task; the button no longer reacts to pin
// changes until Attach is called again.
func (b *Button) Detach() {
	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()
	h.Abort()
}

func (b *Button) poll(ctx context.Context) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		raw, err := b.io.DigitalRead(b.pin)
		if err != nil {
			return err
		}
		pinValue := raw != 0

		b.mu.Lock()
		changed := pinValue != b.state
		if changed {
			b.state = pinValue
		}
		b.mu.Unlock()

		if changed {
			logical := pinValue
			if b.invert {
				logical = !logical
			}
			b.events.Emit(EventChange, logical)

			pressed := pinValue
			if b.pullup {
				pressed = !pinValue
			}
			if pressed {
				b.events.Emit(EventPress, true)
			} else {
				b.events.Emit(EventRelease, false)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(PollInterval):
		}
	}
}

func (b *Button) String() string {
	return fmt.Sprintf("Button (pin=%d) [state=%v, pullup=%v, inverted=%v]",
		b.pin, b.GetState().AsBool(), b.pullup, b.invert)
}
