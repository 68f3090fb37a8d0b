// Package analogin implements AnalogInput: a polled analog sensor pin.
// Grounded in the source project's devices/input/analog.rs.
package analogin

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

// EventChange is emitted with the pin's new raw value whenever it changes.
const EventChange = "change"

// PollInterval bounds how often the sensor's pin is sampled.
const PollInterval = 100 * time.Millisecond

// AnalogInput reads an analog pin and raises a change event on value
// change.
type AnalogInput struct {
	io  iofacade.IO
	pin uint16

	events *event.Bus

	mu      sync.Mutex
	value   uint16
	running bool
	handler task.Handle
}

// New attaches an AnalogInput to pin, putting it into ANALOG mode.
func New(io iofacade.IO, pin uint16) (*AnalogInput, error) {
	if err := io.SetPinMode(pin, iofacade.ModeAnalog); err != nil {
		return nil, err
	}
	initial, err := io.AnalogRead(pin)
	if err != nil {
		return nil, err
	}
	a := &AnalogInput{io: io, pin: pin, events: event.New(), value: initial}
	a.Attach()
	return a, nil
}

func (a *AnalogInput) Pin() uint16 { return a.pin }

// On registers a callback for an AnalogInput event topic.
func (a *AnalogInput) On(topic string, fn func(uint16)) event.Handle {
	return event.On(a.events, topic, fn)
}

// GetState returns the sensor's last sampled raw value.
func (a *AnalogInput) GetState() state.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return state.Integer(uint64(a.value))
}

// Attach (re)starts the polling task; a no-op if already running.
func (a *AnalogInput) Attach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.handler = task.Run(a.poll)
}

// Detach stops the polling task.
func (a *AnalogInput) Detach() {
	a.mu.Lock()
	h := a.handler
	a.mu.Unlock()
	h.Abort()
}

func (a *AnalogInput) poll(ctx context.Context) error {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		v, err := a.io.AnalogRead(a.pin)
		if err != nil {
			return err
		}

		a.mu.Lock()
		changed := v != a.value
		if changed {
			a.value = v
		}
		a.mu.Unlock()

		if changed {
			a.events.Emit(EventChange, v)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(PollInterval):
		}
	}
}

func (a *AnalogInput) String() string {
	return fmt.Sprintf("AnalogInput (pin=%d) [state=%d]", a.pin, a.GetState().AsInteger())
}
