// Package digitalin implements DigitalInput: a polled digital sensor pin,
// reporting change/high/low events. Grounded in the source project's
// devices/input/digital.rs.
package digitalin

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

// Event topics emitted on DigitalInput.On.
const (
	EventChange = "change"
	EventHigh   = "high"
	EventLow    = "low"
)

// PollInterval bounds how often the sensor's pin is sampled.
const PollInterval = 100 * time.Millisecond

// DigitalInput reads a digital pin and raises change/high/low events on
// value change.
type DigitalInput struct {
	io  iofacade.IO
	pin uint16

	events *event.Bus

	mu      sync.Mutex
	value   bool
	running bool
	handler task.Handle
}

// New attaches a DigitalInput to pin, putting it into INPUT mode and
// enabling digital reporting for it.
func New(io iofacade.IO, pin uint16) (*DigitalInput, error) {
	if err := io.SetPinMode(pin, iofacade.ModeInput); err != nil {
		return nil, err
	}
	if err := io.ReportDigital(pin, true); err != nil {
		return nil, err
	}
	initial, err := io.DigitalRead(pin)
	if err != nil {
		return nil, err
	}
	d := &DigitalInput{io: io, pin: pin, events: event.New(), value: initial != 0}
	d.Attach()
	return d, nil
}

func (d *DigitalInput) Pin() uint16 { return d.pin }

// On registers a callback for a DigitalInput event topic.
func (d *DigitalInput) On(topic string, fn func(bool)) event.Handle {
	return event.On(d.events, topic, fn)
}

// GetState returns the sensor's last sampled value.
func (d *DigitalInput) GetState() state.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return state.Bool(d.value)
}

// Attach (re)starts the polling task; a no-op if already running.
func (d *DigitalInput) Attach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.handler = task.Run(d.poll)
}

// Detach stops the polling task.
func (d *DigitalInput) Detach() {
	d.mu.Lock()
	h := d.handler
	d.mu.Unlock()
	h.Abort()
}

func (d *DigitalInput) poll(ctx context.Context) error {
	d.mu.Lock()
	d.running = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		raw, err := d.io.DigitalRead(d.pin)
		if err != nil {
			return err
		}
		v := raw != 0

		d.mu.Lock()
		changed := v != d.value
		if changed {
			d.value = v
		}
		d.mu.Unlock()

		if changed {
			d.events.Emit(EventChange, v)
			if v {
				d.events.Emit(EventHigh, true)
			} else {
				d.events.Emit(EventLow, false)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(PollInterval):
		}
	}
}

func (d *DigitalInput) String() string {
	return fmt.Sprintf("DigitalInput (pin=%d) [state=%v]", d.pin, d.GetState().AsBool())
}
