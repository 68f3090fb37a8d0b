// Package digitalout implements DigitalOutput: a bare on/off digital
// actuator. Grounded in the source project's devices/output/digital.rs.
package digitalout

import (
	"fmt"
	"sync"

	"github.com/periph-dev/boardkit/anim"
	"github.com/periph-dev/boardkit/device"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/state"
)

// DigitalOutput drives a pin HIGH/LOW.
type DigitalOutput struct {
	anim.Animator

	io  iofacade.IO
	pin uint16

	mu      sync.Mutex
	current state.State
	def     state.State
}

// New attaches a DigitalOutput to pin and resets it to defaultOn.
func New(io iofacade.IO, pin uint16, defaultOn bool) (*DigitalOutput, error) {
	if err := io.SetPinMode(pin, iofacade.ModeOutput); err != nil {
		return nil, err
	}
	d := &DigitalOutput{io: io, pin: pin, def: state.Bool(defaultOn)}
	if _, err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DigitalOutput) Pin() uint16 { return d.pin }

func (d *DigitalOutput) GetState() state.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *DigitalOutput) GetDefault() state.State { return d.def }

func (d *DigitalOutput) SetState(s state.State) (state.State, error) {
	var value bool
	if s.Kind() == state.KindBool {
		value = s.AsBool()
	} else {
		value = s.AsInteger() != 0
	}

	if err := d.io.DigitalWrite(d.pin, value); err != nil {
		return state.State{}, err
	}
	result := state.Bool(value)
	d.mu.Lock()
	d.current = result
	d.mu.Unlock()
	return result, nil
}

func (d *DigitalOutput) Reset() (state.State, error) {
	return d.SetState(d.def)
}

func (d *DigitalOutput) ScaleState(previous, target state.State, progress float64) state.State {
	return device.ScaleState(previous, target, progress)
}

// TurnOn drives the pin HIGH.
func (d *DigitalOutput) TurnOn() error {
	_, err := d.SetState(state.Bool(true))
	return err
}

// TurnOff drives the pin LOW.
func (d *DigitalOutput) TurnOff() error {
	_, err := d.SetState(state.Bool(false))
	return err
}

// IsHigh reports whether the output is currently HIGH.
func (d *DigitalOutput) IsHigh() bool {
	return d.GetState().AsBool()
}

// IsLow reports whether the output is currently LOW.
func (d *DigitalOutput) IsLow() bool {
	return !d.IsHigh()
}

// Toggle flips the output's state.
func (d *DigitalOutput) Toggle() error {
	if d.IsHigh() {
		return d.TurnOff()
	}
	return d.TurnOn()
}

func (d *DigitalOutput) String() string {
	return fmt.Sprintf("DigitalOutput (pin=%d) [state=%v, default=%v]",
		d.pin, d.IsHigh(), d.def.AsBool())
}
