// Package pwmout implements PwmOutput: a bare PWM actuator exposing the
// raw value/percentage, without the Led's brightness-specific verbs.
// Grounded in the source project's devices/output/pwm.rs.
package pwmout

import (
	"fmt"
	"sync"

	"github.com/periph-dev/boardkit/anim"
	"github.com/periph-dev/boardkit/device"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/state"
)

// MaxValue is the resolution this package assumes for a PWM pin; the
// iofacade.IO contract has no pin-resolution query, so it is fixed at the
// standard 8-bit Firmata PWM ceiling.
const MaxValue = 0xFF

// PwmOutput drives a pin as a raw PWM value in [0, MaxValue].
type PwmOutput struct {
	anim.Animator

	io  iofacade.IO
	pin uint16

	mu      sync.Mutex
	current state.State
	def     state.State
}

// New attaches a PwmOutput to pin and resets it to defaultValue.
func New(io iofacade.IO, pin uint16, defaultValue uint16) (*PwmOutput, error) {
	if err := io.SetPinMode(pin, iofacade.ModePWM); err != nil {
		return nil, err
	}
	p := &PwmOutput{io: io, pin: pin, def: state.Integer(uint64(defaultValue))}
	if _, err := p.Reset(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PwmOutput) Pin() uint16 { return p.pin }

func (p *PwmOutput) GetState() state.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *PwmOutput) GetDefault() state.State { return p.def }

// SetValue writes a raw PWM value, clamped to [0, MaxValue].
func (p *PwmOutput) SetValue(value uint16) error {
	if value > MaxValue {
		value = MaxValue
	}
	_, err := p.SetState(state.Integer(uint64(value)))
	return err
}

// SetPercentage writes a PWM value as a percentage of MaxValue; values
// above 100 are treated as 100.
func (p *PwmOutput) SetPercentage(percentage uint8) error {
	if percentage > 100 {
		percentage = 100
	}
	value := uint16(percentage) * uint16(MaxValue) / 100
	_, err := p.SetState(state.Integer(uint64(value)))
	return err
}

// GetValue returns the current raw PWM value.
func (p *PwmOutput) GetValue() uint16 {
	return uint16(p.GetState().AsInteger())
}

// GetPercentage returns the current value as a percentage of MaxValue.
func (p *PwmOutput) GetPercentage() uint8 {
	return uint8((p.GetValue()*100 + MaxValue/2) / MaxValue)
}

func (p *PwmOutput) SetState(s state.State) (state.State, error) {
	v := uint16(s.AsInteger())
	if err := p.io.AnalogWrite(p.pin, v); err != nil {
		return state.State{}, err
	}
	result := state.Integer(uint64(v))
	p.mu.Lock()
	p.current = result
	p.mu.Unlock()
	return result, nil
}

func (p *PwmOutput) Reset() (state.State, error) {
	return p.SetState(p.def)
}

func (p *PwmOutput) ScaleState(previous, target state.State, progress float64) state.State {
	return device.ScaleState(previous, target, progress)
}

func (p *PwmOutput) String() string {
	return fmt.Sprintf("PwmOutput (pin=%d) [state=%d (%d%%), default=%d]",
		p.pin, p.GetValue(), p.GetPercentage(), p.def.AsInteger())
}
