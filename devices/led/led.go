// Package led implements the Led actuator: a digital or PWM pin driven as
// a brightness value. Grounded in the source project's
// devices/output/led.rs (turn_on/turn_off/toggle/blink/pulse) generalized
// to the iofacade.IO contract instead of a single hardcoded protocol.
package led

import (
	"sync"

	"github.com/periph-dev/boardkit/anim"
	"github.com/periph-dev/boardkit/device"
	"github.com/periph-dev/boardkit/easing"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/state"
)

// FullBrightness is the analog value Led.TurnOn and Led.Pulse animate
// towards.
const FullBrightness = 0xFF

// Led drives a single pin as a brightness value: OUTPUT mode gives it two
// levels (0/255), PWM mode gives it the full resolution range.
type Led struct {
	anim.Animator

	io  iofacade.IO
	pin uint16

	mu         sync.Mutex
	current    state.State
	def        state.State
	brightness uint16
}

// New attaches a Led to pin. pwm selects PWM mode (dimmable) over plain
// OUTPUT mode (on/off only); callers decide based on what the board's pin
// table reports as supported, mirroring the capability check the source
// project performs before attaching.
func New(io iofacade.IO, pin uint16, pwm bool, defaultOn bool) (*Led, error) {
	mode := iofacade.ModeOutput
	if pwm {
		mode = iofacade.ModePWM
	}
	if err := io.SetPinMode(pin, mode); err != nil {
		return nil, err
	}

	def := state.Integer(0)
	if defaultOn {
		def = state.Integer(FullBrightness)
	}

	l := &Led{io: io, pin: pin, def: def, brightness: FullBrightness}
	if _, err := l.Reset(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Led) Pin() uint16 { return l.pin }

// GetState returns the LED's current brightness.
func (l *Led) GetState() state.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Led) GetDefault() state.State { return l.def }

// SetState writes value to the pin and records it as current. Boolean
// states coerce to 0/brightness so keyframes authored as on/off (Blink)
// and ones authored as brightness levels (Pulse, Animate) both work.
func (l *Led) SetState(s state.State) (state.State, error) {
	var value uint16
	if s.Kind() == state.KindBool {
		if s.AsBool() {
			value = l.brightness
		}
	} else {
		v := s.AsInteger()
		if v > 0xFFFF {
			v = 0xFFFF
		}
		value = uint16(v)
	}

	if err := l.io.AnalogWrite(l.pin, value); err != nil {
		return state.State{}, err
	}

	l.mu.Lock()
	l.current = state.Integer(uint64(value))
	l.mu.Unlock()
	return l.current, nil
}

func (l *Led) Reset() (state.State, error) {
	return l.SetState(l.def)
}

func (l *Led) ScaleState(previous, target state.State, progress float64) state.State {
	return device.ScaleState(previous, target, progress)
}

// TurnOn sets the LED to full brightness.
func (l *Led) TurnOn() error {
	_, err := l.SetState(state.Integer(uint64(l.brightness)))
	return err
}

// TurnOff turns the LED off.
func (l *Led) TurnOff() error {
	_, err := l.SetState(state.Integer(0))
	return err
}

// IsOn reports whether the LED's current brightness is non-zero.
func (l *Led) IsOn() bool {
	return l.GetState().AsInteger() > 0
}

// Toggle flips the LED's on/off state.
func (l *Led) Toggle() error {
	if l.IsOn() {
		return l.TurnOff()
	}
	return l.TurnOn()
}

// SetBrightness changes the value TurnOn/blink/pulse animate towards.
func (l *Led) SetBrightness(v uint16) {
	l.brightness = v
}

// Blink toggles the LED fully on then fully off in phases of ms, looping
// until Stop is called.
func (l *Led) Blink(ms uint64) {
	l.Animator.Repeat(l, state.Bool(true), state.Bool(false), ms, easing.Linear)
}

// Pulse fades the LED's brightness up then down in phases of ms, looping
// until Stop is called.
func (l *Led) Pulse(ms uint64) {
	l.Animator.Repeat(l, state.Integer(uint64(l.brightness)), state.Integer(0), ms, easing.Linear)
}
