// Package servo implements the Servo actuator: a PWM pin whose analog
// write value is a pulse width (microseconds) linearly remapped from the
// degree range; the motion range only clamps the requested angle. Grounded in the source project's
// devices/output/servo.rs, generalized to the iofacade.IO contract.
package servo

import (
	"context"
	"sync"
	"time"

	"github.com/periph-dev/boardkit/anim"
	"github.com/periph-dev/boardkit/device"
	"github.com/periph-dev/boardkit/easing"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/scale"
	"github.com/periph-dev/boardkit/state"
	"github.com/periph-dev/boardkit/task"
)

// DefaultDetachDelay matches the source project's default auto-detach
// inactivity window.
const DefaultDetachDelay = 20 * time.Second

// Range is an inclusive [Start, End] bound in whatever unit the caller
// documents (degrees for motion/degree ranges, microseconds for the pulse
// range).
type Range struct {
	Start uint16
	End   uint16
}

func normalize(r Range) Range {
	if r.Start > r.End {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

func clampRange(r, bound Range) Range {
	return Range{
		Start: scale.Clamp(r.Start, bound.Start, bound.End),
		End:   scale.Clamp(r.End, bound.Start, bound.End),
	}
}

// Servo drives a PWM pin as a position, in degrees, remapped onto a pulse
// width via ServoConfig/AnalogWrite.
type Servo struct {
	anim.Animator

	io  iofacade.IO
	pin uint16

	degreeRange Range
	motionRange Range
	pulseRange  Range
	inverted    bool

	autoDetach   bool
	detachDelay  time.Duration
	detachHandle task.Handle
	detachGen    uint64

	mu      sync.Mutex
	current state.State
	def     state.State
}

// New attaches a Servo to pin, motion-limited to [0, 180] degrees with the
// standard [600, 2400]us pulse range, and moves it to defaultDegrees.
func New(io iofacade.IO, pin uint16, defaultDegrees uint16) (*Servo, error) {
	return newServo(io, pin, defaultDegrees, false)
}

// NewInverted is New with the degree-to-pulse mapping flipped.
func NewInverted(io iofacade.IO, pin uint16, defaultDegrees uint16) (*Servo, error) {
	return newServo(io, pin, defaultDegrees, true)
}

func newServo(io iofacade.IO, pin uint16, defaultDegrees uint16, inverted bool) (*Servo, error) {
	s := &Servo{
		io:          io,
		pin:         pin,
		degreeRange: Range{0, 180},
		motionRange: Range{0, 180},
		pulseRange:  Range{600, 2400},
		inverted:    inverted,
		detachDelay: DefaultDetachDelay,
		def:         state.Integer(uint64(defaultDegrees)),
	}

	if err := io.ServoConfig(pin, s.pulseRange.Start, s.pulseRange.End); err != nil {
		return nil, err
	}
	if err := io.SetPinMode(pin, iofacade.ModeServo); err != nil {
		return nil, err
	}
	if _, err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Servo) Pin() uint16 { return s.pin }

func (s *Servo) GetState() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Servo) GetDefault() state.State { return s.def }

// SetState moves the servo to the degree value carried by st, clamped to
// the current motion range, then schedules an auto-detach if enabled.
func (s *Servo) SetState(st state.State) (state.State, error) {
	degrees := uint16(st.AsInteger())
	clamped := scale.Clamp(degrees, s.motionRange.Start, s.motionRange.End)

	pulse := s.degreesToPulse(clamped)
	if err := s.io.AnalogWrite(s.pin, pulse); err != nil {
		return state.State{}, err
	}

	result := state.Integer(uint64(clamped))
	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	if s.autoDetach {
		s.scheduleDetach()
	}
	return result, nil
}

func (s *Servo) degreesToPulse(degrees uint16) uint16 {
	from, to := s.degreeRange, s.pulseRange
	if s.inverted {
		to = Range{Start: s.pulseRange.End, End: s.pulseRange.Start}
	}
	pulse := scale.Linear(int64(degrees), int64(from.Start), int64(from.End), int64(to.Start), int64(to.End))
	return uint16(pulse)
}

func (s *Servo) Reset() (state.State, error) {
	return s.SetState(s.def)
}

func (s *Servo) ScaleState(previous, target state.State, progress float64) state.State {
	return device.ScaleState(previous, target, progress)
}

// To moves the servo directly to the given degree position, stopping any
// in-flight animation first.
func (s *Servo) To(degrees uint16) error {
	s.Animator.Stop()
	_, err := s.SetState(state.Integer(uint64(degrees)))
	return err
}

// Sweep repeats a full motion-range sweep (End -> Start -> End -> ...) in
// phases of ms milliseconds, until Stop is called.
func (s *Servo) Sweep(ms uint64) {
	s.Animator.Repeat(s,
		state.Integer(uint64(s.motionRange.End)),
		state.Integer(uint64(s.motionRange.Start)),
		ms, easing.SineInOut)
}

// SetRange limits servo motion to range, rearranged to Start<=End and
// clamped to the servo's degree range; the default position is re-clamped
// to fit.
func (s *Servo) SetRange(r Range) *Servo {
	s.motionRange = clampRange(normalize(r), s.degreeRange)
	clampedDefault := scale.Clamp(uint16(s.def.AsInteger()), s.motionRange.Start, s.motionRange.End)
	s.def = state.Integer(uint64(clampedDefault))
	return s
}

func (s *Servo) GetRange() Range { return s.motionRange }

// SetInverted flips the degree-to-pulse mapping.
func (s *Servo) SetInverted(inverted bool) *Servo {
	s.inverted = inverted
	return s
}

// SetAutoDetach enables or disables the power-saving auto-detach timer.
func (s *Servo) SetAutoDetach(enabled bool) *Servo {
	s.autoDetach = enabled
	return s
}

// SetDetachDelay changes the inactivity window before auto-detach fires.
func (s *Servo) SetDetachDelay(d time.Duration) *Servo {
	s.detachDelay = d
	return s
}

// scheduleDetach arms a deferred task that switches the pin to OUTPUT mode
// after detachDelay, unless a newer write invalidates it first (the
// generation check). A subsequent write that needs servo mode restores it.
func (s *Servo) scheduleDetach() {
	s.detachHandle.Abort()
	s.detachGen++
	gen := s.detachGen
	delay := s.detachDelay
	pin := s.pin
	io := s.io

	s.detachHandle = task.Run(func(ctx context.Context) error {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil
		}
		s.mu.Lock()
		stillCurrent := gen == s.detachGen
		s.mu.Unlock()
		if !stillCurrent {
			return nil
		}
		return io.SetPinMode(pin, iofacade.ModeOutput)
	})
}
