// Package device defines the two contracts every domain device adapter
// (led, servo, button, analogin, digitalin, pwmout, digitalout) binds to:
// Output for actuators the board writes to, Input for sensors the board
// reads from. Grounded in the source project's devices/output/mod.rs and
// devices/input/mod.rs traits.
package device

import "github.com/periph-dev/boardkit/state"

// Output is implemented by actuator adapters (Led, Servo, PwmOutput,
// DigitalOutput) that a Track can drive through a keyframe sequence.
type Output interface {
	GetState() state.State
	// SetState applies s and returns the state actually applied (the
	// implementation may coerce or reject out-of-range values).
	SetState(s state.State) (state.State, error)
	GetDefault() state.State
	Reset() (state.State, error)

	// ScaleState computes the intermediate value between previous and
	// target at the given progress (0.0 to 1.0, can overshoot with
	// easing functions that overshoot). The default numeric
	// interpolation is available via device.ScaleState; non-numeric
	// states use threshold switching with ScaleState.
	ScaleState(previous, target state.State, progress float64) state.State

	IsBusy() bool
	Stop()
}

// Input is implemented by sensor adapters (Button, AnalogInput,
// DigitalInput) that only report state, never accept one.
type Input interface {
	GetState() state.State
}

// ScaleState is the default numeric interpolation shared by every Output
// implementation: integers and floats lerp between previous and target;
// any other state kind switches at the threshold (progress 0 keeps the
// previous value, anything above snaps straight to target). Mirrors the
// source project's default Output::scale_state body.
func ScaleState(previous, target state.State, progress float64) state.State {
	switch target.Kind() {
	case state.KindInteger:
		return state.Integer(scaleUint(previous.AsInteger(), target.AsInteger(), progress))
	case state.KindSigned:
		return state.Signed(scaleInt(previous.AsSignedInteger(), target.AsSignedInteger(), progress))
	case state.KindFloat:
		return state.Float(scaleFloat(previous.AsFloat(), target.AsFloat(), progress))
	default:
		if progress == 0 {
			return previous
		}
		return target
	}
}

func scaleUint(from, to uint64, progress float64) uint64 {
	v := float64(from) + (float64(to)-float64(from))*progress
	if v < 0 {
		return 0
	}
	return uint64(v + 0.5)
}

func scaleInt(from, to int64, progress float64) int64 {
	v := float64(from) + (float64(to)-float64(from))*progress
	if v >= 0 {
		return int64(v + 0.5)
	}
	return int64(v - 0.5)
}

func scaleFloat(from, to float64, progress float64) float64 {
	return from + (to-from)*progress
}
