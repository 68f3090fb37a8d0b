// Package anim implements the keyframe/track/segment/animation scheduler:
// Keyframes hold a target state over a time window, Tracks apply keyframes
// to a single device.Output, Segments advance a set of tracks at a fixed
// frame rate (optionally looping), and Animations sequence segments.
// Grounded in the source project's animation/{keyframe,track,segment,
// animation}.rs.
package anim

import (
	"github.com/periph-dev/boardkit/easing"
	"github.com/periph-dev/boardkit/scale"
	"github.com/periph-dev/boardkit/state"
)

// Keyframe targets a state value over a [Start, End] window, in
// milliseconds, following a transition curve.
type Keyframe struct {
	target     state.State
	start      uint64
	end        uint64
	transition easing.Easing
}

// NewKeyframe builds a Keyframe with easing.Linear as its default
// transition. It panics if start is after end, mirroring the upstream
// constructor's assertion (a malformed keyframe is a programmer error, not
// a recoverable runtime condition).
func NewKeyframe(target state.State, start, end uint64) Keyframe {
	if start > end {
		panic("anim: keyframe start time must be less than or equal to end time")
	}
	return Keyframe{target: target, start: start, end: end, transition: easing.Linear}
}

// WithTransition returns a copy of the keyframe using the given easing
// curve instead of the default linear one.
func (k Keyframe) WithTransition(e easing.Easing) Keyframe {
	k.transition = e
	return k
}

// Duration returns End - Start.
func (k Keyframe) Duration() uint64 { return k.end - k.start }

func (k Keyframe) Target() state.State      { return k.target }
func (k Keyframe) Start() uint64            { return k.start }
func (k Keyframe) End() uint64              { return k.end }
func (k Keyframe) Transition() easing.Easing { return k.transition }

// CoefficientAt computes how far the transition has progressed at time
// (clamped to [Start, End]), as a value in [0, 1] run through the
// keyframe's easing curve (curves that overshoot may return outside that
// range).
func (k Keyframe) CoefficientAt(time uint64) float64 {
	clamped := time
	if clamped < k.start {
		clamped = k.start
	}
	if clamped > k.end {
		clamped = k.end
	}
	var progress float64
	if k.end == k.start {
		if time < k.start {
			progress = 0
		} else {
			progress = 1
		}
	} else {
		progress = scale.LinearF64(float64(clamped), float64(k.start), float64(k.end), 0, 1)
	}
	return k.transition.Call(progress)
}
