package anim

import (
	"sync"

	"github.com/periph-dev/boardkit/device"
	"github.com/periph-dev/boardkit/easing"
	"github.com/periph-dev/boardkit/state"
)

// Animator is embedded by every device.Output adapter (led, servo, pwmout,
// digitalout) to give it Animate/IsBusy/Stop for free: a one-keyframe,
// single-segment Animation driving the device's own state. Calling Animate
// while one is already running replaces it rather than queuing — the
// running animation is stopped first, matching the decided policy for
// busy actuators.
type Animator struct {
	mu  sync.Mutex
	run *Animation
}

// Animate transitions self from its current state to target over
// durationMs milliseconds, following transition.
func (a *Animator) Animate(self device.Output, target state.State, durationMs uint64, transition easing.Easing) {
	animation := FromTrack(NewTrack(self).WithKeyframe(NewKeyframe(target, 0, durationMs).WithTransition(transition)))

	a.mu.Lock()
	prev := a.run
	a.run = animation
	a.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	animation.Play()
}

// Repeat starts an indefinitely repeating two-keyframe animation (used by
// blink/pulse/sweep): towards `to` over phaseMs, then towards `back` over
// the following phaseMs, looping.
func (a *Animator) Repeat(self device.Output, to, back state.State, phaseMs uint64, transition easing.Easing) {
	track := NewTrack(self).
		WithKeyframe(NewKeyframe(to, 0, phaseMs).WithTransition(transition)).
		WithKeyframe(NewKeyframe(back, phaseMs, phaseMs*2).WithTransition(transition))
	animation := FromSegment(FromTrackRepeating(track))

	a.mu.Lock()
	prev := a.run
	a.run = animation
	a.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	animation.Play()
}

// FromTrackRepeating builds a repeating single-track segment.
func FromTrackRepeating(t *Track) *Segment {
	return FromTrack(t).SetRepeat(true)
}

// IsBusy reports whether an Animate/Repeat call is still running.
func (a *Animator) IsBusy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.run != nil && a.run.IsPlaying()
}

// Stop cancels the running animation, if any.
func (a *Animator) Stop() {
	a.mu.Lock()
	run := a.run
	a.mu.Unlock()
	if run != nil {
		run.Stop()
	}
}
