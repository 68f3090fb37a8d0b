package anim

import (
	"fmt"

	"github.com/periph-dev/boardkit/device"
	"github.com/periph-dev/boardkit/state"
)

// Window is a half-open-ish [Start, End] time range in milliseconds, used
// both to select overlapping keyframes and to drive a segment's per-frame
// playback.
type Window struct {
	Start uint64
	End   uint64
}

// Track owns one device.Output and the ordered (possibly overlapping) set
// of keyframes that drive it over an animation's lifetime.
type Track struct {
	dev       device.Output
	keyframes []Keyframe

	previous state.State
	current  state.State
}

// NewTrack associates a Track with dev, seeding both previous and current
// state from the device's current state.
func NewTrack(dev device.Output) *Track {
	s := dev.GetState()
	return &Track{dev: dev, previous: s, current: s}
}

// WithKeyframe appends keyframe and returns the track for chaining. No
// overlap validation is performed: PlayFrame resolves overlaps at
// playback time via the best-keyframe rule.
func (t *Track) WithKeyframe(k Keyframe) *Track {
	t.keyframes = append(t.keyframes, k)
	return t
}

func (t *Track) Device() device.Output      { return t.dev }
func (t *Track) Keyframes() []Keyframe      { return t.keyframes }

// Duration is the end time of the latest-ending keyframe, or 0 if the
// track has none.
func (t *Track) Duration() uint64 {
	var d uint64
	for _, k := range t.keyframes {
		if k.End() > d {
			d = k.End()
		}
	}
	return d
}

// PlayFrame applies the best keyframe for window, if any, updating the
// device's state along the way.
func (t *Track) PlayFrame(window Window) error {
	k, ok := t.bestKeyframe(window)
	if !ok {
		return nil
	}

	t.updateHistory(k.Target())
	progress := k.CoefficientAt(window.End)
	next := t.dev.ScaleState(t.previous, k.Target(), progress)
	_, err := t.dev.SetState(next)
	return err
}

// bestKeyframe finds every keyframe intersecting window and returns the
// last-ending one: keyframes should not overlap on a well-formed track,
// but when they do the longest-running one gives the most stable
// transition over time.
func (t *Track) bestKeyframe(window Window) (Keyframe, bool) {
	var best Keyframe
	found := false
	for _, k := range t.keyframes {
		intersects := (k.Start() >= window.Start && k.Start() < window.End) ||
			(k.End() >= window.Start && k.End() < window.End) ||
			(k.Start() <= window.Start && k.End() > window.End)
		if !intersects {
			continue
		}
		if !found || k.End() > best.End() {
			best = k
			found = true
		}
	}
	return best, found
}

func (t *Track) updateHistory(target state.State) {
	if !t.current.Equal(target) {
		t.previous = t.current
		t.current = target
	}
}

func (t *Track) String() string {
	return fmt.Sprintf("Track: %d keyframes - duration: %dms", len(t.keyframes), t.Duration())
}
