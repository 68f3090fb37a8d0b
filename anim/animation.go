package anim

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/periph-dev/boardkit/event"
	"github.com/periph-dev/boardkit/task"
)

// Event topics an Animation emits through its bus.
const (
	EventStart       = "start"
	EventSegmentDone = "segment_done"
	EventComplete    = "complete"
)

// Animation sequences an ordered list of Segments. Segments play in order;
// calling Play while already playing replaces the running playback rather
// than queuing a second one (the active segment's context is cancelled and
// playback resumes from the current segment).
type Animation struct {
	mu       sync.Mutex
	segments []*Segment
	current  int
	cancel   context.CancelFunc
	events   *event.Bus
}

// NewAnimation returns an empty Animation.
func NewAnimation() *Animation {
	return &Animation{events: event.New()}
}

// FromSegment is a convenience constructor equivalent to
// NewAnimation().WithSegment(s).
func FromSegment(s *Segment) *Animation {
	return NewAnimation().WithSegment(s)
}

// On registers fn for one of EventStart/EventSegmentDone/EventComplete.
func On[T any](a *Animation, topic string, fn func(T)) event.Handle {
	return event.On(a.events, topic, fn)
}

func (a *Animation) Segments() []*Segment {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.segments
}

func (a *Animation) SetSegments(segments []*Segment) *Animation {
	a.mu.Lock()
	a.segments = segments
	a.mu.Unlock()
	return a
}

func (a *Animation) WithSegment(s *Segment) *Animation {
	a.mu.Lock()
	a.segments = append(a.segments, s)
	a.mu.Unlock()
	return a
}

func (a *Animation) GetCurrent() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *Animation) SetCurrent(index int) {
	a.mu.Lock()
	a.current = index
	a.mu.Unlock()
}

// Duration sums every segment's duration; a repeating segment contributes
// an unbounded duration, reported as math.MaxUint64.
func (a *Animation) Duration() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total uint64
	for _, s := range a.segments {
		if s.IsRepeat() {
			return math.MaxUint64
		}
		total += s.Duration()
	}
	return total
}

// Progress reports the current segment's playback position.
func (a *Animation) Progress() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current < 0 || a.current >= len(a.segments) {
		return 0
	}
	return a.segments[a.current].Progress()
}

// IsPlaying reports whether a playback task is currently running.
func (a *Animation) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// Play starts or resumes playback from the current segment. Calling Play
// while already playing is a no-op replace: the running playback is
// cancelled first and a fresh one started from the same segment index.
func (a *Animation) Play() *Animation {
	a.cancelPlayback()

	a.events.Emit(EventStart, a)

	a.mu.Lock()
	if len(a.segments) == 0 {
		a.mu.Unlock()
		return a
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mu.Unlock()

	task.Run(func(context.Context) error {
		a.runFrom(ctx)
		return nil
	})
	return a
}

func (a *Animation) runFrom(ctx context.Context) {
	for {
		a.mu.Lock()
		index := a.current
		if index >= len(a.segments) {
			a.mu.Unlock()
			break
		}
		seg := a.segments[index]
		a.mu.Unlock()

		if err := seg.Play(ctx); err != nil {
			return // cancelled or failed: leave `current` where it is for resume/pause.
		}
		a.events.Emit(EventSegmentDone, seg)

		a.mu.Lock()
		a.current++
		done := a.current >= len(a.segments)
		a.mu.Unlock()
		if done {
			break
		}
	}

	a.mu.Lock()
	a.current = 0
	a.cancel = nil
	a.mu.Unlock()
	a.events.Emit(EventComplete, a)
}

// Pause cancels the in-flight segment; the animation resumes from the same
// segment on the next Play.
func (a *Animation) Pause() *Animation {
	a.cancelPlayback()
	return a
}

// Next resets the current segment and advances to the next one, wrapping
// to the first segment after the last. If the animation was playing, it
// resumes immediately on the new segment; otherwise it stays paused.
func (a *Animation) Next() *Animation {
	a.mu.Lock()
	current := a.current
	wasPlaying := a.cancel != nil
	a.mu.Unlock()

	a.cancelPlayback()

	a.mu.Lock()
	if current >= 0 && current < len(a.segments) {
		a.segments[current].Reset()
	}
	if len(a.segments) == 0 {
		a.mu.Unlock()
		return a
	}
	if current < len(a.segments)-1 {
		a.current = current + 1
	} else {
		a.current = 0
	}
	a.mu.Unlock()

	if wasPlaying {
		a.Play()
	}
	return a
}

// Stop cancels any playback, resets the current segment (including a
// paused one) and rewinds to the first segment. On an idle or completed
// animation, whose index is already 0 with a reset segment, Stop changes
// nothing.
func (a *Animation) Stop() *Animation {
	a.cancelPlayback()
	a.mu.Lock()
	current := a.current
	a.mu.Unlock()
	if current >= 0 && current < len(a.Segments()) {
		a.Segments()[current].Reset()
	}
	a.SetCurrent(0)
	return a
}

// cancelPlayback cancels any running playback task and reports whether one
// was running.
func (a *Animation) cancelPlayback() bool {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

func (a *Animation) String() string {
	var b strings.Builder
	duration := "0ms"
	d := a.Duration()
	if d == math.MaxUint64 {
		duration = "INF"
	} else {
		duration = fmt.Sprintf("%dms", d)
	}
	segments := a.Segments()
	fmt.Fprintf(&b, "Animation [duration=%s, segments=%d]\n", duration, len(segments))
	for _, seg := range segments {
		fmt.Fprintf(&b, "  Segment [duration=%dms, repeat=%t, fps=%d, speed=%d] :\n",
			seg.Duration(), seg.IsRepeat(), seg.FPS(), seg.Speed())
		for _, tr := range seg.Tracks() {
			fmt.Fprintf(&b, "   Track [duration=%dms]:\n", tr.Duration())
			for _, k := range tr.Keyframes() {
				fmt.Fprintf(&b, "      Keyframe %dms to %dms: %s\n", k.Start(), k.End(), k.Target())
			}
		}
	}
	return b.String()
}
