package anim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultFPS matches the source project's default segment frame rate.
const DefaultFPS = 60

// Segment is one playable unit of an Animation: a set of Tracks advanced
// together at a fixed frame rate, optionally looping from a loopback point.
type Segment struct {
	repeat   bool
	loopback uint64
	speed    uint8
	fps      uint8
	tracks   []*Track

	currentTime uint64
}

// NewSegment returns a Segment with the upstream defaults: no repeat,
// loopback 0, speed 100%, 60 fps.
func NewSegment() *Segment {
	return &Segment{speed: 100, fps: DefaultFPS}
}

// FromTrack is a convenience constructor equivalent to
// NewSegment().WithTrack(t).
func FromTrack(t *Track) *Segment {
	return NewSegment().WithTrack(t)
}

func (s *Segment) IsRepeat() bool    { return s.repeat }
func (s *Segment) Loopback() uint64  { return s.loopback }
func (s *Segment) Speed() uint8      { return s.speed }
func (s *Segment) FPS() uint8        { return s.fps }
func (s *Segment) Tracks() []*Track  { return s.tracks }
func (s *Segment) Progress() uint64  { return s.currentTime }

func (s *Segment) SetRepeat(repeat bool) *Segment   { s.repeat = repeat; return s }
func (s *Segment) SetLoopback(ms uint64) *Segment   { s.loopback = ms; return s }
func (s *Segment) SetSpeed(pct uint8) *Segment      { s.speed = pct; return s }
func (s *Segment) SetFPS(fps uint8) *Segment        { s.fps = fps; return s }
func (s *Segment) SetTracks(tracks []*Track) *Segment {
	s.tracks = tracks
	return s
}
func (s *Segment) WithTrack(t *Track) *Segment {
	s.tracks = append(s.tracks, t)
	return s
}

// Duration is the duration of the longest track, or 0 with no tracks.
func (s *Segment) Duration() uint64 {
	var d uint64
	for _, t := range s.tracks {
		if dur := t.Duration(); dur > d {
			d = dur
		}
	}
	return d
}

// Reset rewinds the segment's playback clock to 0.
func (s *Segment) Reset() {
	s.currentTime = 0
}

// Play runs the segment to completion; if repeat is set, it loops forever
// (from Loopback) until ctx is cancelled. On normal completion the
// playback clock resets to 0. On cancellation/error it is left where it
// stood, so a paused segment resumes from the same point on the next Play;
// Stop and Next reset explicitly via Reset.
func (s *Segment) Play(ctx context.Context) error {
	if s.Duration() > 0 {
		if s.repeat {
			for {
				if err := s.playOnce(ctx); err != nil {
					return err
				}
				s.currentTime = s.loopback
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
		}
		if err := s.playOnce(ctx); err != nil {
			return err
		}
	}
	s.Reset()
	return nil
}

// playOnce advances every track from currentTime to the segment duration,
// pacing frames to the configured fps and drift-correcting against
// wall-clock elapsed time rather than accumulating per-frame sleep error.
// Tracks within a frame write to independent devices, so they are fanned
// out concurrently and the frame waits for the slowest one.
func (s *Segment) playOnce(ctx context.Context) error {
	start := time.Now()
	total := s.Duration()
	frameMillis := uint64(1000) / uint64(s.fps)

	for s.currentTime < total {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		window := Window{Start: s.currentTime, End: s.currentTime + frameMillis}
		var g errgroup.Group
		for _, track := range s.tracks {
			track := track
			g.Go(func() error { return track.PlayFrame(window) })
		}
		if err := g.Wait(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if budget := time.Duration(frameMillis) * time.Millisecond; elapsed < budget {
			select {
			case <-time.After(budget - elapsed):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		s.currentTime = uint64(time.Since(start) / time.Millisecond)
	}
	return nil
}

func (s *Segment) String() string {
	return fmt.Sprintf("Segment: %d tracks - duration: %dms", len(s.tracks), s.Duration())
}
