package anim

import (
	"context"
	"testing"
	"time"

	"github.com/periph-dev/boardkit/state"
)

func TestSegmentDefaults(t *testing.T) {
	s := NewSegment()
	if s.IsRepeat() {
		t.Fatal("expected repeat to default to false")
	}
	if s.Loopback() != 0 {
		t.Fatalf("loopback = %d, want 0", s.Loopback())
	}
	if s.Speed() != 100 {
		t.Fatalf("speed = %d, want 100", s.Speed())
	}
	if s.FPS() != 60 {
		t.Fatalf("fps = %d, want 60", s.FPS())
	}
	if len(s.Tracks()) != 0 || s.Duration() != 0 {
		t.Fatalf("expected empty segment, got %d tracks dur=%d", len(s.Tracks()), s.Duration())
	}
}

func TestSegmentSetters(t *testing.T) {
	s := NewSegment().
		SetRepeat(true).
		SetLoopback(100).
		SetSpeed(150).
		SetFPS(100).
		SetTracks([]*Track{NewTrack(newMockOutput(50)), NewTrack(newMockOutput(100))})

	if !s.IsRepeat() || s.Loopback() != 100 || s.Speed() != 150 || s.FPS() != 100 {
		t.Fatalf("setters did not apply: %+v", s)
	}
	if len(s.Tracks()) != 2 {
		t.Fatalf("tracks = %d, want 2", len(s.Tracks()))
	}
}

func TestSegmentReset(t *testing.T) {
	s := NewSegment()
	s.currentTime = 100
	s.Reset()
	if s.Progress() != 0 {
		t.Fatalf("progress = %d, want 0", s.Progress())
	}
}

func TestSegmentDuration(t *testing.T) {
	s := NewSegment().SetTracks([]*Track{
		NewTrack(newMockOutput(50)).
			WithKeyframe(NewKeyframe(state.Integer(10), 0, 500)).
			WithKeyframe(NewKeyframe(state.Integer(20), 600, 4000)),
		NewTrack(newMockOutput(100)).
			WithKeyframe(NewKeyframe(state.Integer(10), 3000, 3300)).
			WithKeyframe(NewKeyframe(state.Integer(20), 3500, 3800)),
	})
	if s.Duration() != 4000 {
		t.Fatalf("duration = %d, want 4000", s.Duration())
	}
}

func TestSegmentPlayOnceAdvancesToDuration(t *testing.T) {
	s := FromTrack(NewTrack(newMockOutput(0)).WithKeyframe(NewKeyframe(state.Integer(100), 0, 100))).
		SetFPS(100)

	if err := s.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if s.Progress() != 0 {
		t.Fatalf("progress after completion should reset to 0, got %d", s.Progress())
	}
}

func TestSegmentPlayRepeatStopsOnCancel(t *testing.T) {
	s := FromTrack(NewTrack(newMockOutput(0)).WithKeyframe(NewKeyframe(state.Integer(100), 0, 100))).
		SetFPS(100).
		SetRepeat(true)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Play(ctx)
	if err == nil {
		t.Fatal("expected repeating segment to return an error when its context is cancelled")
	}
}

func TestFromTrack(t *testing.T) {
	s := FromTrack(NewTrack(newMockOutput(50)))
	if len(s.Tracks()) != 1 {
		t.Fatalf("tracks = %d, want 1", len(s.Tracks()))
	}
}
