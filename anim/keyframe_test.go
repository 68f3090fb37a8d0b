package anim

import (
	"testing"

	"github.com/periph-dev/boardkit/easing"
	"github.com/periph-dev/boardkit/state"
)

func TestNewKeyframeDefaults(t *testing.T) {
	k := NewKeyframe(state.Integer(100), 0, 1000)
	if k.Target().AsInteger() != 100 {
		t.Fatalf("target = %d, want 100", k.Target().AsInteger())
	}
	if k.Start() != 0 || k.End() != 1000 || k.Duration() != 1000 {
		t.Fatalf("start/end/duration = %d/%d/%d", k.Start(), k.End(), k.Duration())
	}
	k = k.WithTransition(easing.QuadOut)
	if k.Transition() != easing.QuadOut {
		t.Fatalf("transition = %v, want QuadOut", k.Transition())
	}
}

func TestNewKeyframePanicsOnInvalidOrder(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for start > end")
		}
	}()
	NewKeyframe(state.Integer(100), 2000, 1000)
}

func TestCoefficientAtLinear(t *testing.T) {
	k := NewKeyframe(state.Integer(100), 0, 1000)
	if got := k.CoefficientAt(500); got != 0.5 {
		t.Fatalf("CoefficientAt(500) = %v, want 0.5", got)
	}
}

func TestCoefficientAtEased(t *testing.T) {
	k := NewKeyframe(state.Integer(100), 0, 1000).WithTransition(easing.QuadOut)
	if got := k.CoefficientAt(500); got != 0.75 {
		t.Fatalf("CoefficientAt(500) with QuadOut = %v, want 0.75", got)
	}
}

func TestCoefficientAtClampsOutsideWindow(t *testing.T) {
	k := NewKeyframe(state.Integer(100), 1000, 2000)
	if got := k.CoefficientAt(500); got != 0.0 {
		t.Fatalf("before start = %v, want 0.0", got)
	}
	if got := k.CoefficientAt(2500); got != 1.0 {
		t.Fatalf("after end = %v, want 1.0", got)
	}
	if got := k.CoefficientAt(1300); got != 0.3 {
		t.Fatalf("30%% through = %v, want 0.3", got)
	}
}

func TestCoefficientAtInstantaneousKeyframe(t *testing.T) {
	k := NewKeyframe(state.Integer(100), 500, 500)
	if got := k.CoefficientAt(0); got != 0.0 {
		t.Fatalf("before instant = %v, want 0.0", got)
	}
	if got := k.CoefficientAt(500); got != 1.0 {
		t.Fatalf("at instant = %v, want 1.0", got)
	}
	if got := k.CoefficientAt(1000); got != 1.0 {
		t.Fatalf("after instant = %v, want 1.0", got)
	}
}
