package scale

import "testing"

func TestLinearMidpoint(t *testing.T) {
	if got := Linear(0.5, 0.0, 1.0, 0.0, 100.0); got != 50 {
		t.Fatalf("Linear(0.5) = %v, want 50", got)
	}
}

func TestLinearOvershoot(t *testing.T) {
	// back/elastic easing coefficients can exceed [0,1]; scale must not clamp.
	if got := Linear(1.2, 0.0, 1.0, 0.0, 100.0); got != 120 {
		t.Fatalf("Linear(1.2) = %v, want 120 (extrapolated, not clamped)", got)
	}
}

func TestLinearDegenerateRange(t *testing.T) {
	if got := Linear(5, 2, 2, 10, 20); got != 10 {
		t.Fatalf("Linear on degenerate range = %v, want toLow", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(300, 0, 255) != 255 {
		t.Fatal("Clamp should cap at high bound")
	}
	if Clamp(-5, 0, 255) != 0 {
		t.Fatal("Clamp should cap at low bound")
	}
}
