package easing

import (
	"math"
	"testing"
)

func approxEqual(t *testing.T, e Easing, input, expected float64) {
	t.Helper()
	got := e.Call(input)
	if math.Abs(got-expected) > 1e-4 {
		t.Errorf("easing %v at %v = %v, want %v", e, input, got, expected)
	}
}

func TestCurvesMatchReferenceSamples(t *testing.T) {
	approxEqual(t, BackIn, 0.5, -0.0876975)
	approxEqual(t, BackOut, 0.5, 1.0876975)
	approxEqual(t, BackInOut, 0.2, -0.092556)
	approxEqual(t, BounceIn, 0.5, 0.234375)
	approxEqual(t, BounceOut, 0.5, 0.765625)
	approxEqual(t, BounceInOut, 0.2, 0.113750)
	approxEqual(t, CircIn, 0.5, 0.133975)
	approxEqual(t, CircOut, 0.5, 0.866025)
	approxEqual(t, CircInOut, 0.2, 0.041742)
	approxEqual(t, CubicIn, 0.5, 0.125)
	approxEqual(t, CubicOut, 0.5, 0.875)
	approxEqual(t, CubicInOut, 0.2, 0.032)
	approxEqual(t, ElasticIn, 0.5, -0.015625)
	approxEqual(t, ElasticOut, 0.5, 1.015625)
	approxEqual(t, ElasticInOut, 0.2, -0.003906)
	approxEqual(t, ExpoIn, 0.5, 0.03125)
	approxEqual(t, ExpoOut, 0.5, 0.96875)
	approxEqual(t, ExpoInOut, 0.2, 0.007812)
	approxEqual(t, QuadIn, 0.5, 0.25)
	approxEqual(t, QuadOut, 0.5, 0.75)
	approxEqual(t, QuadInOut, 0.2, 0.08000)
	approxEqual(t, QuartIn, 0.5, 0.0625)
	approxEqual(t, QuartOut, 0.5, 0.9375)
	approxEqual(t, QuartInOut, 0.2, 0.0128)
	approxEqual(t, QuintIn, 0.5, 0.03125)
	approxEqual(t, QuintOut, 0.5, 0.96875)
	approxEqual(t, QuintInOut, 0.2, 0.00512)
	approxEqual(t, SineIn, 0.5, 0.292893)
	approxEqual(t, SineOut, 0.5, math.Sqrt2/2)
	approxEqual(t, SineInOut, 0.2, 0.0954915)
	approxEqual(t, Linear, 0.5, 0.5)
}

func TestReverseAndRoundTrip(t *testing.T) {
	if got := Reverse.Call(0.0); got != 1.0 {
		t.Fatalf("Reverse(0) = %v, want 1", got)
	}
	if got := Reverse.Call(1.0); got != 0.0 {
		t.Fatalf("Reverse(1) = %v, want 0", got)
	}
	if got := RoundTrip.Call(0.5); got != 1.0 {
		t.Fatalf("RoundTrip(0.5) = %v, want 1", got)
	}
	if got := RoundTrip.Call(1.0); got != 0.0 {
		t.Fatalf("RoundTrip(1) = %v, want 0", got)
	}
}

func TestEndpointsAreZeroAndOne(t *testing.T) {
	all := []Easing{
		Linear, SineIn, SineOut, SineInOut, QuadIn, QuadOut, QuadInOut,
		CubicIn, CubicOut, CubicInOut, QuartIn, QuartOut, QuartInOut,
		QuintIn, QuintOut, QuintInOut, ExpoIn, ExpoOut, ExpoInOut,
		CircIn, CircOut, CircInOut, BackIn, BackOut, BackInOut,
		BounceIn, BounceOut, BounceInOut, ElasticIn, ElasticOut, ElasticInOut,
	}
	for _, e := range all {
		if math.Abs(e.Call(0)) > 1e-6 {
			t.Errorf("easing %v at 0 = %v, want 0", e, e.Call(0))
		}
		if math.Abs(e.Call(1)-1) > 1e-6 {
			t.Errorf("easing %v at 1 = %v, want 1", e, e.Call(1))
		}
	}
}
