// Package easing implements the Penner-style interpolation curves used by
// the animation engine to turn a normalised progress value in [0,1] into a
// coefficient that may overshoot that range (back/elastic curves).
package easing

import "math"

// Easing identifies one of the closed set of curve functions.
type Easing int

const (
	Linear Easing = iota
	SineIn
	SineOut
	SineInOut
	QuadIn
	QuadOut
	QuadInOut
	CubicIn
	CubicOut
	CubicInOut
	QuartIn
	QuartOut
	QuartInOut
	QuintIn
	QuintOut
	QuintInOut
	ExpoIn
	ExpoOut
	ExpoInOut
	CircIn
	CircOut
	CircInOut
	BackIn
	BackOut
	BackInOut
	BounceIn
	BounceOut
	BounceInOut
	ElasticIn
	ElasticOut
	ElasticInOut
	Reverse
	RoundTrip
)

// Call evaluates the curve at t, which is expected to lie in [0,1] (callers
// clamp before calling; see anim.Keyframe.CoefficientAt).
func (e Easing) Call(t float64) float64 {
	switch e {
	case SineIn:
		return sineIn(t)
	case SineOut:
		return sineOut(t)
	case SineInOut:
		return sineInOut(t)
	case QuadIn:
		return quadIn(t)
	case QuadOut:
		return quadOut(t)
	case QuadInOut:
		return quadInOut(t)
	case CubicIn:
		return cubicIn(t)
	case CubicOut:
		return cubicOut(t)
	case CubicInOut:
		return cubicInOut(t)
	case QuartIn:
		return quartIn(t)
	case QuartOut:
		return quartOut(t)
	case QuartInOut:
		return quartInOut(t)
	case QuintIn:
		return quintIn(t)
	case QuintOut:
		return quintOut(t)
	case QuintInOut:
		return quintInOut(t)
	case ExpoIn:
		return expoIn(t)
	case ExpoOut:
		return expoOut(t)
	case ExpoInOut:
		return expoInOut(t)
	case CircIn:
		return circIn(t)
	case CircOut:
		return circOut(t)
	case CircInOut:
		return circInOut(t)
	case BackIn:
		return backIn(t)
	case BackOut:
		return backOut(t)
	case BackInOut:
		return backInOut(t)
	case BounceIn:
		return bounceIn(t)
	case BounceOut:
		return bounceOut(t)
	case BounceInOut:
		return bounceInOut(t)
	case ElasticIn:
		return elasticIn(t)
	case ElasticOut:
		return elasticOut(t)
	case ElasticInOut:
		return elasticInOut(t)
	case Reverse:
		return 1 - t
	case RoundTrip:
		if t < 0.5 {
			return t * 2
		}
		return (1 - t) * 2
	default: // Linear
		return t
	}
}

func sineIn(t float64) float64  { return 1 - math.Cos(t*math.Pi/2) }
func sineOut(t float64) float64 { return math.Sin(t * math.Pi / 2) }
func sineInOut(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

func quadIn(t float64) float64  { return t * t }
func quadOut(t float64) float64 { return 1 - (1-t)*(1-t) }
func quadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - pow(-2*t+2, 2)/2
}

func cubicIn(t float64) float64  { return t * t * t }
func cubicOut(t float64) float64 { return 1 - pow(1-t, 3) }
func cubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

func quartIn(t float64) float64  { return pow(t, 4) }
func quartOut(t float64) float64 { return 1 - pow(1-t, 4) }
func quartInOut(t float64) float64 {
	if t < 0.5 {
		return 8 * pow(t, 4)
	}
	return 1 - pow(-2*t+2, 4)/2
}

func quintIn(t float64) float64  { return pow(t, 5) }
func quintOut(t float64) float64 { return 1 - pow(1-t, 5) }
func quintInOut(t float64) float64 {
	if t < 0.5 {
		return 16 * pow(t, 5)
	}
	return 1 - pow(-2*t+2, 5)/2
}

func expoIn(t float64) float64 {
	if t == 0 {
		return 0
	}
	return pow(2, 10*t-10)
}
func expoOut(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - pow(2, -10*t)
}
func expoInOut(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return pow(2, 20*t-10) / 2
	default:
		return (2 - pow(2, -20*t+10)) / 2
	}
}

func circIn(t float64) float64  { return 1 - math.Sqrt(1-t*t) }
func circOut(t float64) float64 { return math.Sqrt(1 - (t-1)*(t-1)) }
func circInOut(t float64) float64 {
	if t < 0.5 {
		return (1 - math.Sqrt(1-pow(2*t, 2))) / 2
	}
	return (math.Sqrt(1-pow(-2*t+2, 2)) + 1) / 2
}

const (
	backC1 = 1.70158
	backC3 = backC1 + 1
	backC2 = backC1 * 1.525
)

func backIn(t float64) float64  { return backC3*t*t*t - backC1*t*t }
func backOut(t float64) float64 { return 1 + backC3*pow(t-1, 3) + backC1*pow(t-1, 2) }
func backInOut(t float64) float64 {
	if t < 0.5 {
		return (pow(2*t, 2) * ((backC2+1)*2*t - backC2)) / 2
	}
	return (pow(2*t-2, 2)*((backC2+1)*(t*2-2)+backC2) + 2) / 2
}

const bounceN1, bounceD1 = 7.5625, 2.75

func bounceOut(t float64) float64 {
	switch {
	case t < 1/bounceD1:
		return bounceN1 * t * t
	case t < 2/bounceD1:
		t -= 1.5 / bounceD1
		return bounceN1*t*t + 0.75
	case t < 2.5/bounceD1:
		t -= 2.25 / bounceD1
		return bounceN1*t*t + 0.9375
	default:
		t -= 2.625 / bounceD1
		return bounceN1*t*t + 0.984375
	}
}
func bounceIn(t float64) float64 { return 1 - bounceOut(1-t) }
func bounceInOut(t float64) float64 {
	if t < 0.5 {
		return (1 - bounceOut(1-2*t)) / 2
	}
	return (1 + bounceOut(2*t-1)) / 2
}

const elasticC4 = 2 * math.Pi / 3
const elasticC5 = 2 * math.Pi / 4.5

func elasticIn(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return -pow(2, 10*t-10) * math.Sin((10*t-10.75)*elasticC4)
}
func elasticOut(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return pow(2, -10*t)*math.Sin((10*t-0.75)*elasticC4) + 1
}
func elasticInOut(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return -(pow(2, 20*t-10) * math.Sin((20*t-11.125)*elasticC5)) / 2
	default:
		return (pow(2, -20*t+10)*math.Sin((20*t-11.125)*elasticC5))/2 + 1
	}
}

func pow(base, exp float64) float64 { return math.Pow(base, exp) }
