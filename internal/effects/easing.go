package effects

import (
	"fmt"
	"math"
)

// Easing maps normalized progress to an animated value.
// Every easing returns 0 at p=0 and 1 at p=1; inputs outside [0,1] are clamped.
type Easing func(p float64) float64

func Clamp01(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func Linear(p float64) float64 {
	return Clamp01(p)
}

// EaseIn starts slow.
func EaseIn(p float64) float64 {
	p = Clamp01(p)
	return p * p
}

// EaseOut ends slow.
func EaseOut(p float64) float64 {
	p = Clamp01(p)
	return 1 - (1-p)*(1-p)
}

func EaseInOut(p float64) float64 {
	p = Clamp01(p)
	if p < 0.5 {
		return 2 * p * p
	}
	return 1 - math.Pow(-2*p+2, 2)/2
}

// EaseInOutCubic is the smooth in-out used for camera-like moves.
func EaseInOutCubic(p float64) float64 {
	p = Clamp01(p)
	if p < 0.5 {
		return 4 * p * p * p
	}
	return 1 - math.Pow(-2*p+2, 3)/2
}

func Bounce(p float64) float64 {
	p = Clamp01(p)
	const n, d = 7.5625, 2.75
	switch {
	case p < 1/d:
		return n * p * p
	case p < 2/d:
		p -= 1.5 / d
		return n*p*p + 0.75
	case p < 2.5/d:
		p -= 2.25 / d
		return n*p*p + 0.9375
	default:
		p -= 2.625 / d
		return n*p*p + 0.984375
	}
}

// Elastic overshoots and rings before settling at 1.
func Elastic(p float64) float64 {
	p = Clamp01(p)
	if p == 0 || p == 1 {
		return p
	}
	const period = 0.3
	s := period / 4
	q := p - 1
	return -(math.Pow(2, 10*q) * math.Sin((q-s)*(2*math.Pi)/period))
}

// BackOut scales from 0 past 1 by an amount driven by overshoot, then settles to 1.
// overshoot=1 gives the classic 1.70158 back constant.
func BackOut(p, overshoot float64) float64 {
	p = Clamp01(p)
	if p == 0 || p == 1 {
		return p
	}
	s := 1.70158 * overshoot
	q := p - 1
	return q*q*((s+1)*q+s) + 1
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

var easings = map[string]Easing{
	"":                  Linear,
	"linear":            Linear,
	"ease-in":           EaseIn,
	"ease-out":          EaseOut,
	"ease-in-out":       EaseInOut,
	"ease-in-out-cubic": EaseInOutCubic,
	"bounce":            Bounce,
	"elastic":           Elastic,
	"back-out":          func(p float64) float64 { return BackOut(p, 1) },
}

// ByName resolves an easing referenced from a scenario file.
func ByName(name string) (Easing, error) {
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return e, nil
}
