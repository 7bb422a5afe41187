package effects

import (
	"fmt"
	"math"
)

type Kind string

const (
	KindShadow  Kind = "shadow"
	KindOutline Kind = "outline"
	KindGlow    Kind = "glow"
	KindShake   Kind = "shake"
	KindPopIn   Kind = "pop-in"
	KindFadeIn  Kind = "fade-in"
	KindFadeOut Kind = "fade-out"
)

// Effect is a stateless, parametrized modifier attached to a placement.
// Shadow, Outline and Glow decorate text; Shake, PopIn and Fade produce a Transform.
type Effect struct {
	Kind Kind `yaml:"kind"`

	// Start and Span select the sub-window of the placement the effect runs in,
	// as fractions of the placement window. Span 0 means "until the end".
	Start float64 `yaml:"start,omitempty"`
	Span  float64 `yaml:"span,omitempty"`

	Amplitude float64 `yaml:"amplitude,omitempty"` // shake, pixels
	Frequency float64 `yaml:"frequency,omitempty"` // shake, cycles over the sub-window
	Decay     bool    `yaml:"decay,omitempty"`
	Overshoot float64 `yaml:"overshoot,omitempty"` // pop-in

	Width int    `yaml:"width,omitempty"` // outline thickness, glow radius
	DX    int    `yaml:"dx,omitempty"`    // shadow offset
	DY    int    `yaml:"dy,omitempty"`    // shadow offset
	Color string `yaml:"color,omitempty"` // decoration color, #RRGGBB[AA]
}

// Transform is the per-frame placement modifier: pixel offset, scale and opacity.
type Transform struct {
	DX, DY float64
	Scale  float64
	Alpha  float64
}

func Identity() Transform {
	return Transform{Scale: 1, Alpha: 1}
}

func Shadow(dx, dy int, color string) Effect {
	return Effect{Kind: KindShadow, DX: dx, DY: dy, Color: color}
}

func Outline(width int, color string) Effect {
	return Effect{Kind: KindOutline, Width: width, Color: color}
}

func Glow(radius int, color string) Effect {
	return Effect{Kind: KindGlow, Width: radius, Color: color}
}

func Shake(amplitude, frequency float64) Effect {
	return Effect{Kind: KindShake, Amplitude: amplitude, Frequency: frequency}
}

func PopIn(overshoot float64) Effect {
	return Effect{Kind: KindPopIn, Overshoot: overshoot}
}

func FadeIn(span float64) Effect {
	return Effect{Kind: KindFadeIn, Span: span}
}

// FadeOut fades during the last span of the window.
func FadeOut(span float64) Effect {
	return Effect{Kind: KindFadeOut, Start: 1 - span, Span: span}
}

// Within narrows the effect to the [start, start+span] part of the placement window.
func (e Effect) Within(start, span float64) Effect {
	e.Start, e.Span = start, span
	return e
}

func (e Effect) Validate() error {
	switch e.Kind {
	case KindShadow, KindOutline, KindGlow, KindShake, KindPopIn, KindFadeIn, KindFadeOut:
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	if e.Start < 0 || e.Start > 1 || e.Span < 0 || e.Start+e.Span > 1+1e-9 {
		return fmt.Errorf("effect %s window [%g,+%g] is outside [0,1]", e.Kind, e.Start, e.Span)
	}
	if e.Color != "" {
		if _, err := ParseColor(e.Color); err != nil {
			return fmt.Errorf("effect %s: %w", e.Kind, err)
		}
	}
	return nil
}

// IsDecoration reports whether the effect is drawn as a text layer rather than a transform.
func (e Effect) IsDecoration() bool {
	return e.Kind == KindShadow || e.Kind == KindOutline || e.Kind == KindGlow
}

func (e Effect) span() float64 {
	if e.Span <= 0 {
		return 1 - e.Start
	}
	return e.Span
}

// Local maps the placement fraction p into the effect's own [0,1] progress.
func (e Effect) Local(p float64) float64 {
	span := e.span()
	if span <= 0 {
		return 1
	}
	return Clamp01((p - e.Start) / span)
}

func (e Effect) active(p float64) bool {
	return p >= e.Start && p <= e.Start+e.span()
}

// Apply composes this effect onto tr for placement progress p.
func (e Effect) Apply(p float64, tr Transform) Transform {
	p = Clamp01(p)
	switch e.Kind {
	case KindShake:
		if !e.active(p) {
			return tr
		}
		local := e.Local(p)
		amp := e.Amplitude
		if e.Decay {
			amp *= 1 - local
		}
		phase := local * e.Frequency * 2 * math.Pi
		tr.DX += math.Sin(phase) * amp
		tr.DY += math.Cos(phase*23/17) * amp
	case KindPopIn:
		tr.Scale *= BackOut(e.Local(p), e.Overshoot)
	case KindFadeIn:
		tr.Alpha *= e.Local(p)
	case KindFadeOut:
		tr.Alpha *= 1 - e.Local(p)
	}
	return tr
}

// Resolve applies effects in the order given, starting from the identity transform.
func Resolve(list []Effect, p float64) Transform {
	tr := Identity()
	for _, e := range list {
		tr = e.Apply(p, tr)
	}
	return tr
}
