package effects

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor accepts #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor is for compiled-in literals only.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LerpColor interpolates two colors channel by channel.
func LerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	t = Clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(Lerp(float64(x), float64(y), t) + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// WithAlpha scales the color's alpha by a in [0,1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*Clamp01(a) + 0.5)
	return c
}
