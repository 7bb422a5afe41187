package effects

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingBoundaries(t *testing.T) {
	all := map[string]Easing{
		"linear":            Linear,
		"ease-in":           EaseIn,
		"ease-out":          EaseOut,
		"ease-in-out":       EaseInOut,
		"ease-in-out-cubic": EaseInOutCubic,
		"bounce":            Bounce,
		"elastic":           Elastic,
		"back-out":          func(p float64) float64 { return BackOut(p, 1.5) },
	}

	for name, ease := range all {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0.0, ease(0), 1e-9)
			assert.InDelta(t, 1.0, ease(1), 1e-9)
			// out-of-range inputs are clamped
			assert.InDelta(t, ease(0), ease(-3), 1e-9)
			assert.InDelta(t, ease(1), ease(7), 1e-9)
			assert.False(t, math.IsNaN(ease(math.NaN())))
		})
	}
}

func TestBackOutOvershoots(t *testing.T) {
	peak := 0.0
	for i := 1; i < 100; i++ {
		peak = math.Max(peak, BackOut(float64(i)/100, 1.2))
	}
	assert.Greater(t, peak, 1.0)
	assert.InDelta(t, 1.0, BackOut(0.99, 1.2), 0.01)
}

func TestByName(t *testing.T) {
	e, err := ByName("ease-out")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, e(0.5), 1e-9)

	_, err = ByName("wobble")
	assert.Error(t, err)
}

func TestResolve_PopInScale(t *testing.T) {
	list := []Effect{PopIn(1.2)}

	assert.Equal(t, 0.0, Resolve(list, 0).Scale)
	assert.InDelta(t, 1.0, Resolve(list, 89.0/90.0).Scale, 0.01)
	assert.Equal(t, 1.0, Resolve(list, 1).Scale)
}

func TestResolve_Fades(t *testing.T) {
	list := []Effect{FadeIn(0.2), FadeOut(0.2)}

	assert.Equal(t, 0.0, Resolve(list, 0).Alpha)
	assert.InDelta(t, 0.5, Resolve(list, 0.1).Alpha, 1e-9)
	assert.Equal(t, 1.0, Resolve(list, 0.5).Alpha)
	assert.InDelta(t, 0.5, Resolve(list, 0.9).Alpha, 1e-9)
	assert.InDelta(t, 0.0, Resolve(list, 1).Alpha, 1e-9)
}

func TestResolve_ShakeIsDeterministicAndBounded(t *testing.T) {
	shake := Shake(10, 12)
	for i := 0; i <= 100; i++ {
		p := float64(i) / 100
		a := Resolve([]Effect{shake}, p)
		b := Resolve([]Effect{shake}, p)
		assert.Equal(t, a, b)
		assert.LessOrEqual(t, math.Abs(a.DX), 10.0)
		assert.LessOrEqual(t, math.Abs(a.DY), 10.0)
		assert.Equal(t, 1.0, a.Scale)
	}

	decaying := shake
	decaying.Decay = true
	end := Resolve([]Effect{decaying}, 1)
	assert.InDelta(t, 0, end.DX, 1e-9)
	assert.InDelta(t, 0, end.DY, 1e-9)
}

func TestShakeOutsideSubWindow(t *testing.T) {
	shake := Shake(10, 5).Within(0.5, 0.25)
	assert.Equal(t, Identity(), Resolve([]Effect{shake}, 0.2))
	assert.Equal(t, Identity(), Resolve([]Effect{shake}, 0.9))
}

func TestDecorationsDoNotTransform(t *testing.T) {
	list := []Effect{Shadow(4, 4, "#000000b4"), Outline(3, "#000000"), Glow(12, "#ff6432")}
	assert.Equal(t, Identity(), Resolve(list, 0.4))
	for _, e := range list {
		assert.True(t, e.IsDecoration())
		assert.NoError(t, e.Validate())
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Effect{Kind: "spin"}.Validate())
	assert.Error(t, PopIn(1).Within(0.8, 0.5).Validate())
	assert.Error(t, Outline(2, "red").Validate())
	assert.NoError(t, FadeOut(0.1).Validate())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ed1c24")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 237, G: 28, B: 36, A: 255}, c)

	c, err = ParseColor("000000b4")
	require.NoError(t, err)
	assert.Equal(t, uint8(180), c.A)

	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestLerpColor(t *testing.T) {
	a := color.NRGBA{A: 255}
	b := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	assert.Equal(t, a, LerpColor(a, b, 0))
	assert.Equal(t, b, LerpColor(a, b, 1))
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 255}, LerpColor(a, b, 0.5))
}
