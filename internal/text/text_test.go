package text

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/ivlev/uno2video/internal/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := Load("")
	require.NoError(t, err)
	return r
}

func TestLoad_FontErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.ErrorIs(t, err, ErrFont)

	_, err = Parse([]byte("definitely not a font"), "junk.ttf")
	assert.ErrorIs(t, err, ErrFont)
}

func TestDraw_PopInScale(t *testing.T) {
	r := newRenderer(t)
	title := Block{
		Content: "UNO NO MERCY",
		Size:    96,
		Style:   "yellow-impact",
		Effects: []effects.Effect{effects.PopIn(1.2)},
	}
	center := image.Pt(540, 400)

	start := image.NewRGBA(image.Rect(0, 0, 1080, 800))
	res, err := r.Draw(start, title, center, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Scale)
	assert.True(t, res.Bounds.Empty(), "nothing is drawn at pop-in start")
	assert.Equal(t, make([]uint8, len(start.Pix)), start.Pix)

	full, err := r.Layer(mustExpand(t, title), title.Size)
	require.NoError(t, err)

	settled := image.NewRGBA(image.Rect(0, 0, 1080, 800))
	res, err = r.Draw(settled, title, center, 89.0/90.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Scale, 0.01)
	assert.InDelta(t, full.Bounds().Dx(), res.Bounds.Dx(), float64(full.Bounds().Dx())*0.02)
}

func TestDraw_Deterministic(t *testing.T) {
	r := newRenderer(t)
	b := Block{
		Content: "+4 IS NOT WILD",
		Size:    64,
		Style:   "red-bold",
		Effects: []effects.Effect{effects.Shake(8, 6), effects.Glow(6, "#ff6432")},
	}
	render := func() []byte {
		img := image.NewRGBA(image.Rect(0, 0, 800, 300))
		_, err := r.Draw(img, b, image.Pt(400, 150), 0.37)
		require.NoError(t, err)
		return img.Pix
	}
	assert.True(t, bytes.Equal(render(), render()))
}

func TestDraw_ShakeMovesBounds(t *testing.T) {
	r := newRenderer(t)
	still := Block{Content: "CHAOS", Size: 48}
	shaken := still
	shaken.Effects = []effects.Effect{effects.Shake(20, 3)}

	a, err := r.Draw(image.NewRGBA(image.Rect(0, 0, 600, 300)), still, image.Pt(300, 150), 0.1)
	require.NoError(t, err)
	b, err := r.Draw(image.NewRGBA(image.Rect(0, 0, 600, 300)), shaken, image.Pt(300, 150), 0.1)
	require.NoError(t, err)

	assert.Equal(t, a.Bounds.Size(), b.Bounds.Size())
	assert.NotEqual(t, a.Bounds.Min, b.Bounds.Min)
}

func TestLayer_DecorationsGrowLayer(t *testing.T) {
	r := newRenderer(t)
	plain, err := r.Layer(Block{Content: "SKIP", Size: 40}, 40)
	require.NoError(t, err)
	outlined, err := r.Layer(Block{Content: "SKIP", Size: 40, Effects: []effects.Effect{
		effects.Outline(5, "#000000"),
		effects.Shadow(6, 6, "#00000080"),
	}}, 40)
	require.NoError(t, err)

	assert.Greater(t, outlined.Bounds().Dx(), plain.Bounds().Dx())
	assert.Greater(t, outlined.Bounds().Dy(), plain.Bounds().Dy())
}

func TestDraw_FadeAlpha(t *testing.T) {
	r := newRenderer(t)
	b := Block{Content: "bye", Size: 40, Effects: []effects.Effect{effects.FadeOut(0.5)}}
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))

	res, err := r.Draw(img, b, image.Pt(100, 50), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Alpha)
	assert.True(t, res.Bounds.Empty())
}

func TestMeasure_Multiline(t *testing.T) {
	r := newRenderer(t)
	w1, h1, err := r.Measure("DRAW", 50)
	require.NoError(t, err)
	w2, h2, err := r.Measure("DRAW\nDRAW", 50)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
	assert.Equal(t, 2*h1, h2)
}

func TestBlock_ExpandAndValidate(t *testing.T) {
	b, err := Block{Content: "x", Size: 10, Style: "blue-clean", Effects: []effects.Effect{effects.FadeIn(0.2)}}.Expand()
	require.NoError(t, err)
	assert.Equal(t, "#64b4ff", b.Color)
	require.Len(t, b.Effects, 2)
	assert.Equal(t, effects.KindOutline, b.Effects[0].Kind)
	assert.Equal(t, effects.KindFadeIn, b.Effects[1].Kind)

	tests := []struct {
		name    string
		block   Block
		wantErr bool
	}{
		{"ok", Block{Content: "ok", Size: 20, Style: "white-outline"}, false},
		{"zero size", Block{Content: "z", Size: 0}, true},
		{"bad style", Block{Content: "s", Size: 20, Style: "comic-sans"}, true},
		{"bad color", Block{Content: "c", Size: 20, Color: "red"}, true},
		{"bad effect", Block{Content: "e", Size: 20, Effects: []effects.Effect{{Kind: "spin"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoxBlur_SpreadsAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 9, 9))
	o := img.PixOffset(4, 4)
	img.Pix[o+3] = 255
	boxBlur(img, 1)
	assert.Less(t, img.Pix[o+3], uint8(255))
	assert.Greater(t, img.Pix[img.PixOffset(3, 4)+3], uint8(0))
	assert.Equal(t, uint8(0), img.Pix[img.PixOffset(0, 0)+3])
}

func mustExpand(t *testing.T, b Block) Block {
	t.Helper()
	e, err := b.Expand()
	require.NoError(t, err)
	return e
}
