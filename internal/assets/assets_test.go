package assets

import (
	"bytes"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivlev/uno2video/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	tr, err := text.Load("")
	require.NoError(t, err)
	return NewBuilder(tr)
}

func TestCache_SingleComputationUnderContention(t *testing.T) {
	var c Cache
	var calls atomic.Int32
	key := Key{Kind: "card", Variant: "red +2", W: 200, H: 300}
	build := func() (*image.RGBA, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return image.NewRGBA(image.Rect(0, 0, 200, 300)), nil
	}

	const callers = 64
	results := make([]*image.RGBA, callers)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < callers; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			start.Wait()
			img, err := c.Get(key, build)
			assert.NoError(t, err)
			results[i] = img
		}(i)
	}
	start.Done()
	done.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int64(1), c.Builds())
	assert.Equal(t, 1, c.Len())
	for _, img := range results {
		assert.Same(t, results[0], img)
	}
}

func TestBuilder_CharacterDeterministic(t *testing.T) {
	a, err := newBuilder(t).Character(Neutral, 250)
	require.NoError(t, err)
	b, err := newBuilder(t).Character(Neutral, 250)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(250, 300), a.Bounds().Size())
	assert.True(t, bytes.Equal(a.Pix, b.Pix), "same variant and size must give identical bytes")
}

func TestBuilder_CachesByKey(t *testing.T) {
	b := newBuilder(t)
	first, err := b.Character(Shocked, 200)
	require.NoError(t, err)
	again, err := b.Character(Shocked, 200)
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = b.Character(Shocked, 300)
	require.NoError(t, err)
	builds, keys := b.Stats()
	assert.Equal(t, int64(2), builds)
	assert.Equal(t, 2, keys)
}

func TestBuilder_ExpressionsDiffer(t *testing.T) {
	b := newBuilder(t)
	neutral, err := b.Character(Neutral, 200)
	require.NoError(t, err)
	for _, e := range Expressions[1:] {
		t.Run(string(e), func(t *testing.T) {
			img, err := b.Character(e, 200)
			require.NoError(t, err)
			assert.False(t, bytes.Equal(neutral.Pix, img.Pix))
		})
	}
}

func TestBuilder_UnknownVariantsFailFast(t *testing.T) {
	b := newBuilder(t)

	_, err := b.Character(Expression("sleepy"), 200)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = ParseExpression("angry")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	tests := []struct {
		name string
		card Card
	}{
		{"unknown color", Card{Color: "purple", Face: DrawTwo}},
		{"unknown face", Card{Color: Red, Face: "+100"}},
		{"wild-only face on color", Card{Color: Green, Face: DrawTen}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Card(tt.card, 200, 300)
			assert.ErrorIs(t, err, ErrUnknownCard)
		})
	}
}

func TestCard_PlusFourIsNotWild(t *testing.T) {
	b := newBuilder(t)

	redTwo, err := b.Card(Card{Color: Red, Face: DrawTwo}, 200, 300)
	require.NoError(t, err)
	wildFour, err := b.Card(Card{Color: Wild, Face: DrawFour}, 200, 300)
	require.NoError(t, err)
	redFour, err := b.Card(Card{Color: Red, Face: DrawFour}, 200, 300)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(redTwo.Pix, wildFour.Pix))
	assert.False(t, bytes.Equal(redFour.Pix, wildFour.Pix))

	blue, _ := Blue.Base()
	assert.Greater(t, countNear(wildFour, blue.R, blue.G, blue.B), 500, "wild cards carry the four-color wheel")
	assert.Zero(t, countNear(redTwo, blue.R, blue.G, blue.B), "colored cards are a solid color fill")
	assert.Zero(t, countNear(redFour, blue.R, blue.G, blue.B))
}

func TestCard_AllFacesRender(t *testing.T) {
	b := newBuilder(t)
	faces := []Face{DrawTwo, DrawFour, Skip, SkipEveryone, Reverse, DiscardAll, Swap}
	for n := 0; n <= 9; n++ {
		faces = append(faces, Number(n))
	}
	for _, f := range faces {
		t.Run(string(f), func(t *testing.T) {
			img, err := b.Card(Card{Color: Yellow, Face: f}, 120, 180)
			require.NoError(t, err)
			assert.Equal(t, image.Pt(120, 180), img.Bounds().Size())
		})
	}
	for _, f := range []Face{DrawSix, DrawTen, ReverseFour, ColorRoulette} {
		_, err := b.Card(Card{Color: Wild, Face: f}, 120, 180)
		assert.NoError(t, err, f)
	}
}

func TestQRCode(t *testing.T) {
	b := newBuilder(t)
	img, err := b.QRCode("https://example.com/uno-no-mercy-rules", 240)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(240, 240), img.Bounds().Size())
	assert.Greater(t, countNear(img, 0, 0, 0), 0)
	assert.Greater(t, countNear(img, 255, 255, 255), 0)

	_, err = b.QRCode("", 240)
	assert.Error(t, err)
}

func countNear(img *image.RGBA, r, g, b uint8) int {
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d > -20 && d < 20
	}
	n := 0
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 255 && near(img.Pix[i], r) && near(img.Pix[i+1], g) && near(img.Pix[i+2], b) {
			n++
		}
	}
	return n
}
