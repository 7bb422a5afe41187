package analyzer

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/uno2video/internal/director"
)

func grayWithRects(w, h int, rects ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range rects {
		draw.Draw(img, r, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	}
	return img
}

func TestContrastDetector(t *testing.T) {
	img := grayWithRects(200, 200, image.Rect(50, 50, 150, 150), image.Rect(20, 180, 120, 190))

	blocks, err := NewContrastDetector().Detect(img)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	square, bar := blocks[0], blocks[1]
	if square.Rect.Min.Y > bar.Rect.Min.Y {
		square, bar = bar, square
	}
	assert.True(t, square.Rect.Overlaps(image.Rect(50, 50, 150, 150)))
	assert.GreaterOrEqual(t, square.Rect.Dx(), 100)
	assert.Equal(t, "figure", square.Type)
	assert.Equal(t, "text", bar.Type)
}

func TestContrastDetector_IgnoresSmallAndFlat(t *testing.T) {
	blocks, err := NewContrastDetector().Detect(grayWithRects(100, 100))
	require.NoError(t, err)
	assert.Empty(t, blocks)

	blocks, err = NewContrastDetector().Detect(grayWithRects(100, 100, image.Rect(10, 10, 12, 12)))
	require.NoError(t, err)
	assert.Empty(t, blocks, "a 2x2 speck is below the minimum area")
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"contrast", false},
		{"", false},
		{"ocr", true},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			d, err := NewDetector(tt.variant)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, d)
		})
	}
}

func TestSafeZoneRect(t *testing.T) {
	r := VerticalSafeZone.Rect(image.Rect(0, 0, 1080, 1920))
	assert.Equal(t, image.Rect(32, 134, 951, 1632), r)
}

func frames(w, h int, content ...image.Rectangle) (frame, backdrop *image.RGBA) {
	backdrop = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(backdrop, backdrop.Bounds(), image.NewUniform(color.RGBA{R: 40, G: 10, B: 60, A: 255}), image.Point{}, draw.Src)
	frame = image.NewRGBA(backdrop.Bounds())
	copy(frame.Pix, backdrop.Pix)
	for _, r := range content {
		draw.Draw(frame, r, image.NewUniform(color.RGBA{R: 250, G: 250, B: 250, A: 255}), image.Point{}, draw.Src)
	}
	return frame, backdrop
}

func TestCheckSafeZone(t *testing.T) {
	// 1:4 scale of the vertical canvas
	frame, backdrop := frames(270, 480,
		image.Rect(60, 200, 200, 260),  // centered, safe
		image.Rect(150, 440, 265, 475), // low right, under the player UI
	)
	violations, err := CheckSafeZone(NewContrastDetector(), frame, backdrop, VerticalSafeZone, 2)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, []string{"bottom", "right"}, violations[0].Sides)
	assert.Greater(t, violations[0].Block.Rect.Max.Y, 400, "rects are reported in frame pixels")
	assert.Contains(t, violations[0].String(), "bottom/right")
}

func TestContentMap_IgnoresBackdrop(t *testing.T) {
	frame, backdrop := frames(64, 64)
	m := ContentMap(frame, backdrop, 1)
	for _, v := range m.Pix {
		require.Zero(t, v)
	}
	assert.Equal(t, image.Rect(0, 0, 16, 16), ContentMap(frame, backdrop, 4).Bounds())
}

// stubLayers draws a caption bar in the bottom margin for every frame.
type stubLayers struct{ frames []int }

func (s *stubLayers) RenderAt(t float64, frame int) (*image.RGBA, error) {
	s.frames = append(s.frames, frame)
	img, _ := frames(1080, 1920, image.Rect(300, 1800, 800, 1880))
	return img, nil
}

func (s *stubLayers) RenderBackdrop(t float64, frame int) (*image.RGBA, error) {
	_, bg := frames(1080, 1920)
	return bg, nil
}

func TestCheckScenes(t *testing.T) {
	scenes := []director.Scene{{ID: "a", Start: 0, End: 3}, {ID: "b", Start: 3, End: 15}}
	r := &stubLayers{}
	checks, err := CheckScenes(r, scenes, NewContrastDetector(), VerticalSafeZone)
	require.NoError(t, err)
	assert.Equal(t, []int{45, 270}, r.frames)
	require.Len(t, checks, 2)
	for _, c := range checks {
		require.Len(t, c.Violations, 1, c.Scene)
		assert.Equal(t, []string{"bottom"}, c.Violations[0].Sides)
	}
}
