package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestImageSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"), 40, 20)
	writePNG(t, filepath.Join(dir, "B.PNG"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))

	s, err := NewImageSource(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"B.PNG", "broken.png", "logo.png"}, s.Names())

	w, h, err := s.Dimensions("logo.png")
	require.NoError(t, err)
	assert.Equal(t, [2]int{40, 20}, [2]int{w, h})

	var wg sync.WaitGroup
	got := make([]image.Image, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = s.Image("logo.png")
		}()
	}
	wg.Wait()
	for _, img := range got {
		require.NotNil(t, img)
		assert.Same(t, got[0], img)
	}

	_, err = s.Image("missing.png")
	assert.ErrorIs(t, err, ErrAssetMissing)
	_, err = s.Image("broken.png")
	assert.Error(t, err)
}

func TestImageSource_MissingDir(t *testing.T) {
	s, err := NewImageSource(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, s.Names())
	_, err = s.Image("logo.png")
	assert.ErrorIs(t, err, ErrAssetMissing)
}

func TestImageSource_Check(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"), 40, 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))

	s, err := NewImageSource(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		names   []string
		wantErr error
		anyErr  bool
	}{
		{name: "none"},
		{name: "present", names: []string{"logo.png"}},
		{name: "missing", names: []string{"logo.png", "box.webp"}, wantErr: ErrAssetMissing},
		{name: "corrupt", names: []string{"broken.png"}, anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Check(tt.names)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "logo.png")
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
