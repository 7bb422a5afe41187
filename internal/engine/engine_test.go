package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/uno2video/internal/config"
	"github.com/ivlev/uno2video/internal/system"
)

// stripeRenderer paints a tiny translucent frame whose first pixel encodes the index.
type stripeRenderer struct {
	failAt int
}

func (r stripeRenderer) Render(frame int) (*image.RGBA, error) {
	if r.failAt > 0 && frame == r.failAt {
		return nil, errors.New("boom")
	}
	img := system.GetImage(image.Rect(0, 0, 4, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 60, 30, 0, 128
	}
	img.Pix[0] = uint8(frame % 256)
	img.Pix[1] = uint8(frame / 256)
	return img, nil
}

// memSink records first-pixel payloads instead of writing files.
type memSink struct {
	mu     sync.Mutex
	frames map[int][2]uint8
}

func (s *memSink) WriteFrame(index int, img *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames == nil {
		s.frames = make(map[int][2]uint8)
	}
	s.frames[index] = [2]uint8{img.Pix[0], img.Pix[1]}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		OutputDir:      t.TempDir(),
		Workers:        4,
		WriteWorkers:   3,
		PNGCompression: "speed",
		ProgressEvery:  500,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRun_EveryFrameOnce(t *testing.T) {
	cfg := testConfig(t)
	sink := &memSink{}
	p := NewVideoProject(cfg, stripeRenderer{}, sink, "First.\n\nSecond.")

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.frames, config.TotalFrames)
	for i := 0; i < config.TotalFrames; i++ {
		assert.Equal(t, [2]uint8{uint8(i % 256), uint8(i / 256)}, sink.frames[i], "frame %d", i)
	}
	assert.Equal(t, config.TotalFrames, report.Frames)
	assert.Greater(t, report.FPS(), 0.0)

	script, err := os.ReadFile(filepath.Join(cfg.OutputDir, NarrationFile))
	require.NoError(t, err)
	assert.Equal(t, "First.\n\nSecond.\n", string(script))
}

func TestRun_RenderErrorStopsRun(t *testing.T) {
	cfg := testConfig(t)
	p := NewVideoProject(cfg, stripeRenderer{failAt: 700}, &memSink{}, "x")

	report, err := p.Run(context.Background())
	assert.Nil(t, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render frame 700")
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, NarrationFile))
}

type failingSink struct{ at int }

func (s failingSink) WriteFrame(index int, _ *image.RGBA) error {
	if index == s.at {
		return fmt.Errorf("disk full")
	}
	return nil
}

func TestRun_WriteErrorStopsRun(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewVideoProject(cfg, stripeRenderer{}, failingSink{at: 10}, "x").Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write frame 10")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewVideoProject(testConfig(t), stripeRenderer{}, &memSink{}, "x").Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSink_WritesOpaqueNumberedFrames(t *testing.T) {
	cfg := testConfig(t)
	sink, err := NewDirSink(cfg.OutputDir, cfg.PNGCompression)
	require.NoError(t, err)

	p := NewVideoProject(cfg, stripeRenderer{}, sink, "narration")
	p.Frames = 45
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(sink.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 45)
	assert.Equal(t, "frame_00000.png", entries[0].Name())
	assert.Equal(t, "frame_00044.png", entries[44].Name())

	f, err := os.Open(sink.FramePath(44))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	r, g, b, a := img.At(3, 1).RGBA()
	assert.Equal(t, uint32(0xffff), a, "frames are flattened over black")
	assert.Equal(t, [3]uint32{60, 30, 0}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestReport_PrintAppendsBenchmark(t *testing.T) {
	path := filepath.Join(t.TempDir(), BenchmarkLog)
	r := &Report{Build: "test", Frames: 10, Workers: 2, Total: 2e9}
	r.Print(path)
	r.Print(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Build: test | Frames: 10")
	assert.Contains(t, string(data), "FPS: 5.00")
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
	assert.Contains(t, r.String(), "--- [PERFORMANCE REPORT] ---")
}
