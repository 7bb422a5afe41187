package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/uno2video/internal/config"
	"github.com/ivlev/uno2video/internal/system"
)

// NarrationFile is the TTS input written next to the frames directory.
const NarrationFile = "voiceover_script.txt"

var ErrMissingFrame = errors.New("frame was not written")

// FrameRenderer produces the finished canvas for one frame index.
// Implementations must be safe for concurrent use.
type FrameRenderer interface {
	Render(frame int) (*image.RGBA, error)
}

// FrameSink persists a frame. It may modify img; the engine releases it afterwards.
type FrameSink interface {
	WriteFrame(index int, img *image.RGBA) error
}

// AssetStats reports procedural asset cache activity for the performance report.
type AssetStats interface {
	Stats() (builds int64, keys int)
}

type VideoProject struct {
	Config    *config.Config
	Renderer  FrameRenderer
	Sink      FrameSink
	Narration string
	Frames    int
	Assets    AssetStats
}

func NewVideoProject(cfg *config.Config, r FrameRenderer, sink FrameSink, narration string) *VideoProject {
	return &VideoProject{
		Config:    cfg,
		Renderer:  r,
		Sink:      sink,
		Narration: narration,
		Frames:    config.TotalFrames,
	}
}

type renderResult struct {
	Index int
	Image *image.RGBA
}

// Run renders and persists every frame, then writes the narration script.
// The first failure cancels all workers and is returned; no partial run
// is reported as success.
func (p *VideoProject) Run(ctx context.Context) (*Report, error) {
	if p.Frames <= 0 {
		return nil, fmt.Errorf("nothing to render: %d frames", p.Frames)
	}
	startTime := time.Now()
	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return nil, err
	}

	log.Info().Msg("--- [PROJECT: UNO2VIDEO ENGINE] ---")
	log.Info().Msgf("[*] Canvas: %dx%d @ %d FPS | Frames: %d | Workers: %d render / %d write",
		config.Width, config.Height, config.FPS, p.Frames, p.Config.Workers, p.Config.WriteWorkers)

	// jobs -> render workers -> results -> write workers
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan renderResult, p.Config.WriteWorkers*2)
	written := make([]atomic.Bool, p.Frames)
	var renderNanos, writeNanos, done atomic.Int64
	var renderEnd time.Time

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < p.Frames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	renderers, rctx := errgroup.WithContext(gctx)
	for w := 0; w < min(p.Config.Workers, p.Frames); w++ {
		renderers.Go(func() error {
			for i := range jobs {
				t0 := time.Now()
				img, err := p.Renderer.Render(i)
				if err != nil {
					return fmt.Errorf("render frame %d: %w", i, err)
				}
				renderNanos.Add(int64(time.Since(t0)))
				select {
				case results <- renderResult{Index: i, Image: img}:
				case <-rctx.Done():
					system.PutImage(img)
					return rctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		err := renderers.Wait()
		renderEnd = time.Now()
		return err
	})

	for w := 0; w < p.Config.WriteWorkers; w++ {
		g.Go(func() error {
			for res := range results {
				if gctx.Err() != nil {
					system.PutImage(res.Image)
					continue
				}
				t0 := time.Now()
				err := p.Sink.WriteFrame(res.Index, res.Image)
				system.PutImage(res.Image)
				if err != nil {
					return fmt.Errorf("write frame %d: %w", res.Index, err)
				}
				writeNanos.Add(int64(time.Since(t0)))
				if written[res.Index].Swap(true) {
					return fmt.Errorf("frame %d written twice", res.Index)
				}
				if n := done.Add(1); n%int64(p.Config.ProgressEvery) == 0 || n == int64(p.Frames) {
					log.Info().Msgf("[>] Frames ready: %d/%d", n, p.Frames)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := range written {
		if !written[i].Load() {
			return nil, fmt.Errorf("%w: %d", ErrMissingFrame, i)
		}
	}

	scriptPath := filepath.Join(p.Config.OutputDir, NarrationFile)
	if err := os.WriteFile(scriptPath, []byte(p.Narration+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write narration: %w", err)
	}
	log.Info().Msgf("[*] Narration script: %s", scriptPath)

	report := &Report{
		Build:       p.Config.BuildVersion,
		Frames:      p.Frames,
		Workers:     p.Config.Workers,
		Total:       time.Since(startTime),
		RenderWall:  renderEnd.Sub(startTime),
		RenderCPU:   time.Duration(renderNanos.Load()),
		WriteCPU:    time.Duration(writeNanos.Load()),
		NarrationAt: scriptPath,
	}
	if p.Assets != nil {
		report.AssetBuilds, report.AssetKeys = p.Assets.Stats()
	}
	if p.Config.ShowStats {
		host, err := system.SampleHost(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("[!] Host stats unavailable")
		} else {
			report.Host = host
		}
	}
	return report, nil
}
