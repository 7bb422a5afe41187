package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/uno2video/internal/assets"
	"github.com/ivlev/uno2video/internal/config"
	"github.com/ivlev/uno2video/internal/director"
	"github.com/ivlev/uno2video/internal/effects"
	"github.com/ivlev/uno2video/internal/system"
	"github.com/ivlev/uno2video/internal/text"
)

// ImageSource resolves named external rasters for image overlays.
type ImageSource interface {
	Image(name string) (image.Image, error)
}

var errNoImageSource = errors.New("no image source configured")

// Compositor turns a global time into a finished frame. It only reads
// shared state, so one Compositor serves every render worker.
type Compositor struct {
	timeline *director.Timeline
	assets   *assets.Builder
	text     *text.Renderer
	images   ImageSource
	scaled   assets.Cache // external images resized to their placement width
	bounds   image.Rectangle
}

func New(tl *director.Timeline, b *assets.Builder, tr *text.Renderer, images ImageSource) *Compositor {
	return &Compositor{
		timeline: tl,
		assets:   b,
		text:     tr,
		images:   images,
		bounds:   image.Rect(0, 0, config.Width, config.Height),
	}
}

func (c *Compositor) Timeline() *director.Timeline { return c.timeline }

// Render draws frame i at t = i / FPS.
func (c *Compositor) Render(frame int) (*image.RGBA, error) {
	return c.RenderAt(config.FrameTime(frame), frame)
}

// RenderAt draws the frame for global time t. The frame index seeds the
// glitch noise. The returned canvas comes from the shared pool; hand it back
// with Release once persisted.
func (c *Compositor) RenderAt(t float64, frame int) (*image.RGBA, error) {
	return c.render(t, frame, nil)
}

// RenderBackdrop draws only the background and ambient overlays at t: the
// frame as it would look without any content elements.
func (c *Compositor) RenderBackdrop(t float64, frame int) (*image.RGBA, error) {
	return c.render(t, frame, func(pl *director.Placement) bool {
		return pl.Element == director.ElementOverlay && pl.Overlay.Kind.Ambient()
	})
}

func (c *Compositor) render(t float64, frame int, keep func(*director.Placement) bool) (*image.RGBA, error) {
	sc, active, err := c.timeline.ActiveAt(t)
	if err != nil {
		return nil, err
	}
	canvas := system.GetImage(c.bounds)
	if err := drawBackground(canvas, sc.Background, t-sc.Start, frame); err != nil {
		Release(canvas)
		return nil, fmt.Errorf("scene %q background: %w", sc.ID, err)
	}
	for _, a := range active {
		if keep != nil && !keep(a.Placement) {
			continue
		}
		if err := c.drawPlacement(canvas, a, frame); err != nil {
			Release(canvas)
			return nil, fmt.Errorf("frame %d scene %q placement %d (%s): %w", frame, sc.ID, a.Index, a.Placement.Element, err)
		}
	}
	return canvas, nil
}

// Release returns a rendered canvas to the pool.
func Release(img *image.RGBA) {
	system.PutImage(img)
}

func (c *Compositor) drawPlacement(dst *image.RGBA, a director.Active, frame int) error {
	pl := a.Placement
	m, err := motionAt(pl, a.Local)
	if err != nil {
		return err
	}
	tr := effects.Resolve(pl.Effects, a.Local)
	center := image.Pt(
		int(math.Round(m.X*float64(c.bounds.Dx())+tr.DX)),
		int(math.Round(m.Y*float64(c.bounds.Dy())+tr.DY)),
	)
	scale := m.Scale * tr.Scale
	alpha := m.Alpha * tr.Alpha

	switch pl.Element {
	case director.ElementCharacter:
		img, err := c.assets.Character(pl.Character, pl.Width)
		if err != nil {
			return err
		}
		drawSprite(dst, img, center, scale, alpha)
	case director.ElementCard:
		img, err := c.assets.Card(*pl.Card, pl.Width, pl.Height)
		if err != nil {
			return err
		}
		drawSprite(dst, img, center, scale, alpha)
	case director.ElementText:
		block := *pl.Text
		if pl.Counter > 0 {
			block.Content = counterValue(pl.Counter, a.Local)
		}
		base := effects.Transform{Scale: scale, Alpha: alpha}
		_, err := c.text.DrawWith(dst, block, center, a.Local, base)
		return err
	case director.ElementOverlay:
		return c.drawOverlay(dst, a, center, scale, alpha)
	default:
		return fmt.Errorf("%w: %q", director.ErrUnknownElement, pl.Element)
	}
	return nil
}

// drawSprite composites a cached raster centered on c. Scaling produces a
// fresh image, the cached one is never written.
func drawSprite(dst *image.RGBA, img *image.RGBA, c image.Point, scale, alpha float64) {
	if alpha <= 0 || scale <= 0 {
		return
	}
	if img = effects.Scale(img, scale); img == nil {
		return
	}
	effects.DrawCentered(dst, img, c, alpha)
}

// counterValue counts from 0 up to n over the placement window.
func counterValue(n int, p float64) string {
	v := int(math.Floor(effects.Clamp01(p) * float64(n+1)))
	if v > n {
		v = n
	}
	return fmt.Sprint(v)
}

// Preload builds every raster the timeline will ask for, concurrently, and
// checks that external images resolve. Errors surface here rather than mid-run.
func (c *Compositor) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, sc := range c.timeline.Scenes() {
		for i := range sc.Placements {
			pl := sc.Placements[i]
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return c.warm(pl)
			})
		}
	}
	return g.Wait()
}

func (c *Compositor) warm(pl director.Placement) error {
	switch pl.Element {
	case director.ElementCharacter:
		_, err := c.assets.Character(pl.Character, pl.Width)
		return err
	case director.ElementCard:
		_, err := c.assets.Card(*pl.Card, pl.Width, pl.Height)
		return err
	case director.ElementOverlay:
		switch o := pl.Overlay; o.Kind {
		case director.OverlayQRCode:
			_, err := c.assets.QRCode(o.Source, pl.Width)
			return err
		case director.OverlayImage:
			_, err := c.externalImage(o.Source, pl.Width)
			return err
		case director.OverlayCardRain:
			for _, d := range rainDrops(*o) {
				if _, err := c.assets.Card(d.card, d.w, d.h); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
