package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/ivlev/uno2video/internal/director"
	"github.com/ivlev/uno2video/internal/effects"
)

var unoColors = [4]color.NRGBA{
	{R: 220, G: 50, B: 50, A: 255},
	{R: 50, G: 100, B: 200, A: 255},
	{R: 50, G: 180, B: 80, A: 255},
	{R: 250, G: 200, B: 50, A: 255},
}

// drawBackground overwrites every pixel of dst. Pooled canvases are not
// cleared, so each kind must paint the full frame opaque.
// t is seconds since the scene started.
func drawBackground(dst *image.RGBA, bg director.Background, t float64, frame int) error {
	switch bg.Kind {
	case director.BackgroundGradient:
		return gradient(dst, bg, t)
	case director.BackgroundSpotlight:
		spotlight(dst, bg, t)
	case director.BackgroundChaos:
		chaos(dst, bg, frame)
	case director.BackgroundVignette:
		return vignetted(dst, bg)
	case director.BackgroundUnoTheme:
		unoTheme(dst, t)
	default:
		return fmt.Errorf("%w: background %q", director.ErrUnknownElement, bg.Kind)
	}
	return nil
}

func colorOr(s string, def color.NRGBA) (color.NRGBA, error) {
	if s == "" {
		return def, nil
	}
	return effects.ParseColor(s)
}

func byte8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

func setPix(pix []uint8, off int, r, g, b float64) {
	pix[off] = byte8(r)
	pix[off+1] = byte8(g)
	pix[off+2] = byte8(b)
	pix[off+3] = 255
}

// gradient is a vertical blend; Intensity adds a warm light drifting across.
func gradient(dst *image.RGBA, bg director.Background, t float64) error {
	top, err := colorOr(bg.From, color.NRGBA{R: 30, G: 10, B: 20, A: 255})
	if err != nil {
		return err
	}
	bottom, err := colorOr(bg.To, color.NRGBA{R: 5, G: 2, B: 8, A: 255})
	if err != nil {
		return err
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	lx := (0.5 + 0.3*math.Sin(t*0.5)) * w
	ly := (0.35 + 0.1*math.Cos(t*0.7)) * h
	radius := 0.6 * w

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := effects.LerpColor(top, bottom, float64(y-b.Min.Y)/math.Max(h-1, 1))
		off := dst.PixOffset(b.Min.X, y)
		dy := float64(y) - ly
		for x := b.Min.X; x < b.Max.X; x, off = x+1, off+4 {
			r, g, bl := float64(row.R), float64(row.G), float64(row.B)
			if bg.Intensity > 0 {
				dx := float64(x) - lx
				if d := math.Sqrt(dx*dx+dy*dy) / radius; d < 1 {
					k := (1 - d) * (1 - d) * bg.Intensity
					r += 90 * k
					g += 30 * k
					bl += 45 * k
				}
			}
			setPix(dst.Pix, off, r, g, bl)
		}
	}
	return nil
}

// spotlight is a warm pool of light on black; Sway moves it around the anchor.
func spotlight(dst *image.RGBA, bg director.Background, t float64) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	cx := (bg.X + math.Sin(t*0.4)*bg.Sway) * w
	cy := (bg.Y + math.Cos(t*0.3)*bg.Sway/3) * h
	maxDist := math.Max(w, h) * 0.7

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := dst.PixOffset(b.Min.X, y)
		dy := float64(y) - cy
		for x := b.Min.X; x < b.Max.X; x, off = x+1, off+4 {
			dx := float64(x) - cx
			bright := (1 - math.Min(math.Sqrt(dx*dx+dy*dy)/maxDist, 1)) * bg.Intensity
			lit := 10 + 60*bright
			setPix(dst.Pix, off, lit, lit/2, lit/2)
		}
	}
}

// chaos scatters translucent UNO-colored blocks over a dark base. The
// pattern reshuffles ten times a second and depends only on Seed and frame.
func chaos(dst *image.RGBA, bg director.Background, frame int) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(color.NRGBA{R: 15, G: 10, B: 20, A: 255}), image.Point{}, draw.Src)

	rng := rand.New(rand.NewPCG(uint64(bg.Seed), uint64(frame/3)))
	for i := 0; i < 20; i++ {
		c := unoColors[rng.IntN(len(unoColors))]
		c.A = 100
		x := b.Min.X + rng.IntN(b.Dx())
		y := b.Min.Y + rng.IntN(b.Dy())
		r := image.Rect(x, y, x+20+rng.IntN(180), y+10+rng.IntN(90))
		draw.Draw(dst, r.Intersect(b), image.NewUniform(c), image.Point{}, draw.Over)
	}
}

// vignetted is a solid color darkened toward the corners by Intensity.
func vignetted(dst *image.RGBA, bg director.Background) error {
	base, err := colorOr(bg.From, color.NRGBA{R: 25, G: 20, B: 35, A: 255})
	if err != nil {
		return err
	}
	strength := bg.Intensity
	if strength == 0 {
		strength = 0.5
	}
	b := dst.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	diag := math.Hypot(cx, cy)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := dst.PixOffset(b.Min.X, y)
		dy := (float64(y-b.Min.Y) - cy) / diag
		for x := b.Min.X; x < b.Max.X; x, off = x+1, off+4 {
			dx := (float64(x-b.Min.X) - cx) / diag
			f := 1 - math.Min((dx*dx+dy*dy)*strength, 0.7)
			setPix(dst.Pix, off, float64(base.R)*f, float64(base.G)*f, float64(base.B)*f)
		}
	}
	return nil
}

// unoTheme has four colored bars on each side, bobbing out of phase.
func unoTheme(dst *image.RGBA, t float64) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(color.NRGBA{R: 20, G: 20, B: 30, A: 255}), image.Point{}, draw.Src)

	barH := b.Dy() / 4
	for i, c := range unoColors {
		c.A = 80
		y := b.Min.Y + i*barH
		offset := int(math.Sin(t*2+float64(i)*0.5) * 20)
		left := image.Rect(b.Min.X+offset, y, b.Min.X+offset+50, y+barH)
		right := image.Rect(b.Max.X-50-offset, y, b.Max.X-offset, y+barH)
		for _, r := range []image.Rectangle{left, right} {
			draw.Draw(dst, r.Intersect(b), image.NewUniform(c), image.Point{}, draw.Over)
		}
	}
}
