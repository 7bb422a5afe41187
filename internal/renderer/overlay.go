package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/ivlev/uno2video/internal/assets"
	"github.com/ivlev/uno2video/internal/director"
	"github.com/ivlev/uno2video/internal/effects"
	"github.com/ivlev/uno2video/internal/text"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func (c *Compositor) drawOverlay(dst *image.RGBA, a director.Active, center image.Point, scale, alpha float64) error {
	o := a.Placement.Overlay
	if alpha <= 0 {
		return nil
	}
	p := a.Local
	switch o.Kind {
	case director.OverlayFlash:
		col, err := colorOr(o.Color, white)
		if err != nil {
			return err
		}
		k := intensity(o) * (1 - math.Abs(2*p-1))
		fillAlpha(dst, col, k*alpha)
	case director.OverlayFadeBlack:
		k := 1 - p
		if o.Out {
			k = p
		}
		fillAlpha(dst, black, k*alpha)
	case director.OverlayVignette:
		strength := o.Intensity
		if strength == 0 {
			strength = 0.8
		}
		vignetteOverlay(dst, strength*alpha)
	case director.OverlaySparkles:
		col, err := colorOr(o.Color, color.NRGBA{R: 255, G: 255, B: 200, A: 255})
		if err != nil {
			return err
		}
		sparkles(dst, *o, col, a.Elapsed, alpha)
	case director.OverlayEnergyWave:
		col, err := colorOr(o.Color, color.NRGBA{R: 255, G: 200, B: 100, A: 255})
		if err != nil {
			return err
		}
		energyWave(dst, center, p, col, intensity(o)*alpha)
	case director.OverlayCardRain:
		return c.cardRain(dst, *o, a.Elapsed, intensity(o)*alpha)
	case director.OverlayLowerThird:
		return c.lowerThird(dst, o.Caption, center.Y, alpha)
	case director.OverlayQRCode:
		img, err := c.assets.QRCode(o.Source, a.Placement.Width)
		if err != nil {
			return err
		}
		drawSprite(dst, img, center, scale, alpha)
	case director.OverlayImage:
		img, err := c.externalImage(o.Source, a.Placement.Width)
		if err != nil {
			return err
		}
		drawSprite(dst, img, center, scale, alpha)
	default:
		return fmt.Errorf("%w: overlay %q", director.ErrUnknownElement, o.Kind)
	}
	return nil
}

func intensity(o *director.Overlay) float64 {
	if o.Intensity == 0 {
		return 1
	}
	return o.Intensity
}

func fillAlpha(dst *image.RGBA, c color.NRGBA, a float64) {
	a = effects.Clamp01(a)
	if a == 0 {
		return
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(effects.WithAlpha(c, a)), image.Point{}, draw.Over)
}

// vignetteOverlay darkens toward the corners: alpha grows with the squared
// distance from the center, normalized by the half diagonal.
func vignetteOverlay(dst *image.RGBA, strength float64) {
	b := dst.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	diag := math.Hypot(cx, cy)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := dst.PixOffset(b.Min.X, y)
		dy := (float64(y-b.Min.Y) - cy) / diag
		for x := b.Min.X; x < b.Max.X; x, off = x+1, off+4 {
			dx := (float64(x-b.Min.X) - cx) / diag
			keep := 1 - math.Min((dx*dx+dy*dy)*strength, 1)
			for i := 0; i < 3; i++ {
				dst.Pix[off+i] = uint8(float64(dst.Pix[off+i]) * keep)
			}
		}
	}
}

// sparkles draws twinkling four-point stars drifting upward. Positions come
// from Seed and move with elapsed time only.
func sparkles(dst *image.RGBA, o director.Overlay, col color.NRGBA, elapsed, alpha float64) {
	count := o.Count
	if count == 0 {
		count = 20
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rng := rand.New(rand.NewPCG(uint64(o.Seed), 0x5a4c))
	for i := 0; i < count; i++ {
		x0, y0 := rng.Float64(), rng.Float64()
		size := 4 + rng.Float64()*10
		speed := 0.02 + rng.Float64()*0.06
		phase := rng.Float64() * 2 * math.Pi

		y := math.Mod(y0-elapsed*speed, 1)
		if y < 0 {
			y++
		}
		twinkle := 0.5 + 0.5*math.Sin(elapsed*3+phase)
		star(dst, x0*w, y*h, size*(0.6+0.4*twinkle), effects.WithAlpha(col, twinkle*alpha))
	}
}

// star fills a four-point star with a rasterizer sized to its clipped box.
func star(dst *image.RGBA, x, y, s float64, col color.NRGBA) {
	if col.A == 0 || s < 1 {
		return
	}
	clip := image.Rect(int(x-s)-1, int(y-s)-1, int(x+s)+2, int(y+s)+2).Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	ox, oy := float32(x-float64(clip.Min.X)), float32(y-float64(clip.Min.Y))
	fs, in := float32(s), float32(s)/4
	z.MoveTo(ox, oy-fs)
	z.LineTo(ox+in, oy-in)
	z.LineTo(ox+fs, oy)
	z.LineTo(ox+in, oy+in)
	z.LineTo(ox, oy+fs)
	z.LineTo(ox-in, oy+in)
	z.LineTo(ox-fs, oy)
	z.LineTo(ox-in, oy-in)
	z.ClosePath()
	z.Draw(dst, clip, image.NewUniform(col), image.Point{})
}

// energyWave is an expanding ring that thins and fades as p grows.
func energyWave(dst *image.RGBA, c image.Point, p float64, col color.NRGBA, alpha float64) {
	b := dst.Bounds()
	radius := p * 0.8 * float64(b.Dx())
	half := (12 + 28*(1-p)) / 2
	a := effects.Clamp01((1 - p) * alpha)
	if a == 0 {
		return
	}
	outer := int(radius + half + 1)
	box := image.Rect(c.X-outer, c.Y-outer, c.X+outer+1, c.Y+outer+1).Intersect(b)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		off := dst.PixOffset(box.Min.X, y)
		dy := float64(y - c.Y)
		for x := box.Min.X; x < box.Max.X; x, off = x+1, off+4 {
			dx := float64(x - c.X)
			cover := effects.Clamp01(half - math.Abs(math.Sqrt(dx*dx+dy*dy)-radius) + 0.5)
			if cover == 0 {
				continue
			}
			k := cover * a
			dst.Pix[off] = blend(dst.Pix[off], col.R, k)
			dst.Pix[off+1] = blend(dst.Pix[off+1], col.G, k)
			dst.Pix[off+2] = blend(dst.Pix[off+2], col.B, k)
		}
	}
}

func blend(dst, src uint8, k float64) uint8 {
	return uint8(float64(dst)*(1-k) + float64(src)*k + 0.5)
}

type drop struct {
	card  assets.Card
	w, h  int
	x, y0 float64
	speed float64
}

// rainDrops is the seeded layout of a card-rain overlay. Sizes come from a
// short list so the asset cache stays bounded.
func rainDrops(o director.Overlay) []drop {
	count := o.Count
	if count == 0 {
		count = 12
	}
	scales := []float64{0.4, 0.5, 0.6, 0.7}
	colors := []assets.CardColor{assets.Red, assets.Blue, assets.Green, assets.Yellow}
	rng := rand.New(rand.NewPCG(uint64(o.Seed), 0xca4d))
	out := make([]drop, count)
	for i := range out {
		s := scales[rng.IntN(len(scales))]
		out[i] = drop{
			card:  assets.Card{Color: colors[rng.IntN(len(colors))], Face: assets.Number(rng.IntN(10))},
			w:     int(150 * s),
			h:     int(220 * s),
			x:     rng.Float64(),
			y0:    rng.Float64(),
			speed: 0.15 + rng.Float64()*0.2,
		}
	}
	return out
}

// cardRain drops small number cards from the top edge, wrapping around.
func (c *Compositor) cardRain(dst *image.RGBA, o director.Overlay, elapsed, alpha float64) error {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	for _, d := range rainDrops(o) {
		img, err := c.assets.Card(d.card, d.w, d.h)
		if err != nil {
			return err
		}
		travel := h + 2*float64(d.h)
		y := math.Mod(d.y0*travel+elapsed*d.speed*h, travel) - float64(d.h)
		at := image.Pt(int(d.x*(w-float64(d.w))), int(y))
		effects.DrawOver(dst, img, at, alpha)
	}
	return nil
}

// lowerThird is a dark caption bar with a red accent line, centered on y.
func (c *Compositor) lowerThird(dst *image.RGBA, caption string, y int, alpha float64) error {
	b := dst.Bounds()
	barH := b.Dy() / 15
	bar := image.Rect(b.Min.X, y-barH/2, b.Max.X, y+barH/2)
	draw.Draw(dst, bar.Intersect(b), image.NewUniform(effects.WithAlpha(color.NRGBA{R: 20, G: 20, B: 20, A: 255}, alpha*200/255)), image.Point{}, draw.Over)
	accent := image.Rect(bar.Min.X, bar.Min.Y, bar.Max.X, bar.Min.Y+4)
	draw.Draw(dst, accent.Intersect(b), image.NewUniform(effects.WithAlpha(color.NRGBA{R: 220, G: 50, B: 50, A: 255}, alpha)), image.Point{}, draw.Over)

	size := math.Min(float64(barH)*0.5, float64(b.Dx())*0.04)
	block := text.Block{Content: caption, Size: size, Color: "#ffffff"}
	_, err := c.text.DrawWith(dst, block, image.Pt(b.Min.X+b.Dx()/2, y+2), 1, effects.Transform{Scale: 1, Alpha: alpha})
	return err
}

// externalImage loads a named raster and resizes it to width, keeping its
// aspect. Results are cached per (name, width).
func (c *Compositor) externalImage(name string, width int) (*image.RGBA, error) {
	if c.images == nil {
		return nil, fmt.Errorf("image %q: %w", name, errNoImageSource)
	}
	src, err := c.images.Image(name)
	if err != nil {
		return nil, err
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, fmt.Errorf("image %q is empty", name)
	}
	height := int(math.Round(float64(width) * float64(sb.Dy()) / float64(sb.Dx())))
	k := assets.Key{Kind: "image", Variant: name, W: width, H: height}
	return c.scaled.Get(k, func() (*image.RGBA, error) {
		dst := image.NewRGBA(image.Rect(0, 0, width, max(height, 1)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
		return dst, nil
	})
}
