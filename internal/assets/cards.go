package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ivlev/uno2video/internal/effects"
	"github.com/ivlev/uno2video/internal/text"
)

var ErrUnknownCard = errors.New("unknown card")

type CardColor string

const (
	Red    CardColor = "red"
	Blue   CardColor = "blue"
	Green  CardColor = "green"
	Yellow CardColor = "yellow"
	Wild   CardColor = "wild"
)

type Face string

const (
	DrawTwo       Face = "+2"
	DrawFour      Face = "+4"
	DrawSix       Face = "+6"
	DrawTen       Face = "+10"
	Skip          Face = "skip"
	SkipEveryone  Face = "skip-everyone"
	Reverse       Face = "reverse"
	ReverseFour   Face = "reverse+4"
	DiscardAll    Face = "discard-all"
	ColorRoulette Face = "color-roulette"
	Swap          Face = "swap"
)

// Number returns the face for a numeral card 0-9.
func Number(n int) Face {
	return Face(fmt.Sprintf("%d", n))
}

// Card is a card descriptor. Rendering is a pure function of it.
type Card struct {
	Color CardColor `yaml:"color"`
	Face  Face      `yaml:"face"`
}

func (c Card) String() string { return string(c.Color) + " " + string(c.Face) }

// shades are base, dark and light tints of a card color.
type shades struct{ base, dark, light color.NRGBA }

func (c CardColor) shades() (shades, error) {
	switch c {
	case Red:
		return shades{rgba(237, 28, 36, 255), rgba(180, 20, 25, 255), rgba(255, 80, 80, 255)}, nil
	case Blue:
		return shades{rgba(0, 114, 188, 255), rgba(0, 80, 140, 255), rgba(80, 160, 230, 255)}, nil
	case Green:
		return shades{rgba(0, 166, 81, 255), rgba(0, 120, 60, 255), rgba(80, 200, 120, 255)}, nil
	case Yellow:
		return shades{rgba(255, 237, 0, 255), rgba(200, 180, 0, 255), rgba(255, 250, 100, 255)}, nil
	case Wild:
		return shades{rgba(35, 31, 32, 255), rgba(20, 18, 18, 255), rgba(60, 55, 55, 255)}, nil
	}
	return shades{}, fmt.Errorf("%w: color %q", ErrUnknownCard, c)
}

// Base returns the flat brand color used by backgrounds and card rain.
func (c CardColor) Base() (color.NRGBA, error) {
	s, err := c.shades()
	return s.base, err
}

// glyph is how a face is drawn: a center label or pictogram plus a corner label.
type glyph struct {
	center   string
	corner   string
	icon     func(c *canvas, x, y, r float64, col color.Color)
	wildOnly bool
}

func (f Face) glyph() (glyph, error) {
	switch f {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return glyph{center: string(f), corner: string(f)}, nil
	case DrawTwo, DrawFour:
		return glyph{center: string(f), corner: string(f)}, nil
	case DrawSix, DrawTen:
		return glyph{center: string(f), corner: string(f), wildOnly: true}, nil
	case Skip:
		return glyph{corner: "X", icon: skipIcon(1)}, nil
	case SkipEveryone:
		return glyph{corner: "XX", icon: skipIcon(2)}, nil
	case Reverse:
		return glyph{corner: "<>", icon: reverseIcon}, nil
	case ReverseFour:
		return glyph{center: "+4", corner: "<>", icon: reverseIcon, wildOnly: true}, nil
	case DiscardAll:
		return glyph{center: "ALL", corner: "DA"}, nil
	case ColorRoulette:
		return glyph{center: "?", corner: "?", wildOnly: true}, nil
	case Swap:
		return glyph{corner: "SW", icon: swapIcon}, nil
	}
	return glyph{}, fmt.Errorf("%w: face %q", ErrUnknownCard, f)
}

// Validate rejects descriptors outside the closed color/face sets and
// wild-only faces printed on a colored card.
func (c Card) Validate() error {
	if _, err := c.Color.shades(); err != nil {
		return err
	}
	g, err := c.Face.glyph()
	if err != nil {
		return err
	}
	if g.wildOnly && c.Color != Wild {
		return fmt.Errorf("%w: %s only exists as a wild card, got %s", ErrUnknownCard, c.Face, c.Color)
	}
	return nil
}

// Wheel colors of the wild marker, clockwise from the top-left quadrant.
var wheel = []CardColor{Red, Blue, Green, Yellow}

const ovalTilt = -0.35

// drawCard renders the card body, the diagonal oval (or the four-color
// wheel on wild cards) and the face glyphs.
func drawCard(tr *text.Renderer, card Card, w, h int) (*image.RGBA, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}
	if w < 16 || h < 16 {
		return nil, fmt.Errorf("card size %dx%d too small", w, h)
	}
	sh, _ := card.Color.shades()
	g, _ := card.Face.glyph()

	c := newCanvas(w, h)
	fw, fh := float64(w), float64(h)
	radius := math.Min(fw, fh) * 0.12

	for blur := 0; blur < 8; blur++ {
		e := float64(blur)
		a := uint8(float64(8-blur) / 8 * 80)
		c.roundRect(6-e, 6-e, fw-8+2*e, fh-8+2*e, radius+e, solid(color.NRGBA{A: a}))
	}
	c.roundRect(4, 4, fw-8, fh-8, radius, solid(color.White))
	c.roundRect(8, 8, fw-16, fh-16, radius-4, &cardShade{x: 8, y: 8, w: fw - 16, h: fh - 16, light: sh.light, dark: sh.dark})

	cx, cy := fw/2, fh/2
	oa, ob := fw*0.38, fh*0.28
	c.rotatedEllipse(cx, cy, oa*1.04, ob*1.04, ovalTilt, solid(color.NRGBA{R: 200, G: 200, B: 200, A: 100}))

	glyphColor := color.Color(sh.base)
	var glyphFx []effects.Effect
	if card.Color == Wild {
		for i, wc := range wheel {
			base, _ := wc.Base()
			a0 := math.Pi + float64(i)*math.Pi/2
			c.polygon(sector(cx, cy, oa, ob, ovalTilt, a0, a0+math.Pi/2), solid(base))
		}
		glyphColor = color.White
		glyphFx = []effects.Effect{effects.Outline(max(2, w/60), "#000000")}
	} else {
		c.rotatedEllipse(cx, cy, oa, ob, ovalTilt, &ovalShade{cx: cx, cy: cy, a: oa, b: ob, rot: ovalTilt})
		if card.Color == Yellow {
			glyphColor = rgba(35, 31, 32, 255)
		}
	}

	if g.icon != nil {
		r := math.Min(fw, fh) * 0.22
		iy := cy
		if g.center != "" {
			r *= 0.7
			iy = cy - r*0.6
		}
		g.icon(c, cx, iy, r, glyphColor)
	}

	if g.center != "" {
		size := math.Min(fh*0.35, fw*0.5)
		if g.icon != nil {
			size *= 0.55
		}
		// long labels shrink to stay inside the oval
		if tw, _, err := tr.Measure(g.center, size); err == nil && float64(tw) > fw*0.62 {
			size *= fw * 0.62 / float64(tw)
		}
		fx := append([]effects.Effect{effects.Shadow(3, 3, "#00000050")}, glyphFx...)
		layer, err := tr.Layer(text.Block{Content: g.center, Size: size, Color: hex(glyphColor), Effects: fx}, size)
		if err != nil {
			return nil, err
		}
		at := image.Pt(int(cx), int(cy))
		if g.icon != nil {
			at.Y = int(cy + size*0.55)
		}
		effects.DrawCentered(c.img, layer, at, 1)
	}

	cs := math.Min(fh*0.12, fw*0.18)
	corner, err := tr.Layer(text.Block{
		Content: g.corner,
		Size:    cs,
		Color:   "#ffffff",
		Effects: []effects.Effect{effects.Shadow(2, 2, "#00000064")},
	}, cs)
	if err != nil {
		return nil, err
	}
	margin := int(fw * 0.08)
	effects.DrawOver(c.img, corner, image.Pt(margin, margin), 1)
	cb := corner.Bounds()
	effects.DrawOver(c.img, rotate180(corner), image.Pt(w-margin-cb.Dx(), h-margin-cb.Dy()), 1)

	return c.img, nil
}

func skipIcon(bars int) func(c *canvas, x, y, r float64, col color.Color) {
	return func(c *canvas, x, y, r float64, col color.Color) {
		src := solid(col)
		t := r * 0.22
		c.ring(x, y, r-t, r-t, t, src)
		sin, cos := math.Sincos(math.Pi / 4)
		for i := 0; i < bars; i++ {
			off := (float64(i) - float64(bars-1)/2) * t * 1.6
			a := pt{x - cos*(r-t) + sin*off, y + sin*(r-t) + cos*off}
			b := pt{x + cos*(r-t) + sin*off, y - sin*(r-t) + cos*off}
			c.segment(a, b, t, src)
		}
	}
}

// reverseIcon is two opposed diagonal arrows.
func reverseIcon(c *canvas, x, y, r float64, col color.Color) {
	src := solid(col)
	t := r * 0.2
	d := r * 0.28
	for _, dir := range []float64{1, -1} {
		ox, oy := -dir*d, -dir*d
		tail := pt{x + ox - dir*r*0.55, y + oy + dir*r*0.55}
		head := pt{x + ox + dir*r*0.45, y + oy - dir*r*0.45}
		c.segment(tail, head, t, src)
		tip := pt{head.x + dir*t*1.2, head.y - dir*t*1.2}
		c.polygon([]pt{tip, {head.x - dir*t*2.2, head.y - dir*t*0.2}, {head.x + dir*t*0.2, head.y + dir*t*2.2}}, src)
	}
}

// swapIcon is a right arrow above a left arrow.
func swapIcon(c *canvas, x, y, r float64, col color.Color) {
	src := solid(col)
	t := r * 0.2
	for i, dir := range []float64{1, -1} {
		ay := y + (float64(i)-0.5)*r*0.8
		from := pt{x - dir*r*0.75, ay}
		to := pt{x + dir*r*0.45, ay}
		c.segment(from, to, t, src)
		c.polygon([]pt{{to.x + dir*t*2, ay}, {to.x - dir*t*0.5, ay - t*1.6}, {to.x - dir*t*0.5, ay + t*1.6}}, src)
	}
}

func hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
