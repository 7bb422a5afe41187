package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

var ErrUnknownVariant = errors.New("unknown character variant")

type Expression string

const (
	Neutral     Expression = "neutral"
	Shocked     Expression = "shocked"
	Serious     Expression = "serious"
	Mischievous Expression = "mischievous"
	MindBlown   Expression = "mind-blown"
	Whispering  Expression = "whispering"
)

// Expressions lists every variant the character builder knows.
var Expressions = []Expression{Neutral, Shocked, Serious, Mischievous, MindBlown, Whispering}

// Base geometry is authored on a 500x600 canvas and scaled by width/500.
const (
	characterBaseW = 500
	characterBaseH = 600
)

var palette = struct {
	skin, skinShadow, skinHighlight    color.NRGBA
	outline                            color.NRGBA
	hair, hairHighlight, hairShadow    color.NRGBA
	eyeWhite, pupil, iris, shine       color.NRGBA
	mouth, mouthDark, teeth, tongue    color.NRGBA
	blush                              color.NRGBA
	shirt, shirtShadow, shirtHighlight color.NRGBA
}{
	skin:           rgba(255, 218, 185, 255),
	skinShadow:     rgba(235, 180, 145, 255),
	skinHighlight:  rgba(255, 238, 220, 255),
	outline:        rgba(55, 45, 45, 255),
	hair:           rgba(45, 32, 22, 255),
	hairHighlight:  rgba(85, 60, 40, 255),
	hairShadow:     rgba(30, 22, 15, 255),
	eyeWhite:       rgba(252, 252, 255, 255),
	pupil:          rgba(15, 15, 20, 255),
	iris:           rgba(75, 55, 35, 255),
	shine:          rgba(255, 255, 255, 255),
	mouth:          rgba(210, 105, 105, 255),
	mouthDark:      rgba(60, 25, 25, 255),
	teeth:          rgba(255, 255, 252, 255),
	tongue:         rgba(220, 130, 130, 255),
	blush:          rgba(255, 180, 180, 80),
	shirt:          rgba(220, 55, 55, 255),
	shirtShadow:    rgba(170, 35, 35, 255),
	shirtHighlight: rgba(250, 95, 95, 255),
}

func rgba(r, g, b, a uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// oval is an ellipse relative to the head center, in base units.
type oval struct{ x, y, rx, ry float64 }

type eyeShape struct {
	w, h   float64
	px, py float64 // pupil offset
	spiral bool
}

type brow struct {
	dy    float64 // above eye line
	tilt  float64
	thick float64
}

type mouthShape struct {
	oval
	fill          color.NRGBA
	ring          float64
	teeth, tongue oval
}

// faceRecipe is the variant-specific part of the character.
type faceRecipe struct {
	eye         eyeShape
	left, right brow
	mouth       mouthShape
}

func recipeFor(e Expression) (faceRecipe, error) {
	switch e {
	case Neutral:
		return faceRecipe{
			eye:   eyeShape{w: 26, h: 32},
			left:  brow{dy: 42, thick: 5.5},
			right: brow{dy: 42, thick: 5.5},
			mouth: mouthShape{oval: oval{0, 58, 32, 16}, fill: palette.mouth, ring: 2, teeth: oval{0, 54, 24, 6.4}},
		}, nil
	case Shocked:
		return faceRecipe{
			eye:   eyeShape{w: 34, h: 42, py: -4},
			left:  brow{dy: 58, tilt: -0.35, thick: 5},
			right: brow{dy: 58, tilt: 0.35, thick: 5},
			mouth: mouthShape{oval: oval{0, 62, 32, 38}, fill: palette.mouthDark, ring: 3, teeth: oval{0, 50, 24, 10}},
		}, nil
	case Serious:
		return faceRecipe{
			eye:   eyeShape{w: 30, h: 20},
			left:  brow{dy: 32, tilt: 0.45, thick: 6.5},
			right: brow{dy: 32, tilt: -0.45, thick: 6.5},
			mouth: mouthShape{oval: oval{0, 58, 28, 5}, fill: palette.outline},
		}, nil
	case Mischievous:
		return faceRecipe{
			eye:   eyeShape{w: 26, h: 24, px: 5},
			left:  brow{dy: 38, tilt: 0.25, thick: 5},
			right: brow{dy: 45, tilt: -0.3, thick: 5},
			mouth: mouthShape{oval: oval{10, 58, 34, 14}, fill: palette.mouth, ring: 2, teeth: oval{22, 54, 14, 7}},
		}, nil
	case MindBlown:
		return faceRecipe{
			eye:   eyeShape{w: 38, h: 48, spiral: true},
			left:  brow{dy: 65, tilt: -0.4, thick: 5},
			right: brow{dy: 65, tilt: 0.4, thick: 5},
			mouth: mouthShape{
				oval:   oval{0, 68, 42, 48},
				fill:   palette.mouthDark,
				ring:   3,
				teeth:  oval{0, 52, 32, 12},
				tongue: oval{0, 82, 24, 18},
			},
		}, nil
	case Whispering:
		return faceRecipe{
			eye:   eyeShape{w: 24, h: 28, px: 9},
			left:  brow{dy: 40, tilt: -0.12, thick: 5},
			right: brow{dy: 40, tilt: 0.12, thick: 5},
			mouth: mouthShape{oval: oval{0, 58, 14, 12}, fill: palette.mouth, ring: 2},
		}, nil
	}
	return faceRecipe{}, fmt.Errorf("%w: %q", ErrUnknownVariant, e)
}

func ParseExpression(s string) (Expression, error) {
	e := Expression(s)
	if _, err := recipeFor(e); err != nil {
		return "", err
	}
	return e, nil
}

// CharacterSize returns the raster size of a character drawn width pixels wide.
func CharacterSize(width int) image.Point {
	return image.Pt(width, int(math.Round(float64(width)*characterBaseH/characterBaseW)))
}

// drawCharacter renders the body silhouette and then the variant's face.
func drawCharacter(e Expression, width int) (*image.RGBA, error) {
	face, err := recipeFor(e)
	if err != nil {
		return nil, err
	}
	if width < 10 {
		return nil, fmt.Errorf("character width %d too small", width)
	}
	size := CharacterSize(width)
	c := newCanvas(size.X, size.Y)
	s := float64(width) / characterBaseW
	cx, cy := float64(size.X)/2, float64(size.Y)/2

	sh := func(x, y, rx, ry float64, base, shadow, hi color.NRGBA) {
		c.ellipse(x, y, rx, ry, &shaded{cx: x, cy: y, rx: rx, ry: ry, base: base, shadow: shadow, highlight: hi})
	}
	fill := func(o oval, col color.NRGBA) {
		c.ellipse(cx+o.x*s, cy+o.y*s, o.rx*s, o.ry*s, solid(col))
	}

	// body
	by := cy + 180*s
	sh(cx, by, 140*s, 120*s, palette.shirt, palette.shirtShadow, palette.shirtHighlight)
	c.ring(cx, by, 140*s, 120*s, 3*s, solid(palette.outline))
	c.ellipse(cx, by-75*s, 35*s, 20*s, solid(palette.shirtShadow))

	sh(cx, cy+90*s, 35*s, 55*s, palette.skin, palette.skinShadow, palette.skin)

	// head
	c.ellipse(cx, cy, 118*s, 138*s, solid(palette.outline))
	sh(cx, cy, 115*s, 135*s, palette.skin, palette.skinShadow, palette.skinHighlight)

	for _, side := range []float64{-1, 1} {
		ex := cx + side*108*s
		sh(ex, cy-10*s, 22*s, 32*s, palette.skin, palette.skinShadow, palette.skin)
		c.ellipse(ex, cy-10*s, 12*s, 18*s, solid(palette.skinShadow))
	}

	drawHair(c, cx, cy-60*s, s, sh)

	fill(oval{-58, 32, 28, 16}, palette.blush)
	fill(oval{58, 32, 28, 16}, palette.blush)

	eyeY := cy - 18*s
	for i, side := range []float64{-1, 1} {
		ex := cx + side*48*s
		drawEye(c, ex, eyeY, s, face.eye)
		b := face.left
		if i == 1 {
			b = face.right
		}
		drawBrow(c, ex, eyeY-b.dy*s, s, b)
	}

	fill(oval{0, 18, 9, 6}, palette.skinShadow)

	m := face.mouth
	if m.ring > 0 {
		c.ring(cx+m.x*s, cy+m.y*s, m.rx*s, m.ry*s, m.ring*s, solid(palette.outline))
	}
	fill(m.oval, m.fill)
	if m.teeth.rx > 0 {
		fill(m.teeth, palette.teeth)
	}
	if m.tongue.rx > 0 {
		fill(m.tongue, palette.tongue)
	}
	return c.img, nil
}

var hairSpikes = [][3]float64{
	{-65, -55, 25}, {-38, -72, 28}, {-8, -82, 32}, {25, -75, 30},
	{52, -60, 26}, {72, -42, 22}, {-80, -32, 20}, {82, -28, 18},
}

func drawHair(c *canvas, cx, cy, s float64, sh func(x, y, rx, ry float64, base, shadow, hi color.NRGBA)) {
	hair := func(x, y, rx, ry float64) {
		sh(cx+x*s, cy+y*s, rx*s, ry*s, palette.hair, palette.hairShadow, palette.hairHighlight)
	}
	hair(0, -25, 105, 75)
	for _, sp := range hairSpikes {
		hair(sp[0], sp[1], sp[2], sp[2]*1.3)
	}
	for _, hl := range [][3]float64{{-32, -62, 14}, {12, -68, 12}, {42, -52, 10}} {
		c.ellipse(cx+hl[0]*s, cy+hl[1]*s, hl[2]*s, hl[2]*s, solid(palette.hairHighlight))
	}
	hair(-32, 28, 38, 22)
	hair(22, 24, 32, 20)
}

func drawEye(c *canvas, x, y, s float64, e eyeShape) {
	c.ellipse(x, y, e.w*s, e.h*s, solid(palette.eyeWhite))
	c.ring(x, y, e.w*s, e.h*s, 2.5*s, solid(palette.outline))

	if e.spiral {
		for i, r := range []float64{22, 16, 10, 5} {
			col := palette.pupil
			if i%2 == 1 {
				col = palette.eyeWhite
			}
			c.ellipse(x, y, r*s, r*s, solid(col))
		}
		return
	}

	px, py := x+e.px*s, y+e.py*s
	iris := e.h * 0.55
	c.ellipse(px, py, iris*s, iris*s, solid(palette.iris))
	c.ellipse(px, py, iris*0.6*s, iris*0.6*s, solid(palette.pupil))
	c.ellipse(px-6*s, py-6*s, 6*s, 6*s, solid(palette.shine))
	c.ellipse(px+4*s, py+4*s, 3*s, 3*s, solid(palette.shine))
}

// drawBrow draws a sheared ellipse: the tilt lifts one end and drops the other.
func drawBrow(c *canvas, x, y, s float64, b brow) {
	const steps = 32
	w, h := 38*s, b.thick*0.6*s
	pts := make([]pt, 0, steps)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		u, v := math.Cos(a), math.Sin(a)
		pts = append(pts, pt{x + u*w, y + v*h + u*b.tilt*20*s})
	}
	c.polygon(pts, solid(palette.outline))
}
