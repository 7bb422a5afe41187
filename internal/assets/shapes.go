package assets

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/uno2video/internal/effects"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four arcs approximate a quarter ellipse each.
const kappa = 0.5522847498

type pt struct{ x, y float64 }

// canvas is an anti-aliased drawing surface. Every shape is rasterized and
// composited on its own, so overlapping shapes never cancel each other.
type canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func newCanvas(w, h int) *canvas {
	return &canvas{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(w, h),
	}
}

func (c *canvas) begin() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *canvas) paint(src image.Image) {
	c.z.Draw(c.img, c.img.Bounds(), src, image.Point{})
}

func solid(col color.Color) image.Image { return image.NewUniform(col) }

// ellipsePath appends an ellipse rotated by rot radians. reverse flips the
// winding so the ellipse punches a hole into a path drawn the other way.
func (c *canvas) ellipsePath(cx, cy, rx, ry, rot float64, reverse bool) {
	sin, cos := math.Sincos(rot)
	at := func(x, y float64) (float32, float32) {
		if reverse {
			y = -y
		}
		return float32(cx + x*cos - y*sin), float32(cy + x*sin + y*cos)
	}
	kx, ky := rx*kappa, ry*kappa
	c.z.MoveTo(at(rx, 0))
	cube := func(ax, ay, bx, by, ex, ey float64) {
		x1, y1 := at(ax, ay)
		x2, y2 := at(bx, by)
		x3, y3 := at(ex, ey)
		c.z.CubeTo(x1, y1, x2, y2, x3, y3)
	}
	cube(rx, ky, kx, ry, 0, ry)
	cube(-kx, ry, -rx, ky, -rx, 0)
	cube(-rx, -ky, -kx, -ry, 0, -ry)
	cube(kx, -ry, rx, -ky, rx, 0)
	c.z.ClosePath()
}

func (c *canvas) ellipse(cx, cy, rx, ry float64, src image.Image) {
	c.rotatedEllipse(cx, cy, rx, ry, 0, src)
}

func (c *canvas) rotatedEllipse(cx, cy, rx, ry, rot float64, src image.Image) {
	if rx <= 0 || ry <= 0 {
		return
	}
	c.begin()
	c.ellipsePath(cx, cy, rx, ry, rot, false)
	c.paint(src)
}

// ring strokes the band of width t just outside the ellipse (rx, ry).
func (c *canvas) ring(cx, cy, rx, ry, t float64, src image.Image) {
	c.begin()
	c.ellipsePath(cx, cy, rx+t, ry+t, 0, false)
	c.ellipsePath(cx, cy, rx, ry, 0, true)
	c.paint(src)
}

func (c *canvas) polygon(pts []pt, src image.Image) {
	if len(pts) < 3 {
		return
	}
	c.begin()
	c.z.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p.x), float32(p.y))
	}
	c.z.ClosePath()
	c.paint(src)
}

func (c *canvas) roundRect(x, y, w, h, r float64, src image.Image) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Min(r, math.Min(w, h)/2)
	k := r * (1 - kappa)
	x1, y1 := float32(x), float32(y)
	x2, y2 := float32(x+w), float32(y+h)
	fr, fk := float32(r), float32(k)

	c.begin()
	c.z.MoveTo(x1+fr, y1)
	c.z.LineTo(x2-fr, y1)
	c.z.CubeTo(x2-fk, y1, x2, y1+fk, x2, y1+fr)
	c.z.LineTo(x2, y2-fr)
	c.z.CubeTo(x2, y2-fk, x2-fk, y2, x2-fr, y2)
	c.z.LineTo(x1+fr, y2)
	c.z.CubeTo(x1+fk, y2, x1, y2-fk, x1, y2-fr)
	c.z.LineTo(x1, y1+fr)
	c.z.CubeTo(x1, y1+fk, x1+fk, y1, x1+fr, y1)
	c.z.ClosePath()
	c.paint(src)
}

// segment draws a thick line with round caps.
func (c *canvas) segment(a, b pt, width float64, src image.Image) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		c.ellipse(a.x, a.y, width/2, width/2, src)
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.polygon([]pt{{a.x + nx, a.y + ny}, {b.x + nx, b.y + ny}, {b.x - nx, b.y - ny}, {a.x - nx, a.y - ny}}, src)
	c.ellipse(a.x, a.y, width/2, width/2, src)
	c.ellipse(b.x, b.y, width/2, width/2, src)
}

// sector is the pie slice of a rotated ellipse between angles a0 and a1.
func sector(cx, cy, rx, ry, rot, a0, a1 float64) []pt {
	const steps = 24
	sin, cos := math.Sincos(rot)
	pts := []pt{{cx, cy}}
	for i := 0; i <= steps; i++ {
		a := a0 + (a1-a0)*float64(i)/steps
		x, y := rx*math.Cos(a), ry*math.Sin(a)
		pts = append(pts, pt{cx + x*cos - y*sin, cy + x*sin + y*cos})
	}
	return pts
}

// shaded lights an ellipse from the top-left: highlight at the top blending
// into a diagonal base-to-shadow ramp.
type shaded struct {
	cx, cy, rx, ry          float64
	base, shadow, highlight color.NRGBA
}

func (s *shaded) ColorModel() color.Model { return color.NRGBAModel }

func (s *shaded) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (s *shaded) At(x, y int) color.Color {
	dx := (float64(x) + 0.5 - s.cx) / s.rx
	dy := (float64(y) + 0.5 - s.cy) / s.ry
	diag := effects.Clamp01((dx+dy)/2*0.5 + 0.5)
	vert := effects.Clamp01((dy + 1) / 2)
	mid := effects.LerpColor(s.base, s.shadow, diag)
	return effects.LerpColor(s.highlight, mid, vert)
}

// cardShade runs light to dark from the card's top-left corner with a shine
// band over the top quarter.
type cardShade struct {
	x, y, w, h  float64
	light, dark color.NRGBA
}

func (s *cardShade) ColorModel() color.Model { return color.NRGBAModel }

func (s *cardShade) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (s *cardShade) At(x, y int) color.Color {
	px, py := float64(x)-s.x, float64(y)-s.y
	c := effects.LerpColor(s.light, s.dark, effects.Clamp01((px/s.w+py/s.h)/2))
	if py < s.h/4 {
		shine := (1 - py/(s.h/4)) * 0.2 * 50
		lift := func(v uint8) uint8 { return uint8(math.Min(255, float64(v)+shine)) }
		c.R, c.G, c.B = lift(c.R), lift(c.G), lift(c.B)
	}
	return c
}

// ovalShade brightens toward the center of the card's diagonal oval.
type ovalShade struct {
	cx, cy, a, b, rot float64
}

func (s *ovalShade) ColorModel() color.Model { return color.NRGBAModel }

func (s *ovalShade) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (s *ovalShade) At(x, y int) color.Color {
	sin, cos := math.Sincos(s.rot)
	dx, dy := float64(x)+0.5-s.cx, float64(y)+0.5-s.cy
	rx := dx*cos + dy*sin
	ry := -dx*sin + dy*cos
	d := (rx/s.a)*(rx/s.a) + (ry/s.b)*(ry/s.b)
	v := uint8(240 + 15*effects.Clamp01(1-d))
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}

// rotate180 returns a copy of img turned upside down.
func rotate180(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := out.PixOffset(b.Min.X+w-1-x, b.Min.Y+h-1-y)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}
