package text

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/uno2video/internal/effects"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrFont is returned when the typeface cannot be read or parsed.
var ErrFont = errors.New("font unavailable")

// Below this pixel size a pop-in is still at its start and nothing is drawn.
const minSize = 1.0

// Renderer draws styled text blocks. The parsed font is shared read-only;
// a face is created per call, so a Renderer is safe for concurrent use.
type Renderer struct {
	font *opentype.Font
	name string
}

// Load reads a TrueType/OpenType font from path. An empty path selects the
// embedded Go Bold face.
func Load(path string) (*Renderer, error) {
	if path == "" {
		return Parse(gobold.TTF, "gobold")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFont, err)
	}
	return Parse(data, filepath.Base(path))
}

func Parse(data []byte, name string) (*Renderer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFont, name, err)
	}
	return &Renderer{font: f, name: name}, nil
}

func (r *Renderer) Name() string { return r.name }

// Result reports what Draw put on the canvas.
type Result struct {
	Bounds image.Rectangle
	Scale  float64
	Alpha  float64
}

// Draw renders b centered on at for local progress p. Transform effects are
// resolved in order from p alone; decorations are drawn beneath the fill.
func (r *Renderer) Draw(dst draw.Image, b Block, at image.Point, p float64) (Result, error) {
	return r.DrawWith(dst, b, at, p, effects.Identity())
}

// DrawWith is Draw with the block's own transform composed onto base,
// the placement-level offset, scale and opacity.
func (r *Renderer) DrawWith(dst draw.Image, b Block, at image.Point, p float64, base effects.Transform) (Result, error) {
	b, err := b.Expand()
	if err != nil {
		return Result{}, err
	}
	tr := base
	for _, e := range b.Effects {
		tr = e.Apply(p, tr)
	}
	res := Result{Scale: tr.Scale, Alpha: tr.Alpha}

	size := b.Size * tr.Scale
	if size < minSize || tr.Alpha <= 0 || strings.TrimSpace(b.Content) == "" {
		return res, nil
	}
	layer, err := r.Layer(b, size)
	if err != nil {
		return res, err
	}
	c := image.Pt(at.X+int(math.Round(tr.DX)), at.Y+int(math.Round(tr.DY)))
	res.Bounds = effects.DrawCentered(dst, layer, c, tr.Alpha)
	return res, nil
}

// Layer rasterizes b at the given pixel size onto a transparent image just
// large enough for the text and its decorations. Lines are centered.
func (r *Renderer) Layer(b Block, size float64) (*image.RGBA, error) {
	face, err := r.face(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	fill := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if b.Color != "" {
		if fill, err = effects.ParseColor(b.Color); err != nil {
			return nil, err
		}
	}

	k := 1.0
	if b.Size > 0 {
		k = size / b.Size
	}
	decos, pad, err := prepare(b.Effects, k)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(b.Content, "\n")
	m := face.Metrics()
	ascent, lineH := m.Ascent.Ceil(), m.Height.Ceil()
	widths := make([]int, len(lines))
	maxW := 0
	for i, l := range lines {
		widths[i] = font.MeasureString(face, l).Ceil()
		maxW = max(maxW, widths[i])
	}

	img := image.NewRGBA(image.Rect(0, 0, maxW+2*pad, lineH*len(lines)+2*pad))
	paint := func(dst *image.RGBA, c color.Color, dx, dy int) {
		d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
		for i, l := range lines {
			d.Dot = fixed.P(pad+(maxW-widths[i])/2+dx, pad+i*lineH+ascent+dy)
			d.DrawString(l)
		}
	}

	for _, d := range decos {
		if d.kind == effects.KindGlow {
			glow := image.NewRGBA(img.Bounds())
			paint(glow, d.color, 0, 0)
			boxBlur(glow, d.width)
			boxBlur(glow, d.width)
			draw.Draw(img, img.Bounds(), glow, image.Point{}, draw.Over)
		}
	}
	for _, d := range decos {
		if d.kind == effects.KindOutline {
			for _, o := range ring(d.width) {
				paint(img, d.color, o.X, o.Y)
			}
		}
	}
	for _, d := range decos {
		if d.kind == effects.KindShadow {
			paint(img, d.color, d.dx, d.dy)
		}
	}
	paint(img, fill, 0, 0)
	return img, nil
}

// Measure returns the advance width and line-stacked height of content at size.
func (r *Renderer) Measure(content string, size float64) (int, int, error) {
	face, err := r.face(size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()
	lines := strings.Split(content, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, font.MeasureString(face, l).Ceil())
	}
	return w, face.Metrics().Height.Ceil() * len(lines), nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %.1fpx: %v", ErrFont, r.name, size, err)
	}
	return face, nil
}

type decoration struct {
	kind   effects.Kind
	color  color.NRGBA
	width  int
	dx, dy int
}

// prepare scales decorations by k and returns the padding they need.
func prepare(list []effects.Effect, k float64) ([]decoration, int, error) {
	var out []decoration
	outline, shadow, glow := 0, 0, 0
	for _, e := range list {
		if !e.IsDecoration() {
			continue
		}
		c := color.NRGBA{A: 255}
		if e.Color != "" {
			var err error
			if c, err = effects.ParseColor(e.Color); err != nil {
				return nil, 0, err
			}
		}
		d := decoration{
			kind:  e.Kind,
			color: c,
			width: int(math.Round(float64(e.Width) * k)),
			dx:    int(math.Round(float64(e.DX) * k)),
			dy:    int(math.Round(float64(e.DY) * k)),
		}
		switch d.kind {
		case effects.KindOutline:
			outline = max(outline, d.width)
		case effects.KindShadow:
			shadow = max(shadow, abs(d.dx), abs(d.dy))
		case effects.KindGlow:
			glow = max(glow, 2*d.width)
		}
		out = append(out, d)
	}
	return out, 2 + max(outline+shadow, glow), nil
}

// ring lists the offsets stamped to build an outline of width w.
func ring(w int) []image.Point {
	var pts []image.Point
	for r := 1; r <= w; r++ {
		steps := 8
		if r > 3 {
			steps = 16
		}
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			pts = append(pts, image.Pt(int(math.Round(math.Cos(a)*float64(r))), int(math.Round(math.Sin(a)*float64(r)))))
		}
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
