package effects

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DrawOver alpha-composites src onto dst with its top-left corner at `at`,
// using source-over blending with an extra opacity multiplier.
func DrawOver(dst draw.Image, src image.Image, at image.Point, alpha float64) {
	alpha = Clamp01(alpha)
	if alpha == 0 {
		return
	}
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	if !r.Overlaps(dst.Bounds()) {
		return
	}
	if alpha >= 1 {
		draw.Draw(dst, r, src, sb.Min, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(dst, r, src, sb.Min, mask, image.Point{}, draw.Over)
}

// DrawCentered is DrawOver with src centered on c.
func DrawCentered(dst draw.Image, src image.Image, c image.Point, alpha float64) image.Rectangle {
	size := src.Bounds().Size()
	at := c.Sub(size.Div(2))
	DrawOver(dst, src, at, alpha)
	return image.Rectangle{Min: at, Max: at.Add(size)}.Intersect(dst.Bounds())
}

// Scale resamples src by factor s. A factor of 1 returns src unchanged.
func Scale(src *image.RGBA, s float64) *image.RGBA {
	if s > 0.999 && s < 1.001 {
		return src
	}
	b := src.Bounds()
	w := int(float64(b.Dx())*s + 0.5)
	h := int(float64(b.Dy())*s + 0.5)
	if w < 1 || h < 1 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Fill paints the whole of dst with c using source-over.
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Over)
}
