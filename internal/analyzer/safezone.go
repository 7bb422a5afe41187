package analyzer

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/uno2video/internal/config"
	"github.com/ivlev/uno2video/internal/director"
	"github.com/ivlev/uno2video/internal/system"
)

// SafeZone holds the margins, as fractions of the frame, that short-video
// players cover with their own UI.
type SafeZone struct {
	Top, Bottom, Left, Right float64
}

// VerticalSafeZone fits the common 9:16 players: status and tabs on top,
// caption and buttons at the bottom, the action rail on the right.
var VerticalSafeZone = SafeZone{Top: 0.07, Bottom: 0.15, Left: 0.03, Right: 0.12}

// Rect is the unobstructed area of bounds.
func (z SafeZone) Rect(bounds image.Rectangle) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	return image.Rect(
		bounds.Min.X+int(z.Left*w),
		bounds.Min.Y+int(z.Top*h),
		bounds.Max.X-int(z.Right*w),
		bounds.Max.Y-int(z.Bottom*h),
	)
}

// Violation is a content block reaching into one or more margins.
type Violation struct {
	Block Block
	Sides []string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s block %v crosses %s", v.Block.Type, v.Block.Rect, strings.Join(v.Sides, "/"))
}

// ContentMap is the per-pixel luminance difference between a frame and its
// backdrop, downscaled by factor. Only content elements survive.
func ContentMap(frame, backdrop *image.RGBA, factor int) *image.Gray {
	b := frame.Bounds()
	diff := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		fo := frame.PixOffset(b.Min.X, y)
		bo := backdrop.PixOffset(b.Min.X, y)
		do := diff.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x, fo, bo = x+1, fo+4, bo+4 {
			d := abs(luma(frame.Pix[fo:fo+3]) - luma(backdrop.Pix[bo:bo+3]))
			diff.Pix[do+x] = uint8(min(d, 255))
		}
	}
	if factor <= 1 {
		return diff
	}
	small := image.NewGray(image.Rect(0, 0, b.Dx()/factor, b.Dy()/factor))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), diff, b, draw.Src, nil)
	return small
}

func luma(p []uint8) int {
	return (299*int(p[0]) + 587*int(p[1]) + 114*int(p[2])) / 1000
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CheckSafeZone detects content in frame (relative to backdrop) and reports
// blocks that leave the safe area. Block rectangles are in frame pixels.
func CheckSafeZone(d Detector, frame, backdrop *image.RGBA, zone SafeZone, factor int) ([]Violation, error) {
	factor = max(factor, 1)
	blocks, err := d.Detect(ContentMap(frame, backdrop, factor))
	if err != nil {
		return nil, err
	}
	safe := zone.Rect(frame.Bounds())
	var out []Violation
	for _, blk := range blocks {
		r := image.Rect(blk.Rect.Min.X*factor, blk.Rect.Min.Y*factor, blk.Rect.Max.X*factor, blk.Rect.Max.Y*factor)
		blk.Rect = r
		var sides []string
		if r.Min.Y < safe.Min.Y {
			sides = append(sides, "top")
		}
		if r.Max.Y > safe.Max.Y {
			sides = append(sides, "bottom")
		}
		if r.Min.X < safe.Min.X {
			sides = append(sides, "left")
		}
		if r.Max.X > safe.Max.X {
			sides = append(sides, "right")
		}
		if len(sides) > 0 {
			out = append(out, Violation{Block: blk, Sides: sides})
		}
	}
	return out, nil
}

// LayeredRenderer renders a frame with and without its content elements.
type LayeredRenderer interface {
	RenderAt(t float64, frame int) (*image.RGBA, error)
	RenderBackdrop(t float64, frame int) (*image.RGBA, error)
}

type SceneCheck struct {
	Scene      string
	Time       float64
	Violations []Violation
}

// CheckScenes runs the safe-zone check on the midpoint frame of every scene.
func CheckScenes(r LayeredRenderer, scenes []director.Scene, d Detector, zone SafeZone) ([]SceneCheck, error) {
	out := make([]SceneCheck, 0, len(scenes))
	for _, sc := range scenes {
		frame := int((sc.Start + sc.Duration()/2) * config.FPS)
		t := config.FrameTime(frame)
		full, err := r.RenderAt(t, frame)
		if err != nil {
			return nil, err
		}
		backdrop, err := r.RenderBackdrop(t, frame)
		if err != nil {
			system.PutImage(full)
			return nil, err
		}
		v, err := CheckSafeZone(d, full, backdrop, zone, 4)
		system.PutImage(full)
		system.PutImage(backdrop)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", sc.ID, err)
		}
		out = append(out, SceneCheck{Scene: sc.ID, Time: t, Violations: v})
	}
	return out, nil
}
