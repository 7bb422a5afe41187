package analyzer

import (
	"image"
	"math"
)

// ContrastDetector finds edge clusters with a Sobel filter, joins them by
// dilation and reports the bounding box of each connected component.
type ContrastDetector struct {
	MinBlockArea  int     // px² in the analyzed image
	EdgeThreshold float64 // gradient magnitude
	DilateRadius  int
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  120,
		EdgeThreshold: 40,
		DilateRadius:  3,
	}
}

func (d *ContrastDetector) Detect(img *image.Gray) ([]Block, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return nil, nil
	}
	mask := d.edges(img)
	mask = dilate(mask, w, h, d.DilateRadius)

	var blocks []Block
	for _, r := range components(mask, w, h) {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{Rect: r.Add(b.Min), Type: classify(r), Confidence: 0.7})
	}
	return blocks, nil
}

// edges marks pixels whose Sobel gradient exceeds the threshold.
func (d *ContrastDetector) edges(img *image.Gray) []bool {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	at := func(x, y int) float64 { return float64(img.Pix[y*img.Stride+x]) }
	out := make([]bool, w*h)
	limit := d.EdgeThreshold * d.EdgeThreshold
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) - at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) - at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			out[y*w+x] = gx*gx+gy*gy > limit
		}
	}
	return out
}

// dilate grows the mask by r in each direction as two separable passes.
func dilate(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	horiz := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		row := mask[y*w : (y+1)*w]
		last := -r - 1
		for x := 0; x < w; x++ {
			if row[x] {
				last = x
			}
			if x-last <= r {
				horiz[y*w+x] = true
			}
		}
		last = w + r + 1
		for x := w - 1; x >= 0; x-- {
			if row[x] {
				last = x
			}
			if last-x <= r {
				horiz[y*w+x] = true
			}
		}
	}
	out := make([]bool, len(mask))
	for x := 0; x < w; x++ {
		last := -r - 1
		for y := 0; y < h; y++ {
			if horiz[y*w+x] {
				last = y
			}
			if y-last <= r {
				out[y*w+x] = true
			}
		}
		last = h + r + 1
		for y := h - 1; y >= 0; y-- {
			if horiz[y*w+x] {
				last = y
			}
			if last-y <= r {
				out[y*w+x] = true
			}
		}
	}
	return out
}

// components returns the bounding boxes of 4-connected regions.
func components(mask []bool, w, h int) []image.Rectangle {
	visited := make([]bool, len(mask))
	var rects []image.Rectangle
	var stack []int
	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		minX, minY, maxX, maxY := w, h, -1, -1
		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if n < 0 || n >= len(mask) || visited[n] || !mask[n] {
					continue
				}
				if (n == i-1 && x == 0) || (n == i+1 && x == w-1) {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
		rects = append(rects, image.Rect(minX, minY, maxX+1, maxY+1))
	}
	return rects
}

// classify calls wide, short blocks text.
func classify(r image.Rectangle) string {
	if aspect := float64(r.Dx()) / math.Max(float64(r.Dy()), 1); aspect >= 2.5 {
		return "text"
	}
	return "figure"
}
