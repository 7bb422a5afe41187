package text

import "image"

// boxBlur blurs premultiplied RGBA in place with a separable box of radius r.
func boxBlur(img *image.RGBA, r int) {
	if r < 1 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := make([]uint8, len(img.Pix))

	pass := func(src, dst []uint8, n, lines int, at func(line, i int) int) {
		span := 2*r + 1
		for line := 0; line < lines; line++ {
			var sum [4]int
			for i := -r; i <= r; i++ {
				j := clampIndex(i, n)
				o := at(line, j)
				for c := 0; c < 4; c++ {
					sum[c] += int(src[o+c])
				}
			}
			for i := 0; i < n; i++ {
				o := at(line, i)
				for c := 0; c < 4; c++ {
					dst[o+c] = uint8(sum[c] / span)
				}
				out := at(line, clampIndex(i-r, n))
				in := at(line, clampIndex(i+r+1, n))
				for c := 0; c < 4; c++ {
					sum[c] += int(src[in+c]) - int(src[out+c])
				}
			}
		}
	}

	stride := img.Stride
	pass(img.Pix, tmp, w, h, func(y, x int) int { return y*stride + x*4 })
	pass(tmp, img.Pix, h, w, func(x, y int) int { return y*stride + x*4 })
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
