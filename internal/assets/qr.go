package assets

import (
	"fmt"
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// drawQRCode renders content as a size x size QR code on a white tile.
func drawQRCode(content string, size int) (*image.RGBA, error) {
	if content == "" {
		return nil, fmt.Errorf("qrcode: empty content")
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	src := q.Image(size)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}
