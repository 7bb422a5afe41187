package assets

import (
	"image"

	"github.com/ivlev/uno2video/internal/text"
)

// Builder hands out cached procedural rasters. Returned images are shared
// between callers and must be treated as read-only.
type Builder struct {
	text  *text.Renderer
	cache Cache
}

func NewBuilder(tr *text.Renderer) *Builder {
	return &Builder{text: tr}
}

// Character returns the expression drawn width pixels wide (height follows the 5:6 base).
func (b *Builder) Character(e Expression, width int) (*image.RGBA, error) {
	size := CharacterSize(width)
	k := Key{Kind: "character", Variant: string(e), W: size.X, H: size.Y}
	return b.cache.Get(k, func() (*image.RGBA, error) {
		return drawCharacter(e, width)
	})
}

func (b *Builder) Card(card Card, w, h int) (*image.RGBA, error) {
	k := Key{Kind: "card", Variant: card.String(), W: w, H: h}
	return b.cache.Get(k, func() (*image.RGBA, error) {
		return drawCard(b.text, card, w, h)
	})
}

func (b *Builder) QRCode(content string, size int) (*image.RGBA, error) {
	k := Key{Kind: "qrcode", Variant: content, W: size, H: size}
	return b.cache.Get(k, func() (*image.RGBA, error) {
		return drawQRCode(content, size)
	})
}

// Stats reports build count and distinct keys for the performance report.
func (b *Builder) Stats() (builds int64, keys int) {
	return b.cache.Builds(), b.cache.Len()
}
