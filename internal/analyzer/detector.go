package analyzer

import "image"

// Block is a region of visible content in a frame.
type Block struct {
	Rect       image.Rectangle
	Type       string  // "text", "figure"
	Confidence float64 // 0.0-1.0
}

// Detector finds content blocks in a grayscale content map.
type Detector interface {
	Detect(img *image.Gray) ([]Block, error)
}
