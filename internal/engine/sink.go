package engine

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// FramePattern names frames so ffmpeg can read them with an image2 pattern.
const FramePattern = "frame_%05d.png"

// FramesDir is the subdirectory of the output directory holding the frames.
const FramesDir = "frames"

// DirSink writes frames as PNG files into one directory.
type DirSink struct {
	Dir     string
	encoder *png.Encoder
	writers sync.Pool
}

func NewDirSink(outputDir, compression string) (*DirSink, error) {
	dir := filepath.Join(outputDir, FramesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirSink{
		Dir:     dir,
		encoder: &png.Encoder{CompressionLevel: compressionLevel(compression), BufferPool: &bufferPool{}},
	}, nil
}

func compressionLevel(name string) png.CompressionLevel {
	switch name {
	case "none":
		return png.NoCompression
	case "default":
		return png.DefaultCompression
	case "best":
		return png.BestCompression
	default:
		return png.BestSpeed
	}
}

// FramePath is the file written for frame index.
func (s *DirSink) FramePath(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf(FramePattern, index))
}

// WriteFrame flattens img over black in place and encodes it as an opaque PNG.
func (s *DirSink) WriteFrame(index int, img *image.RGBA) error {
	Flatten(img)

	f, err := os.Create(s.FramePath(index))
	if err != nil {
		return err
	}
	w, _ := s.writers.Get().(*bufio.Writer)
	if w == nil {
		w = bufio.NewWriterSize(f, 1<<20)
	} else {
		w.Reset(f)
	}
	defer s.writers.Put(w)

	if err := s.encoder.Encode(w, img); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Flatten composites img over black. Pixels are premultiplied, so only the
// alpha channel changes.
func Flatten(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		end := off + b.Dx()*4
		for i := off + 3; i < end; i += 4 {
			img.Pix[i] = 255
		}
	}
}

type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}
