package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

var ErrAssetMissing = errors.New("asset not found")

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true}

// ImageSource resolves external rasters by file name inside one directory.
// Decoded images are kept for the lifetime of the source.
type ImageSource struct {
	dir   string
	paths map[string]string

	mu      sync.RWMutex
	decoded map[string]image.Image
	group   singleflight.Group
}

// NewImageSource indexes dir. A missing directory yields an empty source so
// scenarios without image overlays still run.
func NewImageSource(dir string) (*ImageSource, error) {
	s := &ImageSource{dir: dir, paths: map[string]string{}, decoded: map[string]image.Image{}}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		s.paths[entry.Name()] = filepath.Join(dir, entry.Name())
	}
	return s, nil
}

// Names lists the indexed files in lexical order.
func (s *ImageSource) Names() []string {
	names := make([]string, 0, len(s.paths))
	for n := range s.paths {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Image decodes name once; concurrent callers share the result.
func (s *ImageSource) Image(name string) (image.Image, error) {
	s.mu.RLock()
	img, ok := s.decoded[name]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	path, ok := s.paths[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrAssetMissing, name, s.dir)
	}
	v, err, _ := s.group.Do(name, func() (any, error) {
		img, err := decode(path)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.decoded[name] = img
		s.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Check verifies that every name resolves to a readable image header, so a
// missing or corrupt overlay asset fails before any frame is rendered.
func (s *ImageSource) Check(names []string) error {
	for _, name := range names {
		w, h, err := s.Dimensions(name)
		if errors.Is(err, ErrAssetMissing) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(s.Names(), ", "))
		}
		if err != nil {
			return err
		}
		if w == 0 || h == 0 {
			return fmt.Errorf("image %q is empty", name)
		}
	}
	return nil
}

// Dimensions reads only the image header.
func (s *ImageSource) Dimensions(name string) (int, int, error) {
	path, ok := s.paths[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q in %s", ErrAssetMissing, name, s.dir)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
