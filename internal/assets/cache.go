package assets

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

// Key identifies one procedural raster: element type, variant and pixel size.
type Key struct {
	Kind    string
	Variant string
	W, H    int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s@%dx%d", k.Kind, k.Variant, k.W, k.H)
}

// Cache computes each key at most once. Concurrent requests for a key that
// is still being built block until the first build finishes and then share
// its result, errors included.
type Cache struct {
	entries sync.Map // Key -> *entry
	builds  atomic.Int64
}

type entry struct {
	once sync.Once
	img  *image.RGBA
	err  error
}

func (c *Cache) Get(k Key, build func() (*image.RGBA, error)) (*image.RGBA, error) {
	v, ok := c.entries.Load(k)
	if !ok {
		v, _ = c.entries.LoadOrStore(k, &entry{})
	}
	e := v.(*entry)
	e.once.Do(func() {
		c.builds.Add(1)
		e.img, e.err = build()
	})
	return e.img, e.err
}

// Builds reports how many times a build function actually ran.
func (c *Cache) Builds() int64 {
	return c.builds.Load()
}

func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
