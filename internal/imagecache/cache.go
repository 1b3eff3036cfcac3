// Package imagecache hands out reference counted pixmaps keyed by size,
// texture and orientation. Identical requests share one pixmap; each
// RenderImage must be paired with exactly one RemoveImage.
package imagecache

import (
	"errors"
	"fmt"

	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/logging/events"
)

// Pixmap is an opaque handle. None means "no image, use the flat colour".
type Pixmap uint32

// None is the sentinel handle.
const None Pixmap = 0

// ParentRelativePixmap tells the caller to reuse its parent's background.
const ParentRelativePixmap Pixmap = ^Pixmap(0)

// DefaultLimit bounds the number of cells a single pixmap may hold.
const DefaultLimit = 512 * 512

var errTooLarge = errors.New("pixmap exceeds cell limit")

type key struct {
	width, height int
	texture       string
	orientation   Orientation
}

type entry struct {
	key    key
	handle Pixmap
	buf    *canvas.Buffer
	refs   int
}

// Cache is not safe for concurrent use; it lives on the event loop.
type Cache struct {
	limit    int
	next     Pixmap
	byKey    map[key]*entry
	byHandle map[Pixmap]*entry
}

// New creates a cache. limit <= 0 uses DefaultLimit.
func New(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Cache{
		limit:    limit,
		byKey:    make(map[key]*entry),
		byHandle: make(map[Pixmap]*entry),
	}
}

// RenderImage returns a pixmap for the request, rendering it on first use.
// Flat textures yield None. Allocation failures are traced and yield None.
func (c *Cache) RenderImage(width, height int, tex Texture, orient Orientation) Pixmap {
	switch tex.Kind {
	case Flat:
		return None
	case ParentRelative:
		return ParentRelativePixmap
	}
	k := key{width: width, height: height, texture: tex.String(), orientation: orient}
	if e, ok := c.byKey[k]; ok {
		e.refs++
		events.Cache.Render(uint32(e.handle), width, height, k.texture, e.refs)
		return e.handle
	}
	buf, err := c.render(width, height, tex, orient)
	if err != nil {
		events.Cache.AllocFailed(width, height, k.texture, err)
		return None
	}
	c.next++
	if c.next == ParentRelativePixmap {
		c.next = 1
	}
	e := &entry{key: k, handle: c.next, buf: buf, refs: 1}
	c.byKey[k] = e
	c.byHandle[e.handle] = e
	events.Cache.Render(uint32(e.handle), width, height, k.texture, e.refs)
	return e.handle
}

// RemoveImage drops one reference; the pixmap is freed at zero. Sentinels
// and unknown handles are ignored.
func (c *Cache) RemoveImage(p Pixmap) {
	if p == None || p == ParentRelativePixmap {
		return
	}
	e, ok := c.byHandle[p]
	if !ok {
		return
	}
	e.refs--
	events.Cache.Release(uint32(p), e.refs)
	if e.refs > 0 {
		return
	}
	delete(c.byHandle, p)
	delete(c.byKey, e.key)
}

// Buffer returns the pixels behind p, or nil for sentinels and freed handles.
func (c *Cache) Buffer(p Pixmap) *canvas.Buffer {
	if e, ok := c.byHandle[p]; ok {
		return e.buf
	}
	return nil
}

// Refs reports the reference count of p.
func (c *Cache) Refs(p Pixmap) int {
	if e, ok := c.byHandle[p]; ok {
		return e.refs
	}
	return 0
}

// Live is the number of distinct pixmaps currently held.
func (c *Cache) Live() int {
	return len(c.byHandle)
}

func (c *Cache) render(width, height int, tex Texture, orient Orientation) (*canvas.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if width*height > c.limit {
		return nil, fmt.Errorf("%dx%d: %w", width, height, errTooLarge)
	}
	vertical := tex.Vertical
	if orient == Rot90 || orient == Rot270 {
		vertical = !vertical
	}
	reversed := orient == Rot180 || orient == Rot270
	steps := width
	if vertical {
		steps = height
	}
	colors, err := ramp(string(tex.Color), string(tex.ColorTo), steps)
	if err != nil {
		return nil, err
	}
	buf := canvas.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := x
			if vertical {
				i = y
			}
			if reversed {
				i = steps - 1 - i
			}
			buf.Set(x, y, canvas.Cell{Rune: ' ', BG: colors[i]})
		}
	}
	return buf, nil
}
