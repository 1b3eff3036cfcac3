package menu

import (
	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/theme"
	"github.com/atomicstack/nestmenu/internal/timer"
)

// ImageCache is the pixmap provider menus render their backgrounds from.
type ImageCache interface {
	RenderImage(width, height int, tex imagecache.Texture, orient imagecache.Orientation) imagecache.Pixmap
	RemoveImage(p imagecache.Pixmap)
	Buffer(p imagecache.Pixmap) *canvas.Buffer
}

// Coordinator owns the state every menu of one screen shares: the shown and
// focused menus, the stacking order, the timer queue, the image cache and
// the theme. Menus never reach for globals; tests build their own.
type Coordinator struct {
	theme  *theme.Provider
	cache  ImageCache
	timers *timer.Queue
	screen canvas.Rect

	shown   *Menu
	focused *Menu
	stack   []*Menu
	menus   map[*Menu]struct{}

	grab      *Menu
	grabPart  Part
	hover     *Menu
	hoverPart Part

	revision uint64
}

// NewCoordinator wires the shared collaborators.
func NewCoordinator(provider *theme.Provider, cache ImageCache, timers *timer.Queue, screen canvas.Rect) *Coordinator {
	return &Coordinator{
		theme:  provider,
		cache:  cache,
		timers: timers,
		screen: screen,
		menus:  make(map[*Menu]struct{}),
	}
}

// Shown is the menu most recently shown, cleared when it hides.
func (c *Coordinator) Shown() *Menu { return c.shown }

// Focused is the menu receiving key presses.
func (c *Coordinator) Focused() *Menu { return c.focused }

// Theme returns the provider menus read their parameters from.
func (c *Coordinator) Theme() *theme.Provider { return c.theme }

// Timers is the queue hover delays are scheduled on.
func (c *Coordinator) Timers() *timer.Queue { return c.timers }

// Screen is the area menus are laid out and clamped in.
func (c *Coordinator) Screen() canvas.Rect { return c.screen }

// SetScreen changes the screen area for menus shown afterwards.
func (c *Coordinator) SetScreen(r canvas.Rect) {
	c.screen = r
	c.touch()
}

// HideShown hides the shown menu, if any.
func (c *Coordinator) HideShown() {
	if c.shown != nil {
		c.shown.Hide()
	}
}

// Visible lists visible menus bottom to top.
func (c *Coordinator) Visible() []*Menu {
	out := make([]*Menu, len(c.stack))
	copy(out, c.stack)
	return out
}

// MenuAt returns the topmost visible menu whose window contains the point.
func (c *Coordinator) MenuAt(x, y int) *Menu {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].OuterBounds().Contains(x, y) {
			return c.stack[i]
		}
	}
	return nil
}

// Revision increases on every visible change; hosts redraw when it moves.
func (c *Coordinator) Revision() uint64 { return c.revision }

// Menus is the number of live (not destroyed) menus.
func (c *Coordinator) Menus() int { return len(c.menus) }

// SetSearchMode changes the type-ahead mode of every live menu and of menus
// created afterwards.
func (c *Coordinator) SetSearchMode(mode search.Mode) {
	search.SetDefaultMode(mode)
	for m := range c.menus {
		m.SetSearchMode(mode)
	}
	events.Search.Mode(mode.String())
	c.touch()
}

func (c *Coordinator) register(m *Menu) {
	c.menus[m] = struct{}{}
}

func (c *Coordinator) forget(m *Menu) {
	delete(c.menus, m)
	c.lower(m)
	if c.shown == m {
		c.shown = nil
	}
	if c.focused == m {
		c.focused = nil
	}
	if c.grab == m {
		c.grab = nil
	}
	if c.hover == m {
		c.hover = nil
	}
}

func (c *Coordinator) touch() {
	c.revision++
}

func (c *Coordinator) raise(m *Menu) {
	c.lower(m)
	c.stack = append(c.stack, m)
	c.touch()
}

func (c *Coordinator) lower(m *Menu) {
	for i, s := range c.stack {
		if s == m {
			c.stack = append(c.stack[:i], c.stack[i+1:]...)
			c.touch()
			return
		}
	}
}

// Compose paints every visible menu onto dst in stacking order.
func (c *Coordinator) Compose(dst *canvas.Buffer) {
	for _, m := range c.stack {
		m.Compose(dst)
	}
}
