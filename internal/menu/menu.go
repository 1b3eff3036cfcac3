// Package menu implements nested popup menus: the item container, the
// show/hide state machine with tear-off, column layout, hover delays for
// opening and closing submenus, keyboard and pointer handling, and the
// pixmap backed rendering cache. Every menu of a screen shares one
// Coordinator and is driven from a single event loop.
package menu

import (
	"github.com/oklog/ulid/v2"

	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/timer"
)

// Alignment controls where submenus open relative to their item.
type Alignment int

const (
	AlignDontCare Alignment = iota
	AlignTop
	AlignBottom
)

type titleBar struct {
	label   string
	visible bool
}

// Menu is an ordered list of items shown in its own window.
type Menu struct {
	id     string
	coord  *Coordinator
	items  []*Item
	parent *Menu
	search *search.Search[*Item]

	active  int
	openSub int
	pressed int

	torn    bool
	visible bool
	moving  bool
	closing bool

	alignment  Alignment
	minColumns int
	title      titleBar

	x, y   int
	screen canvas.Rect

	columns, persub int
	itemW, frameH   int
	width, height   int
	layoutDirty     bool
	renderDirty     bool

	xMove, yMove int

	openTimer   *timer.Timer
	hideTimer   *timer.Timer
	unsubscribe func()

	titlePm  imagecache.Pixmap
	framePm  imagecache.Pixmap
	hilitePm imagecache.Pixmap
	back     *canvas.Buffer
	front    *canvas.Buffer

	// OnItemSelected receives (button, index) for every activation.
	OnItemSelected func(button, index int)
}

// New creates an empty hidden menu bound to coord.
func New(coord *Coordinator) *Menu {
	m := &Menu{
		id:          ulid.Make().String(),
		coord:       coord,
		active:      -1,
		openSub:     -1,
		pressed:     -1,
		minColumns:  1,
		title:       titleBar{visible: true},
		screen:      coord.screen,
		layoutDirty: true,
		renderDirty: true,
		back:        canvas.New(0, 0),
		front:       canvas.New(0, 0),
	}
	m.search = search.New(&m.items)

	m.openTimer = coord.timers.NewTimer()
	m.openTimer.SetCommand(m.openSubmenu)
	m.openTimer.FireOnce(true)

	m.hideTimer = coord.timers.NewTimer()
	m.hideTimer.SetCommand(m.closeMenu)
	m.hideTimer.FireOnce(true)

	m.unsubscribe = coord.theme.Subscribe(m.Reconfigure)
	coord.register(m)
	return m
}

func (m *Menu) ID() string { return m.id }

func (m *Menu) Label() string { return m.title.label }

// SetLabel changes the title text and re-lays the menu out.
func (m *Menu) SetLabel(label string) {
	m.title.label = label
	m.Reconfigure()
}

func (m *Menu) NumItems() int { return len(m.items) }

// Item returns the item at index or nil.
func (m *Menu) Item(index int) *Item {
	if !m.validIndex(index) {
		return nil
	}
	return m.items[index]
}

// Items returns a copy of the item list.
func (m *Menu) Items() []*Item {
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// Parent is the menu that most recently opened this one.
func (m *Menu) Parent() *Menu { return m.parent }

func (m *Menu) ActiveIndex() int { return m.active }

func (m *Menu) OpenSubmenuIndex() int { return m.openSub }

func (m *Menu) IsVisible() bool { return m.visible }

func (m *Menu) IsTorn() bool { return m.torn }

func (m *Menu) IsMoving() bool { return m.moving }

func (m *Menu) Alignment() Alignment { return m.alignment }

func (m *Menu) SetAlignment(a Alignment) { m.alignment = a }

// Search exposes the type-ahead state.
func (m *Menu) Search() *search.Search[*Item] { return m.search }

// SetSearchMode changes the type-ahead mode of this menu.
func (m *Menu) SetSearchMode(mode search.Mode) {
	m.search.SetMode(mode)
	m.search.Clear()
	m.renderDirty = true
}

// SetMinimumColumns forces at least n columns.
func (m *Menu) SetMinimumColumns(n int) {
	if n < 1 {
		n = 1
	}
	m.minColumns = n
	m.invalidate()
}

func (m *Menu) TitleVisible() bool { return m.title.visible }

func (m *Menu) EnableTitle() { m.setTitleVisibility(true) }

func (m *Menu) DisableTitle() { m.setTitleVisibility(false) }

func (m *Menu) setTitleVisibility(v bool) {
	m.title.visible = v
	m.invalidate()
}

// SetScreen sets the area submenus and edge shifting are clamped to.
func (m *Menu) SetScreen(r canvas.Rect) {
	m.screen = r
	m.layoutDirty = true
}

func (m *Menu) Screen() canvas.Rect { return m.screen }

func (m *Menu) validIndex(i int) bool {
	return i >= 0 && i < len(m.items)
}

func (m *Menu) isItemSelectable(i int) bool {
	return m.validIndex(i) && m.items[i].IsEnabled()
}

func (m *Menu) invalidate() {
	m.layoutDirty = true
	m.renderDirty = true
}

// Add appends item.
func (m *Menu) Add(item *Item) int {
	return m.Insert(item, -1)
}

// InsertCommand adds a command item at pos.
func (m *Menu) InsertCommand(label string, cmd Command, pos int) int {
	return m.Insert(NewCommand(label, cmd), pos)
}

// InsertSubmenu adds an item owning sub at pos.
func (m *Menu) InsertSubmenu(label string, sub *Menu, pos int) int {
	return m.Insert(NewSubmenu(label, sub), pos)
}

// Insert places item at pos, or appends when pos is out of range, and
// returns the new item count. Indexes at or after pos shift up.
func (m *Menu) Insert(item *Item, pos int) int {
	if item == nil {
		return len(m.items)
	}
	item.menu = m
	if pos < 0 || pos >= len(m.items) {
		m.items = append(m.items, item)
	} else {
		m.items = append(m.items, nil)
		copy(m.items[pos+1:], m.items[pos:])
		m.items[pos] = item
		if m.active >= pos {
			m.active++
		}
		if m.openSub >= pos {
			m.openSub++
		}
		if m.pressed >= pos {
			m.pressed++
		}
	}
	m.invalidate()
	return len(m.items)
}

// FindSubmenuIndex returns the index of the item holding sub, or -1.
func (m *Menu) FindSubmenuIndex(sub *Menu) int {
	for i, it := range m.items {
		if it.Submenu == sub {
			return i
		}
	}
	return -1
}

// Remove deletes the item at index and returns the new item count. An out
// of range index is ignored. Owned submenus are destroyed, shared ones are
// only hidden.
func (m *Menu) Remove(index int) int {
	if !m.validIndex(index) {
		return len(m.items)
	}
	item := m.items[index]
	wasOpen := index == m.openSub
	if wasOpen {
		m.closeOpenSubmenu()
	}
	m.items = append(m.items[:index], m.items[index+1:]...)
	item.menu = nil
	if sub := item.Submenu; sub != nil {
		switch item.Ownership {
		case Owned:
			sub.Destroy()
		case Shared:
			if sub.parent == m && sub.visible && !sub.torn {
				sub.internalHide(false)
			}
		}
	}
	m.invalidate()

	if len(m.items) == 0 {
		m.openSub = -1
		m.active = -1
		m.pressed = -1
		return 0
	}

	if m.openSub > index {
		m.openSub--
	}
	switch {
	case wasOpen || m.active == index:
		m.active = -1
	case m.active > index:
		m.active--
	}
	switch {
	case m.pressed == index:
		m.pressed = -1
	case m.pressed > index:
		m.pressed--
	}
	return len(m.items)
}

// RemoveItem removes item if present.
func (m *Menu) RemoveItem(item *Item) int {
	for i, it := range m.items {
		if it == item {
			return m.Remove(i)
		}
	}
	return len(m.items)
}

// RemoveAll empties the menu from the back.
func (m *Menu) RemoveAll() {
	for len(m.items) > 0 {
		m.Remove(len(m.items) - 1)
	}
}

func (m *Menu) closeOpenSubmenu() {
	if !m.validIndex(m.openSub) {
		return
	}
	if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible && !sub.torn {
		sub.internalHide(false)
	}
	m.openSub = -1
}

func (m *Menu) SetItemEnabled(index int, enabled bool) {
	if !m.validIndex(index) {
		return
	}
	m.items[index].Enabled = enabled
	m.renderDirty = true
}

func (m *Menu) IsItemEnabled(index int) bool {
	return m.validIndex(index) && m.items[index].Enabled
}

func (m *Menu) SetItemSelected(index int, selected bool) {
	if !m.validIndex(index) {
		return
	}
	m.items[index].Selected = selected
	m.renderDirty = true
}

func (m *Menu) IsItemSelected(index int) bool {
	return m.validIndex(index) && m.items[index].Selected
}

// Destroy hides the menu, destroys owned submenus, hides shared ones and
// releases every pixmap. The menu must not be used afterwards.
func (m *Menu) Destroy() {
	if m.visible {
		m.internalHide(false)
	}
	for _, it := range m.items {
		it.menu = nil
		sub := it.Submenu
		if sub == nil {
			continue
		}
		switch it.Ownership {
		case Owned:
			sub.Destroy()
		case Shared:
			if sub.parent == m && sub.visible {
				sub.internalHide(false)
			}
		}
	}
	m.items = nil
	m.active, m.openSub, m.pressed = -1, -1, -1
	m.openTimer.Stop()
	m.hideTimer.Stop()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.install(&m.titlePm, imagecache.None)
	m.install(&m.framePm, imagecache.None)
	m.install(&m.hilitePm, imagecache.None)
	m.coord.forget(m)
	events.Menu.Destroy(m.id)
}
