package menu

import (
	"time"

	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/logging/events"
)

// Part is the sub-window of a menu an event happened in.
type Part int

const (
	PartNone Part = iota
	PartTitle
	PartFrame
)

// Modifier is a bit set of held keys and buttons.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	// ModButton1 is set on motion while the first button is held.
	ModButton1
)

// Key identifies the non-text keys menus react to.
type Key int

const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	// KeyModifier is a lone modifier press; menus ignore it.
	KeyModifier
)

// ButtonEvent is a pointer press or release. X and Y are local to Part.
type ButtonEvent struct {
	Part         Part
	X, Y         int
	RootX, RootY int
	Button       int
	Mods         Modifier
	Time         time.Time
}

// MotionEvent is pointer movement. X and Y are local to Part.
type MotionEvent struct {
	Part         Part
	X, Y         int
	RootX, RootY int
	Mods         Modifier
	Time         time.Time
}

// CrossingEvent is the pointer entering or leaving a part.
type CrossingEvent struct {
	Part         Part
	RootX, RootY int
	Time         time.Time
}

// KeyEvent is a key press delivered to the focused menu.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifier
	Time time.Time
}

// ExposeEvent asks for a region of a part to be repainted. Area is local
// to Part.
type ExposeEvent struct {
	Part Part
	Area canvas.Rect
}

// ButtonPress opens a submenu under the pointer immediately and remembers
// the pressed item. Presses on the title start a drag or a close.
func (m *Menu) ButtonPress(ev ButtonEvent) {
	m.closing = false
	if ev.Part == PartTitle {
		m.GrabFocus()
		m.closing = ev.Button == 3
	}

	if ev.Part == PartFrame && m.ItemWidth() != 0 {
		w := m.itemAt(ev.X, ev.Y)
		m.pressed = -1
		if m.isItemSelectable(w) {
			m.pressed = w
			if sub := m.items[w].Submenu; sub != nil && !sub.visible {
				m.DrawSubmenu(w)
			}
		}
		return
	}
	m.xMove = ev.RootX - m.x
	m.yMove = ev.RootY - m.y
}

// ButtonRelease activates the item under the pointer when it is the one
// the press landed on. Any other release only moves the highlight.
func (m *Menu) ButtonRelease(ev ButtonEvent) {
	switch ev.Part {
	case PartTitle:
		if m.moving {
			m.moving = false
			m.coord.touch()
			if m.validIndex(m.openSub) {
				if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible {
					sub.moving = false
					m.DrawSubmenu(m.openSub)
				}
			}
		}
		if ev.Button == 3 && m.closing {
			m.internalHide(true)
		}
	case PartFrame:
		pressed := m.pressed
		m.pressed = -1
		w := m.itemAt(ev.X, ev.Y)
		if !m.isItemSelectable(w) {
			return
		}
		if pressed == w {
			if m.active != w {
				old := m.active
				m.active = w
				m.clearItem(old)
			}
			m.clearItem(w)
			m.activate(w, ev.Button, ev.Mods)
			return
		}
		old := m.active
		m.active = w
		m.clearItem(old)
		m.clearItem(w)
	default:
		m.pressed = -1
	}
}

// Motion tracks hover: it moves the highlight, schedules the hover open of
// submenu items and the delayed close of a submenu left behind. A title
// drag with the first button held tears the menu off and moves it.
func (m *Menu) Motion(ev MotionEvent) {
	if ev.Part == PartTitle && ev.Mods&ModButton1 != 0 {
		m.stopHide()
		if !m.moving {
			m.tear()
			return
		}
		m.x = ev.RootX - m.xMove
		m.y = ev.RootY - m.yMove
		m.coord.touch()
		return
	}
	if ev.Part != PartFrame || ev.Mods&ModButton1 != 0 {
		return
	}

	m.stopHide()
	w := m.itemAt(ev.X, ev.Y)
	if w == m.active || !m.validIndex(w) {
		return
	}
	if f := m.coord.focused; f != m && f != nil {
		m.GrabFocus()
	}

	item := m.items[w]
	if item.IsEnabled() {
		old := m.active
		m.active = w
		m.clearItem(w)
		m.clearItem(old)
		if m.validIndex(m.openSub) {
			if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible && !sub.torn {
				sub.startHide()
			}
		}
	}

	// A disabled plain item leaves a pending open from the previous
	// highlight running.
	if item.Submenu != nil {
		m.startOpen()
	} else if item.IsEnabled() {
		m.openTimer.Stop()
	}
}

// Enter shifts a menu hanging off a screen edge back into view.
func (m *Menu) Enter(ev CrossingEvent) {
	if ev.Part != PartFrame || !m.visible {
		return
	}
	m.shiftIntoScreen()
}

// Leave re-highlights the item whose submenu is still open and keeps that
// submenu from closing.
func (m *Menu) Leave(ev CrossingEvent) {
	m.closing = false
	if !m.validIndex(m.openSub) || m.active == m.openSub {
		return
	}
	sub := m.items[m.openSub].Submenu
	if sub == nil || !sub.visible {
		return
	}
	old := m.active
	m.active = m.openSub
	m.clearItem(m.active)
	m.clearItem(old)
	sub.stopHide()
}

// FocusIn makes this menu, or its open submenu, the key receiver.
func (m *Menu) FocusIn() {
	if !m.visible {
		return
	}
	m.coord.focused = m
	if m.validIndex(m.openSub) {
		if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible {
			sub.GrabFocus()
		}
	}
}

// FocusOut drops key focus.
func (m *Menu) FocusOut() {
	if m.coord.focused == m {
		m.coord.focused = nil
	}
}

// KeyPress handles navigation, activation and type-ahead.
func (m *Menu) KeyPress(ev KeyEvent) {
	m.ensureLayout()
	switch ev.Key {
	case KeyModifier:
		return
	case KeyUp:
		m.resetTypeAhead()
		m.cycleItems(true)
	case KeyDown:
		m.resetTypeAhead()
		m.cycleItems(false)
	case KeyLeft:
		m.resetTypeAhead()
		if m.columns > 1 && m.active >= m.persub {
			i := m.active - m.persub
			for i >= 0 && !m.isItemSelectable(i) {
				i -= m.persub
			}
			if i >= 0 {
				m.SetActiveIndex(i)
			}
			return
		}
		if m.parent != nil {
			m.internalHide(true)
		}
	case KeyRight:
		m.resetTypeAhead()
		if m.columns > 1 && m.validIndex(m.active) && m.validIndex(m.active+m.persub) {
			i := m.active + m.persub
			for m.validIndex(i) && !m.isItemSelectable(i) {
				i += m.persub
			}
			if m.validIndex(i) {
				m.SetActiveIndex(i)
			}
			return
		}
		m.enterSubmenu()
	case KeyEscape:
		m.search.Clear()
		m.torn = false
		m.ForceHide()
	case KeyBackspace:
		if m.search.Size() == 0 {
			m.internalHide(true)
			return
		}
		m.search.Backspace()
		events.Search.Backspace(m.id, m.search.Pattern())
		m.drawTypeAheadItems()
	case KeyEnter:
		m.resetTypeAhead()
		if !m.isItemSelectable(m.active) {
			return
		}
		button := 1
		if ev.Mods&ModShift != 0 {
			button = 3
		}
		if m.items[m.active].Submenu != nil && button == 1 {
			m.enterSubmenu()
			return
		}
		m.activate(m.active, button, ev.Mods)
		m.invalidate()
		m.UpdateLayout()
	case KeyTab:
		if m.isItemSelectable(m.active) && m.items[m.active].Submenu != nil && m.search.NumMatches() == 1 {
			m.enterSubmenu()
			m.search.Clear()
		} else {
			m.cycleItems(ev.Mods&ModShift != 0)
		}
		m.drawTypeAheadItems()
	case KeyRune:
		candidate := m.search.Pattern() + string(ev.Rune)
		if !m.search.WouldMatch(candidate) {
			return
		}
		m.search.Add(ev.Rune)
		events.Search.Append(m.id, m.search.Pattern(), m.search.NumMatches())
		m.drawTypeAheadItems()
		if _, ok := m.search.GetMatch(m.active); !ok {
			m.cycleItems(false)
		}
	}
}

// Expose copies the requested region from the back buffer.
func (m *Menu) Expose(ev ExposeEvent) {
	if !m.visible {
		return
	}
	area := ev.Area
	switch ev.Part {
	case PartTitle:
		area = clip(area, canvas.Rect{Width: m.width, Height: m.titleHeight()})
	case PartFrame:
		area.Y += m.titleHeight()
		area = clip(area, canvas.Rect{Y: m.titleHeight(), Width: m.width, Height: m.frameH})
	default:
		return
	}
	m.front.CopyArea(m.back, area.X, area.Y, area.X, area.Y, area.Width, area.Height)
	m.coord.touch()
}

func clip(r, bounds canvas.Rect) canvas.Rect {
	x0 := max(r.X, bounds.X)
	y0 := max(r.Y, bounds.Y)
	x1 := min(r.Right(), bounds.Right())
	y1 := min(r.Bottom(), bounds.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return canvas.Rect{}
	}
	return canvas.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// activate emits the selection notification and clicks the item.
func (m *Menu) activate(index, button int, mods Modifier) {
	item := m.items[index]
	events.Menu.Select(m.id, button, index, item.Label)
	if m.OnItemSelected != nil {
		m.OnItemSelected(button, index)
	}
	item.Click(button, mods)
	m.coord.touch()
}

func (m *Menu) resetTypeAhead() {
	if m.search.Size() == 0 {
		return
	}
	m.search.Clear()
	events.Search.Cleared(m.id)
	m.drawTypeAheadItems()
}

func (m *Menu) drawTypeAheadItems() {
	for i := range m.items {
		m.clearItem(i)
	}
}
