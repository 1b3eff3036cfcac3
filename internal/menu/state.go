package menu

import (
	"github.com/atomicstack/nestmenu/internal/logging/events"
)

// Show makes the menu visible and raises it. A stale layout is recomputed
// first. The previously shown menu is hidden unless it is torn off.
func (m *Menu) Show() {
	if m.visible || len(m.items) == 0 {
		return
	}
	m.visible = true
	if m.layoutDirty || m.renderDirty {
		m.UpdateLayout()
	}
	m.search.Clear()
	m.coord.raise(m)

	if shown := m.coord.shown; shown != nil && shown != m {
		shown.Hide()
	}
	m.coord.shown = m
	events.Menu.Show(m.id, m.title.label, m.x, m.y)
}

// Hide collapses the whole non-torn chain this menu belongs to. Hiding a
// hidden menu does nothing.
func (m *Menu) Hide() {
	m.hide(false)
}

// ForceHide also closes torn-off menus on the way up.
func (m *Menu) ForceHide() {
	m.hide(true)
}

func (m *Menu) hide(force bool) {
	if !m.visible {
		return
	}
	p := m
	for p != nil && p.visible {
		next := p.parent
		if !force && p.torn {
			// a torn menu stays up but no longer shields its old chain
			p.parent = nil
			p = next
			continue
		}
		p.internalHide(true)
		p = next
	}
}

// internalHide hides this menu and its open submenu only. first is set
// when this is the menu the hide started from; focus then returns to the
// parent.
func (m *Menu) internalHide(first bool) {
	if m.validIndex(m.openSub) {
		if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible {
			sub.internalHide(false)
		}
	}

	m.active = -1
	m.pressed = -1

	parent := m.parent
	if m.coord.shown == m {
		if parent != nil && parent.visible {
			m.coord.shown = parent
		} else {
			m.coord.shown = nil
		}
	}

	m.torn, m.visible, m.closing, m.moving = false, false, false, false
	m.openSub = -1
	m.openTimer.Stop()
	m.hideTimer.Stop()
	m.search.Clear()

	if parent != nil && parent.validIndex(parent.openSub) && parent.items[parent.openSub].Submenu == m {
		parent.openSub = -1
	}
	if m.coord.focused == m {
		m.coord.focused = nil
	}
	if first && parent != nil && parent.visible && (m.coord.focused == nil || !m.coord.focused.visible) {
		parent.GrabFocus()
	}

	m.parent = nil
	m.coord.lower(m)
	events.Menu.Hide(m.id, m.title.label)
}

// DrawSubmenu opens the submenu of item index next to it, closing a
// different open submenu first. Placement prefers the right of the item's
// column; a submenu that would overflow the screen flips to the left of
// this menu and is then shifted up to fit, never resized.
func (m *Menu) DrawSubmenu(index int) {
	if m.validIndex(m.openSub) && m.openSub != index {
		if sub := m.items[m.openSub].Submenu; sub != nil && !sub.torn {
			sub.internalHide(true)
		}
		m.openSub = -1
	}
	if !m.validIndex(index) {
		return
	}

	item := m.items[index]
	sub := item.Submenu
	if sub == nil || !m.visible || sub.torn || !item.IsEnabled() {
		m.openSub = -1
		return
	}
	if old := sub.parent; old != nil && old != m && old.validIndex(old.openSub) && old.items[old.openSub].Submenu == sub {
		old.openSub = -1
	}
	sub.parent = m
	sub.SetScreen(m.screen)

	m.ensureLayout()
	if m.persub == 0 {
		return
	}

	t := m.coord.theme.Menu()
	bw := t.BorderWidth
	h := m.Height()
	titleH := m.titleHeight()
	subTitleH := 0
	if sub.title.visible {
		subTitleH = t.RealTitleHeight() + bw
	}
	subH := sub.Height()
	subW := sub.Width()

	column := index / m.persub
	row := index - column*m.persub
	x := m.x + m.itemW*(column+1) + bw
	y := m.y + titleH - subTitleH
	if m.alignment != AlignTop {
		y += t.RealItemHeight() * row
	}
	if m.alignment == AlignBottom && y+subH > m.y+h {
		y = m.y + h - subH
	}

	if x+subW+2*bw > m.screen.Right() {
		x = m.x - subW - bw
	}
	x = max(x, m.screen.X)

	if y+subH > m.screen.Bottom() {
		y = m.screen.Bottom() - subH - 2*bw
	}
	y = max(y, m.screen.Y)

	sub.moving = m.moving
	m.openSub = index
	sub.Move(x, y)
	if !m.moving {
		m.clearItem(index)
	}

	if !sub.visible && len(sub.items) > 0 {
		m.coord.shown = sub
		sub.Show()
		m.coord.raise(sub)
	}
	events.Menu.OpenSubmenu(m.id, index, sub.id, x, y)
}

// GrabFocus routes key presses to this menu, or to its open submenu.
func (m *Menu) GrabFocus() {
	if m.validIndex(m.openSub) {
		if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible {
			sub.GrabFocus()
			return
		}
	}
	m.coord.focused = m
}

// SetActiveIndex highlights index, closing the submenu of the previously
// active item.
func (m *Menu) SetActiveIndex(index int) {
	if index != -1 && !m.validIndex(index) {
		return
	}
	old := m.active
	m.active = index
	if m.validIndex(old) && old != index {
		if sub := m.items[old].Submenu; sub != nil && sub.visible && !sub.torn {
			sub.internalHide(true)
		}
		if m.openSub == old {
			m.openSub = -1
		}
		m.clearItem(old)
	}
	m.clearItem(index)
	events.Menu.Active(m.id, index)
}

// cycleItems moves the active index to the next selectable item matching
// the search pattern, wrapping at both ends.
func (m *Menu) cycleItems(reverse bool) {
	n := len(m.items)
	selectable := false
	for i := 0; i < n; i++ {
		if m.isItemSelectable(i) {
			selectable = true
			break
		}
	}
	if !selectable {
		return
	}
	step := 1
	if reverse {
		step = -1
	}
	i := m.active
	for tries := 0; tries < n; tries++ {
		i += step
		if i < 0 {
			i = n - 1
		} else if i >= n {
			i = 0
		}
		if i == m.active {
			return
		}
		if !m.isItemSelectable(i) {
			continue
		}
		if _, ok := m.search.GetMatch(i); ok {
			m.SetActiveIndex(i)
			return
		}
	}
}

// enterSubmenu opens the active item's submenu and focuses its first item.
func (m *Menu) enterSubmenu() {
	if !m.validIndex(m.active) {
		return
	}
	sub := m.items[m.active].Submenu
	if sub == nil || len(sub.items) == 0 {
		return
	}
	m.DrawSubmenu(m.active)
	if !sub.visible {
		return
	}
	sub.GrabFocus()
	sub.active = -1
	sub.cycleItems(false)
}

// tear detaches the menu from its parent's open slot on the first title
// drag. The parent link stays so a later Hide still reaches the old chain.
func (m *Menu) tear() {
	m.moving = true
	m.torn = true
	if p := m.parent; p != nil && p.validIndex(p.openSub) && p.items[p.openSub].Submenu == m {
		p.openSub = -1
	}
	m.clearItem(m.active)
	if m.validIndex(m.openSub) {
		if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible {
			m.DrawSubmenu(m.openSub)
		}
	}
	events.Menu.Tear(m.id)
}

// Reconfigure re-reads the theme and re-renders.
func (m *Menu) Reconfigure() {
	m.invalidate()
	m.UpdateLayout()
}

// openSubmenu is the open timer's command.
func (m *Menu) openSubmenu() {
	i := m.active
	focused := m.coord.focused
	if !m.visible || !m.isItemSelectable(i) || (focused != m && focused != nil && focused.visible) {
		return
	}
	events.Timer.Fire(m.id, "open")
	m.clearItem(i)
	if sub := m.items[i].Submenu; sub != nil {
		sub.hideTimer.Stop()
		m.DrawSubmenu(i)
	}
}

// closeMenu is the hide timer's command.
func (m *Menu) closeMenu() {
	if m.visible && !m.torn {
		events.Timer.Fire(m.id, "close")
		m.internalHide(true)
	}
}

func (m *Menu) startOpen() {
	d := m.coord.theme.Menu().OpenDelay
	m.openTimer.SetTimeout(d)
	m.openTimer.Start()
	events.Timer.Arm(m.id, "open", d.Milliseconds())
}

func (m *Menu) startHide() {
	d := m.coord.theme.Menu().CloseDelay
	m.hideTimer.SetTimeout(d)
	m.hideTimer.Start()
	events.Timer.Arm(m.id, "close", d.Milliseconds())
}

func (m *Menu) stopHide() {
	m.hideTimer.Stop()
}

// OpenPending reports whether a hover open is scheduled.
func (m *Menu) OpenPending() bool { return m.openTimer.IsTiming() }

// ClosePending reports whether a hover close is scheduled.
func (m *Menu) ClosePending() bool { return m.hideTimer.IsTiming() }
