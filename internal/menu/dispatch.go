package menu

import "time"

// Open positions m at x, y on the coordinator's screen, shows it and gives
// it key focus. The window is shifted into view when it would overflow.
func (c *Coordinator) Open(m *Menu, x, y int) {
	m.SetScreen(c.screen)
	m.Move(x, y)
	m.Show()
	if !m.visible {
		return
	}
	m.shiftIntoScreen()
	m.GrabFocus()
}

// FireTimers runs every hover timer due at now and reports whether any ran.
func (c *Coordinator) FireTimers(now time.Time) bool {
	if c.timers.Fire(now) == 0 {
		return false
	}
	c.touch()
	return true
}

// NextDeadline is the earliest pending hover timer.
func (c *Coordinator) NextDeadline() (time.Time, bool) {
	return c.timers.Next()
}

// PointerPress delivers a press at root coordinates to the menu under the
// pointer, which keeps the pointer grabbed until the release. A press
// outside every menu hides the shown chain. It reports whether a menu took
// the press.
func (c *Coordinator) PointerPress(rootX, rootY, button int, mods Modifier, at time.Time) bool {
	m := c.MenuAt(rootX, rootY)
	if m == nil {
		c.HideShown()
		return false
	}
	part, x, y, ok := m.PartAt(rootX, rootY)
	if !ok {
		return true
	}
	c.grab, c.grabPart = m, part
	m.ButtonPress(ButtonEvent{
		Part: part, X: x, Y: y, RootX: rootX, RootY: rootY,
		Button: button, Mods: mods, Time: at,
	})
	c.touch()
	return true
}

// PointerRelease delivers a release to the menu holding the grab, in
// coordinates local to the part the press landed on.
func (c *Coordinator) PointerRelease(rootX, rootY, button int, mods Modifier, at time.Time) bool {
	m, part := c.grab, c.grabPart
	c.grab, c.grabPart = nil, PartNone
	if m == nil {
		return false
	}
	x, y := m.local(part, rootX, rootY)
	m.ButtonRelease(ButtonEvent{
		Part: part, X: x, Y: y, RootX: rootX, RootY: rootY,
		Button: button, Mods: mods, Time: at,
	})
	c.touch()
	return true
}

// PointerMotion delivers motion and synthesizes enter and leave events when
// the pointer crosses between menus or parts. While a button is held the
// grabbing menu gets every motion.
func (c *Coordinator) PointerMotion(rootX, rootY int, mods Modifier, at time.Time) bool {
	if c.grab != nil && mods&ModButton1 != 0 {
		m, part := c.grab, c.grabPart
		x, y := m.local(part, rootX, rootY)
		m.Motion(MotionEvent{Part: part, X: x, Y: y, RootX: rootX, RootY: rootY, Mods: mods, Time: at})
		return true
	}

	m := c.MenuAt(rootX, rootY)
	part := PartNone
	if m != nil {
		part, _, _, _ = m.PartAt(rootX, rootY)
	}
	if m != c.hover || part != c.hoverPart {
		if prev := c.hover; prev != nil {
			prev.Leave(CrossingEvent{Part: c.hoverPart, RootX: rootX, RootY: rootY, Time: at})
		}
		c.hover, c.hoverPart = m, part
		if m != nil && part != PartNone {
			m.Enter(CrossingEvent{Part: part, RootX: rootX, RootY: rootY, Time: at})
		}
	}
	if m == nil {
		return false
	}
	part, x, y, ok := m.PartAt(rootX, rootY)
	if !ok {
		return true
	}
	m.Motion(MotionEvent{Part: part, X: x, Y: y, RootX: rootX, RootY: rootY, Mods: mods, Time: at})
	return true
}

// Key delivers a key press to the focused menu, or to the shown one.
func (c *Coordinator) Key(ev KeyEvent) bool {
	target := c.focused
	if target == nil || !target.visible {
		target = c.shown
	}
	if target == nil || !target.visible {
		return false
	}
	target.KeyPress(ev)
	c.touch()
	return true
}

// local converts root coordinates into coordinates local to part.
func (m *Menu) local(part Part, rootX, rootY int) (int, int) {
	switch part {
	case PartTitle:
		r := m.TitleBounds()
		return rootX - r.X, rootY - r.Y
	case PartFrame:
		r := m.FrameBounds()
		return rootX - r.X, rootY - r.Y
	default:
		return rootX - m.x, rootY - m.y
	}
}
