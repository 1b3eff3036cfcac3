package menu

import (
	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/logging/events"
)

// ColumnLayout spreads n items over columns so that one column fits the
// screen height. It starts at one column and adds columns while
// itemHeight*(ceil(n/k)+1)+titleHeight+borderWidth exceeds screenHeight, never
// exceeding n columns, then applies minColumns. It returns the column count
// and the number of items per column; both are zero for an empty menu.
func ColumnLayout(n, itemHeight, titleHeight, borderWidth, screenHeight, minColumns int) (columns, perColumn int) {
	if n <= 0 {
		return 0, 0
	}
	k := 1
	for k < n && itemHeight*(ceilDiv(n, k)+1)+titleHeight+borderWidth > screenHeight {
		k++
	}
	k = max(k, minColumns)
	return k, ceilDiv(n, k)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// UpdateLayout recomputes columns and size. A visible menu also re-renders
// its pixmaps and back buffer; a hidden one defers that to Show.
func (m *Menu) UpdateLayout() {
	m.normalizeActive()
	m.computeLayout()
	if !m.visible {
		return
	}
	m.renderPixmaps()
	m.redrawAll()
	m.renderDirty = false
	m.coord.touch()
}

// normalizeActive moves a disabled active item to the nearest enabled one.
func (m *Menu) normalizeActive() {
	if !m.validIndex(m.active) || m.items[m.active].IsEnabled() {
		return
	}
	for i := 1; i < len(m.items); i++ {
		if m.isItemSelectable(m.active + i) {
			m.active += i
			return
		}
		if m.isItemSelectable(m.active - i) {
			m.active -= i
			return
		}
	}
}

func (m *Menu) computeLayout() {
	t := m.coord.theme.Menu()
	ih := t.RealItemHeight()
	th := t.RealTitleHeight()

	itemW := 1
	if m.title.visible {
		itemW = max(itemW, t.TitleWidth(m.title.label))
	}
	for _, it := range m.items {
		itemW = max(itemW, t.ItemWidth(it.Label))
	}
	m.itemW = itemW

	m.columns, m.persub = ColumnLayout(len(m.items), ih, th, t.BorderWidth, m.screen.Height, m.minColumns)
	m.frameH = max(1, ih*m.persub)

	m.width = m.columns * m.itemW
	if m.width == 0 {
		m.width = m.itemW
	}
	m.height = m.frameH
	if m.title.visible {
		m.height += th
	}
	m.layoutDirty = false
	events.Menu.Layout(m.id, m.columns, m.persub, m.itemW)
}

func (m *Menu) ensureLayout() {
	if m.layoutDirty {
		m.computeLayout()
	}
}

func (m *Menu) X() int { return m.x }

func (m *Menu) Y() int { return m.y }

// Width is the inner width of the menu window.
func (m *Menu) Width() int {
	m.ensureLayout()
	return m.width
}

// Height is the inner height of the menu window, title included.
func (m *Menu) Height() int {
	m.ensureLayout()
	return m.height
}

// Columns is the number of item columns.
func (m *Menu) Columns() int {
	m.ensureLayout()
	return m.columns
}

// RowsPerColumn is the number of items in a full column.
func (m *Menu) RowsPerColumn() int {
	m.ensureLayout()
	return m.persub
}

// ItemWidth is the width shared by every item.
func (m *Menu) ItemWidth() int {
	m.ensureLayout()
	return m.itemW
}

func (m *Menu) itemHeight() int {
	return m.coord.theme.Menu().RealItemHeight()
}

func (m *Menu) borderWidth() int {
	return m.coord.theme.Menu().BorderWidth
}

func (m *Menu) titleHeight() int {
	if !m.title.visible {
		return 0
	}
	return m.coord.theme.Menu().RealTitleHeight()
}

// Geometry is the window position and inner size.
func (m *Menu) Geometry() canvas.Rect {
	return canvas.Rect{X: m.x, Y: m.y, Width: m.Width(), Height: m.Height()}
}

// OuterBounds includes the border on every side.
func (m *Menu) OuterBounds() canvas.Rect {
	bw := m.borderWidth()
	return canvas.Rect{X: m.x, Y: m.y, Width: m.Width() + 2*bw, Height: m.Height() + 2*bw}
}

// TitleBounds is the title bar in root coordinates.
func (m *Menu) TitleBounds() canvas.Rect {
	bw := m.borderWidth()
	return canvas.Rect{X: m.x + bw, Y: m.y + bw, Width: m.Width(), Height: m.titleHeight()}
}

// FrameBounds is the item area in root coordinates.
func (m *Menu) FrameBounds() canvas.Rect {
	bw := m.borderWidth()
	m.ensureLayout()
	return canvas.Rect{X: m.x + bw, Y: m.y + bw + m.titleHeight(), Width: m.width, Height: m.frameH}
}

// PartAt maps a root position to a window part and part local coordinates.
func (m *Menu) PartAt(rootX, rootY int) (Part, int, int, bool) {
	if r := m.TitleBounds(); r.Contains(rootX, rootY) {
		return PartTitle, rootX - r.X, rootY - r.Y, true
	}
	if r := m.FrameBounds(); r.Contains(rootX, rootY) {
		return PartFrame, rootX - r.X, rootY - r.Y, true
	}
	return PartNone, 0, 0, false
}

// itemAt maps frame local coordinates to an item index, or -1.
func (m *Menu) itemAt(x, y int) int {
	m.ensureLayout()
	ih := m.itemHeight()
	if m.itemW == 0 || m.persub == 0 || ih == 0 || x < 0 || y < 0 {
		return -1
	}
	column := x / m.itemW
	row := y / ih
	if row >= m.persub || column >= m.columns {
		return -1
	}
	return column*m.persub + row
}

// ItemRect is the frame local rectangle of item index.
func (m *Menu) ItemRect(index int) canvas.Rect {
	m.ensureLayout()
	if m.persub == 0 {
		return canvas.Rect{}
	}
	ih := m.itemHeight()
	column := index / m.persub
	row := index % m.persub
	return canvas.Rect{X: column * m.itemW, Y: row * ih, Width: m.itemW, Height: ih}
}

// Move places the window at x, y and drags any open submenu along.
func (m *Menu) Move(x, y int) {
	if x == m.x && y == m.y {
		return
	}
	m.x, m.y = x, y
	if !m.visible {
		return
	}
	m.coord.touch()
	if m.validIndex(m.openSub) {
		if sub := m.items[m.openSub].Submenu; sub != nil && sub.visible {
			m.DrawSubmenu(m.openSub)
		}
	}
}

// shiftIntoScreen moves the whole window so it lies on screen, without
// resizing it.
func (m *Menu) shiftIntoScreen() {
	outer := m.OuterBounds()
	nx, ny := outer.X, outer.Y
	if nx+outer.Width > m.screen.Right() {
		nx = m.screen.Right() - outer.Width
	}
	if ny+outer.Height > m.screen.Bottom() {
		ny = m.screen.Bottom() - outer.Height
	}
	nx = max(nx, m.screen.X)
	ny = max(ny, m.screen.Y)
	if nx == m.x && ny == m.y {
		return
	}
	events.Menu.Shift(m.id, nx-m.x, ny-m.y)
	m.Move(nx, ny)
}
