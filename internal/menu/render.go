package menu

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/theme"
)

const ellipsis = "…"

// install swaps the pixmap in slot for pm and releases the old handle only
// after the new one is in place.
func (m *Menu) install(slot *imagecache.Pixmap, pm imagecache.Pixmap) {
	old := *slot
	*slot = pm
	if old != imagecache.None {
		m.coord.cache.RemoveImage(old)
	}
}

func (m *Menu) renderPixmap(slot *imagecache.Pixmap, w, h int, tex imagecache.Texture) {
	pm := m.coord.cache.RenderImage(w, h, tex, imagecache.Rot0)
	m.install(slot, pm)
}

func (m *Menu) renderPixmaps() {
	t := m.coord.theme.Menu()
	m.renderPixmap(&m.hilitePm, m.itemW, t.RealItemHeight(), t.Hilite)
	if m.title.visible {
		m.renderPixmap(&m.titlePm, m.width, t.RealTitleHeight(), t.Title)
	} else {
		m.install(&m.titlePm, imagecache.None)
	}
	m.renderPixmap(&m.framePm, m.width, m.frameH, t.Frame)
}

// Pixmaps returns the title, frame and highlight handles currently held.
func (m *Menu) Pixmaps() (title, frame, hilite imagecache.Pixmap) {
	return m.titlePm, m.framePm, m.hilitePm
}

// paintBackground fills r of dst from pm, or with the texture colour when
// pm is a sentinel. sx, sy is the source offset inside pm.
func (m *Menu) paintBackground(dst *canvas.Buffer, r canvas.Rect, pm imagecache.Pixmap, sx, sy int, tex imagecache.Texture, parent imagecache.Pixmap, px, py int) {
	if pm == imagecache.ParentRelativePixmap {
		pm, sx, sy = parent, px, py
	}
	if src := m.coord.cache.Buffer(pm); src != nil {
		dst.CopyArea(src, sx, sy, r.X, r.Y, r.Width, r.Height)
		return
	}
	dst.Fill(r, tex.Color)
}

// redrawAll repaints the back buffer from scratch and publishes it.
func (m *Menu) redrawAll() {
	m.back.Resize(m.width, m.height)
	m.front.Resize(m.width, m.height)
	t := m.coord.theme.Menu()
	th := m.titleHeight()

	if m.title.visible {
		r := canvas.Rect{Width: m.width, Height: th}
		m.paintBackground(m.back, r, m.titlePm, 0, 0, t.Title, imagecache.None, 0, 0)
		m.drawTitle(t, th)
	}
	frame := canvas.Rect{Y: th, Width: m.width, Height: m.frameH}
	m.paintBackground(m.back, frame, m.framePm, 0, 0, t.Frame, imagecache.None, 0, 0)
	for i := range m.items {
		m.paintItem(t, i)
	}
	m.front.CopyArea(m.back, 0, 0, 0, 0, m.width, m.height)
}

func (m *Menu) drawTitle(t theme.Menu, th int) {
	avail := max(0, m.width-2*t.BevelWidth)
	label := ansi.Truncate(m.title.label, avail, ellipsis)
	x := t.BevelWidth + t.TitleJustify.Offset(t.TitleFont.TextWidth(label), avail)
	m.back.DrawText(x, th/2, label, t.TitleText, t.TitleFont.Bold)
}

// clearItem repaints one item in the back buffer and copies just that
// region to the front buffer.
func (m *Menu) clearItem(index int) {
	if !m.visible || !m.validIndex(index) || m.layoutDirty || m.persub == 0 {
		return
	}
	if m.back.Width() != m.width || m.back.Height() != m.height {
		return
	}
	t := m.coord.theme.Menu()
	r := m.paintItem(t, index)
	m.front.CopyArea(m.back, r.X, r.Y, r.X, r.Y, r.Width, r.Height)
	m.coord.touch()
}

// paintItem draws item index into the back buffer and returns its
// rectangle in buffer coordinates.
func (m *Menu) paintItem(t theme.Menu, index int) canvas.Rect {
	r := m.ItemRect(index)
	r.Y += m.titleHeight()
	highlight := index == m.active && m.isItemSelectable(index) && !m.moving

	if highlight {
		// highlight overlay: item sized pixmap blitted over the frame
		m.paintBackground(m.back, r, m.hilitePm, 0, 0, t.Hilite, m.framePm, r.X, r.Y-m.titleHeight())
	} else {
		m.paintBackground(m.back, r, m.framePm, r.X, r.Y-m.titleHeight(), t.Frame, imagecache.None, 0, 0)
	}

	item := m.items[index]
	row := r.Y + r.Height/2
	switch item.Kind {
	case KindSeparator:
		for x := r.X + t.BevelWidth; x < r.Right()-t.BevelWidth; x++ {
			c := m.back.At(x, row)
			c.Rune = '─'
			c.FG = t.DisabledText
			m.back.Set(x, row, c)
		}
		return r
	case KindCommand, KindSubmenu, KindToggle:
	}

	fg := t.FrameText
	switch {
	case !item.Enabled:
		fg = t.DisabledText
	case highlight:
		fg = t.HiliteText
	}

	left := r.X + t.BevelWidth
	right := r.Right() - t.BevelWidth - 1
	switch {
	case item.Selected:
		m.back.DrawText(left, row, "✓", fg, false)
	case item.Kind == KindToggle:
		m.back.DrawText(left, row, "·", fg, false)
	}
	if item.Kind == KindSubmenu {
		if g := t.Bullet.Glyph(); g != 0 {
			x := right
			if t.BulletPos == theme.JustifyLeft && !item.Selected && item.Kind != KindToggle {
				x = left
			}
			m.back.DrawText(x, row, string(g), fg, false)
		}
	}

	textX := r.X + t.BevelWidth + t.IconWidth
	avail := max(0, m.itemW-2*(t.BevelWidth+t.IconWidth))
	label := ansi.Truncate(item.Label, avail, ellipsis)
	textX += t.FrameJustify.Offset(t.FrameFont.TextWidth(label), avail)
	m.back.DrawText(textX, row, label, fg, t.FrameFont.Bold)

	if m.search.Size() > 0 {
		if off, ok := m.search.GetMatch(index); ok {
			m.underlineMatch(label, textX, row, off, m.search.Size(), t.UnderlineColor)
		}
	}
	return r
}

// underlineMatch marks the matched runes [off, off+n) of label drawn at x.
func (m *Menu) underlineMatch(label string, x, row, off, n int, color lipgloss.Color) {
	runes := []rune(label)
	if off >= len(runes) {
		return
	}
	end := min(off+n, len(runes))
	start := x + runewidth.StringWidth(string(runes[:off]))
	width := runewidth.StringWidth(string(runes[off:end]))
	m.back.Underline(start, row, width)
	for i := 0; i < width; i++ {
		c := m.back.At(start+i, row)
		c.FG = color
		m.back.Set(start+i, row, c)
	}
}

// Compose paints the window with its border onto dst at its position.
func (m *Menu) Compose(dst *canvas.Buffer) {
	if !m.visible {
		return
	}
	if m.layoutDirty || m.renderDirty {
		m.UpdateLayout()
	}
	t := m.coord.theme.Menu()
	bw := t.BorderWidth
	outer := m.OuterBounds()
	if bw > 0 {
		drawBorder(dst, outer, bw, t.BorderColor)
	}
	dst.CopyArea(m.front, 0, 0, m.x+bw, m.y+bw, m.width, m.height)
}

func drawBorder(dst *canvas.Buffer, r canvas.Rect, bw int, color lipgloss.Color) {
	for i := 0; i < bw; i++ {
		ring := canvas.Rect{X: r.X + i, Y: r.Y + i, Width: r.Width - 2*i, Height: r.Height - 2*i}
		if ring.Width <= 0 || ring.Height <= 0 {
			return
		}
		for x := ring.X; x < ring.Right(); x++ {
			dst.Set(x, ring.Y, canvas.Cell{Rune: '─', FG: color})
			dst.Set(x, ring.Bottom()-1, canvas.Cell{Rune: '─', FG: color})
		}
		for y := ring.Y; y < ring.Bottom(); y++ {
			dst.Set(ring.X, y, canvas.Cell{Rune: '│', FG: color})
			dst.Set(ring.Right()-1, y, canvas.Cell{Rune: '│', FG: color})
		}
		dst.Set(ring.X, ring.Y, canvas.Cell{Rune: '┌', FG: color})
		dst.Set(ring.Right()-1, ring.Y, canvas.Cell{Rune: '┐', FG: color})
		dst.Set(ring.X, ring.Bottom()-1, canvas.Cell{Rune: '└', FG: color})
		dst.Set(ring.Right()-1, ring.Bottom()-1, canvas.Cell{Rune: '┘', FG: color})
	}
}

// FrontText returns row y of the published window content, for tests and
// the host's plain text dumps.
func (m *Menu) FrontText(y int) string {
	return m.front.Text(y)
}
