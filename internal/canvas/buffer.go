// Package canvas is the drawable used by menus: a grid of terminal cells
// that can be filled, blitted and finally rendered to ANSI text.
package canvas

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal cell. Empty colours mean the terminal default.
type Cell struct {
	Rune      rune
	FG        lipgloss.Color
	BG        lipgloss.Color
	Bold      bool
	Underline bool
}

// Blank is the cell buffers are cleared to.
var Blank = Cell{Rune: ' '}

// Rect is an area in cell coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Right is the first column past r.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom is the first row past r.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Buffer is a fixed size grid of cells.
type Buffer struct {
	width, height int
	cells         []Cell
}

// New allocates a blank buffer. Non-positive sizes yield an empty buffer.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{width: width, height: height, cells: make([]Cell, width*height)}
	b.Clear()
	return b
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Resize reallocates the grid, dropping its content.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	*b = *New(width, height)
}

// Clear resets every cell to Blank.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Blank
	}
}

// At returns the cell at x, y or Blank when out of bounds.
func (b *Buffer) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Blank
	}
	return b.cells[y*b.width+x]
}

// Set writes c at x, y; out of bounds writes are dropped.
func (b *Buffer) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = c
}

// Fill paints the background of r and blanks its runes.
func (b *Buffer) Fill(r Rect, bg lipgloss.Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			b.Set(x, y, Cell{Rune: ' ', BG: bg})
		}
	}
}

// CopyArea copies a w x h region of src at sx, sy to dx, dy in b.
func (b *Buffer) CopyArea(src *Buffer, sx, sy, dx, dy, w, h int) {
	if src == nil {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if sx+x < 0 || sy+y < 0 || sx+x >= src.width || sy+y >= src.height {
				continue
			}
			b.Set(dx+x, dy+y, src.At(sx+x, sy+y))
		}
	}
}

// DrawText writes s starting at x, y with the given foreground, keeping the
// existing background. Wide runes take two cells. It returns the columns used.
func (b *Buffer) DrawText(x, y int, s string, fg lipgloss.Color, bold bool) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		cell := b.At(col, y)
		cell.Rune = r
		cell.FG = fg
		cell.Bold = bold
		b.Set(col, y, cell)
		for i := 1; i < w; i++ {
			pad := b.At(col+i, y)
			pad.Rune = 0
			b.Set(col+i, y, pad)
		}
		col += w
	}
	return col - x
}

// Underline marks cells [x, x+w) of row y.
func (b *Buffer) Underline(x, y, w int) {
	for i := 0; i < w; i++ {
		c := b.At(x+i, y)
		c.Underline = true
		b.Set(x+i, y, c)
	}
}

// Lines renders every row to an ANSI string using lipgloss styles, merging
// runs of identically styled cells.
func (b *Buffer) Lines() []string {
	out := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		out[y] = b.renderRow(y)
	}
	return out
}

// String joins Lines with newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Text returns the raw runes of row y without styling.
func (b *Buffer) Text(y int) string {
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		r := b.At(x, y).Rune
		if r == 0 {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *Buffer) renderRow(y int) string {
	var sb strings.Builder
	var run strings.Builder
	var cur Cell
	flush := func() {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(styleFor(cur).Render(run.String()))
		run.Reset()
	}
	for x := 0; x < b.width; x++ {
		c := b.At(x, y)
		if c.Rune == 0 {
			continue
		}
		if x == 0 || !sameStyle(c, cur) {
			flush()
			cur = c
		}
		run.WriteRune(c.Rune)
	}
	flush()
	return sb.String()
}

func sameStyle(a, b Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Bold == b.Bold && a.Underline == b.Underline
}

func styleFor(c Cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.FG != "" {
		s = s.Foreground(c.FG)
	}
	if c.BG != "" {
		s = s.Background(c.BG)
	}
	if c.Bold {
		s = s.Bold(true)
	}
	if c.Underline {
		s = s.Underline(true)
	}
	return s
}
