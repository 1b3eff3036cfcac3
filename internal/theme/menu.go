package theme

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/atomicstack/nestmenu/internal/imagecache"
)

// Justify positions text inside its slot.
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

// ParseJustify accepts "left", "center" and "right"; anything else is left.
func ParseJustify(s string) Justify {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre":
		return JustifyCenter
	case "right":
		return JustifyRight
	default:
		return JustifyLeft
	}
}

// Bullet is the marker drawn on items that own a submenu.
type Bullet int

const (
	BulletEmpty Bullet = iota
	BulletSquare
	BulletTriangle
	BulletDiamond
)

// ParseBullet accepts "empty", "square", "triangle" and "diamond".
func ParseBullet(s string) Bullet {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square":
		return BulletSquare
	case "triangle":
		return BulletTriangle
	case "diamond":
		return BulletDiamond
	default:
		return BulletEmpty
	}
}

// Glyph is the rune drawn for b; zero for BulletEmpty.
func (b Bullet) Glyph() rune {
	switch b {
	case BulletSquare:
		return '■'
	case BulletTriangle:
		return '▸'
	case BulletDiamond:
		return '◆'
	default:
		return 0
	}
}

// Font measures text in terminal cells.
type Font struct {
	Bold bool
}

// TextWidth is the display width of s.
func (Font) TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Height is one cell.
func (Font) Height() int {
	return 1
}

// Menu holds every visual parameter a menu reads.
type Menu struct {
	Title  imagecache.Texture
	Frame  imagecache.Texture
	Hilite imagecache.Texture

	TitleText      lipgloss.Color
	FrameText      lipgloss.Color
	HiliteText     lipgloss.Color
	DisabledText   lipgloss.Color
	UnderlineColor lipgloss.Color
	BorderColor    lipgloss.Color

	TitleFont Font
	FrameFont Font

	BevelWidth  int
	IconWidth   int
	ItemHeight  int
	TitleHeight int
	BorderWidth int

	OpenDelay  time.Duration
	CloseDelay time.Duration

	Bullet       Bullet
	BulletPos    Justify
	TitleJustify Justify
	FrameJustify Justify
}

// DefaultMenu is the built-in look.
func DefaultMenu() Menu {
	return Menu{
		Title:          imagecache.Texture{Kind: imagecache.Gradient, Color: "#3a4a6b", ColorTo: "#1c2333"},
		Frame:          imagecache.Texture{Kind: imagecache.Flat, Color: "#20242c"},
		Hilite:         imagecache.Texture{Kind: imagecache.Gradient, Color: "#5f87d7", ColorTo: "#3a5fa0"},
		TitleText:      "#ffffff",
		FrameText:      "#c0c5ce",
		HiliteText:     "#ffffff",
		DisabledText:   "#5c6370",
		UnderlineColor: "#e5c07b",
		BorderColor:    "#5c6370",
		TitleFont:      Font{Bold: true},
		BevelWidth:     1,
		IconWidth:      2,
		ItemHeight:     1,
		TitleHeight:    1,
		BorderWidth:    1,
		OpenDelay:      200 * time.Millisecond,
		CloseDelay:     200 * time.Millisecond,
		Bullet:         BulletTriangle,
		BulletPos:      JustifyRight,
		TitleJustify:   JustifyLeft,
		FrameJustify:   JustifyLeft,
	}
}

// RealItemHeight is the row height items are laid out with.
func (m Menu) RealItemHeight() int {
	return max(m.FrameFont.Height(), m.ItemHeight)
}

// RealTitleHeight is the height of a visible title bar.
func (m Menu) RealTitleHeight() int {
	return max(m.TitleFont.Height(), m.TitleHeight)
}

// ItemWidth is the width an item with label needs: text plus bevel and
// icon space on both sides.
func (m Menu) ItemWidth(label string) int {
	return m.FrameFont.TextWidth(label) + 2*(m.BevelWidth+m.IconWidth)
}

// TitleWidth is the width a title label needs.
func (m Menu) TitleWidth(label string) int {
	return m.TitleFont.TextWidth(label) + 2*m.BevelWidth
}

// Offset places text of width w in a slot of width slot.
func (j Justify) Offset(w, slot int) int {
	switch j {
	case JustifyCenter:
		return max(0, (slot-w)/2)
	case JustifyRight:
		return max(0, slot-w)
	default:
		return 0
	}
}

type subscription struct {
	id int
	fn func()
}

// Provider hands out the current Menu theme and notifies subscribers when
// it changes. It is used from the event loop only.
type Provider struct {
	current Menu
	subs    []subscription
	nextID  int
}

// NewProvider wraps m.
func NewProvider(m Menu) *Provider {
	return &Provider{current: m}
}

// Menu returns the current parameters.
func (p *Provider) Menu() Menu {
	return p.current
}

// Subscribe registers fn for change notifications and returns a cancel
// func. Subscribers run in registration order.
func (p *Provider) Subscribe(fn func()) func() {
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers is the number of live subscriptions.
func (p *Provider) Subscribers() int {
	return len(p.subs)
}

// Apply installs m and notifies every subscriber.
func (p *Provider) Apply(m Menu) {
	p.current = m
	subs := make([]subscription, len(p.subs))
	copy(subs, p.subs)
	for _, s := range subs {
		s.fn()
	}
}
