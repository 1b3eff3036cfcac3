package menu

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/theme"
	"github.com/atomicstack/nestmenu/internal/timer"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

type harness struct {
	clock    *fakeClock
	provider *theme.Provider
	cache    *recordingCache
	coord    *Coordinator
}

// flatTheme keeps every background a plain colour so tests do not depend on
// gradient rendering.
func flatTheme() theme.Menu {
	t := theme.DefaultMenu()
	t.Title = imagecache.Texture{Kind: imagecache.Flat, Color: "#000000"}
	t.Frame = imagecache.Texture{Kind: imagecache.Flat, Color: "#000000"}
	t.Hilite = imagecache.Texture{Kind: imagecache.Flat, Color: "#0000ff"}
	return t
}

func newHarness(t *testing.T, screen canvas.Rect) *harness {
	t.Helper()
	return newHarnessWithTheme(t, screen, flatTheme(), 0)
}

func newHarnessWithTheme(t *testing.T, screen canvas.Rect, tm theme.Menu, limit int) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	provider := theme.NewProvider(tm)
	cache := &recordingCache{inner: imagecache.New(limit)}
	coord := NewCoordinator(provider, cache, timer.NewQueue(clock.Now), screen)
	return &harness{clock: clock, provider: provider, cache: cache, coord: coord}
}

type recordingCache struct {
	inner *imagecache.Cache
	ops   []string
}

func (c *recordingCache) RenderImage(w, h int, tex imagecache.Texture, o imagecache.Orientation) imagecache.Pixmap {
	p := c.inner.RenderImage(w, h, tex, o)
	c.ops = append(c.ops, fmt.Sprintf("render:%d", p))
	return p
}

func (c *recordingCache) RemoveImage(p imagecache.Pixmap) {
	c.ops = append(c.ops, fmt.Sprintf("remove:%d", p))
	c.inner.RemoveImage(p)
}

func (c *recordingCache) Buffer(p imagecache.Pixmap) *canvas.Buffer {
	return c.inner.Buffer(p)
}

func (h *harness) menu(title string, labels ...string) *Menu {
	m := New(h.coord)
	m.title.label = title
	for _, l := range labels {
		m.InsertCommand(l, func() {}, -1)
	}
	return m
}

// frameRoot returns the root coordinates of item row in menu m's first
// column, one cell in from the left edge.
func frameRoot(m *Menu, index int) (int, int) {
	r := m.FrameBounds()
	ir := m.ItemRect(index)
	return r.X + ir.X + 1, r.Y + ir.Y
}

func TestColumnLayout(t *testing.T) {
	cases := []struct {
		name                    string
		n, ih, th, bw, sh, minC int
		wantColumns, wantPerCol int
	}{
		{name: "overflow splits", n: 20, ih: 20, th: 20, bw: 2, sh: 300, minC: 1, wantColumns: 2, wantPerCol: 10},
		{name: "fits one column", n: 5, ih: 1, th: 1, bw: 1, sh: 24, minC: 1, wantColumns: 1, wantPerCol: 5},
		{name: "minimum columns", n: 4, ih: 1, th: 1, bw: 1, sh: 24, minC: 2, wantColumns: 2, wantPerCol: 2},
		{name: "never more columns than items", n: 3, ih: 10, th: 10, bw: 1, sh: 5, minC: 1, wantColumns: 3, wantPerCol: 1},
		{name: "empty", n: 0, ih: 1, th: 1, bw: 1, sh: 24, minC: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cols, per := ColumnLayout(tc.n, tc.ih, tc.th, tc.bw, tc.sh, tc.minC)
			if cols != tc.wantColumns || per != tc.wantPerCol {
				t.Fatalf("expected %d columns of %d, got %d of %d", tc.wantColumns, tc.wantPerCol, cols, per)
			}
		})
	}
}

func TestLayoutSizesMenu(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main", "Alpha", "Beta", "Gamma")
	if m.ItemWidth() != 11 {
		t.Fatalf("expected item width 11, got %d", m.ItemWidth())
	}
	if m.Width() != 11 || m.Height() != 4 {
		t.Fatalf("expected 11x4, got %dx%d", m.Width(), m.Height())
	}
	m.DisableTitle()
	if m.Height() != 3 {
		t.Fatalf("expected height 3 without title, got %d", m.Height())
	}
	m.SetMinimumColumns(3)
	if m.Columns() != 3 || m.RowsPerColumn() != 1 || m.Width() != 33 {
		t.Fatalf("expected 3 columns 33 wide, got %d columns %d wide", m.Columns(), m.Width())
	}
}

func TestInsertShiftsIndexes(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("", "a", "b", "c")
	m.active, m.openSub, m.pressed = 1, 2, 1

	m.InsertCommand("z", nil, 0)
	if m.active != 2 || m.openSub != 3 || m.pressed != 2 {
		t.Fatalf("expected indexes shifted to 2/3/2, got %d/%d/%d", m.active, m.openSub, m.pressed)
	}
	m.InsertCommand("tail", nil, 99)
	if m.NumItems() != 5 || m.Item(4).Label != "tail" {
		t.Fatalf("expected out of range insert to append")
	}
	if m.active != 2 {
		t.Fatalf("expected append to leave active alone, got %d", m.active)
	}
}

func TestRemoveKeepsIndexesInRange(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("", "a", "b", "c", "d")
	m.active = 2

	m.Remove(0)
	if m.active != 1 {
		t.Fatalf("expected active to shift down to 1, got %d", m.active)
	}
	m.Remove(1)
	if m.active != -1 {
		t.Fatalf("expected removing the active item to clear it, got %d", m.active)
	}
	if n := m.Remove(42); n != 2 {
		t.Fatalf("expected out of range remove to be ignored, got %d items", n)
	}
	m.active = 1
	m.RemoveAll()
	if m.NumItems() != 0 || m.active != -1 || m.openSub != -1 || m.pressed != -1 {
		t.Fatalf("expected empty menu with cleared indexes, got %d items active=%d", m.NumItems(), m.active)
	}
}

func TestRemoveOpenSubmenuItem(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	sub := h.menu("Sub", "one")
	root := h.menu("Root", "a")
	root.InsertSubmenu("more", sub, -1)
	live := h.coord.Menus()

	h.coord.Open(root, 0, 0)
	root.SetActiveIndex(1)
	root.DrawSubmenu(1)
	if !sub.IsVisible() {
		t.Fatalf("expected submenu to be visible")
	}
	root.Remove(1)
	if sub.IsVisible() {
		t.Fatalf("expected submenu hidden after its item was removed")
	}
	if root.openSub != -1 || root.active != -1 {
		t.Fatalf("expected open and active cleared, got %d/%d", root.openSub, root.active)
	}
	if h.coord.Menus() != live-1 {
		t.Fatalf("expected owned submenu destroyed, got %d live menus", h.coord.Menus())
	}
}

func TestRemoveAroundOpenSubmenu(t *testing.T) {
	cases := []struct {
		name     string
		remove   int
		wantOpen int
		wantVis  bool
	}{
		{name: "below", remove: 0, wantOpen: 1, wantVis: true},
		{name: "at", remove: 2, wantOpen: -1, wantVis: false},
		{name: "above", remove: 3, wantOpen: 2, wantVis: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
			sub := h.menu("Sub", "one")
			root := h.menu("Root", "a", "b")
			root.InsertSubmenu("more", sub, -1)
			root.InsertCommand("c", func() {}, -1)
			root.InsertCommand("d", func() {}, -1)
			h.coord.Open(root, 0, 0)
			root.DrawSubmenu(2)
			if root.OpenSubmenuIndex() != 2 || !sub.IsVisible() {
				t.Fatalf("expected submenu open at 2, got %d", root.OpenSubmenuIndex())
			}

			root.Remove(tc.remove)
			if got := root.OpenSubmenuIndex(); got != tc.wantOpen {
				t.Fatalf("expected open submenu index %d, got %d", tc.wantOpen, got)
			}
			if sub.IsVisible() != tc.wantVis {
				t.Fatalf("expected submenu visible=%v, got %v", tc.wantVis, sub.IsVisible())
			}
			if tc.wantOpen >= 0 && root.Item(tc.wantOpen).Submenu != sub {
				t.Fatalf("expected item %d to hold the open submenu", tc.wantOpen)
			}
		})
	}
}

func TestRandomEditsKeepIndexesConsistent(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 200, Height: 60})
	root := h.menu("Root", "a", "b")
	h.coord.Open(root, 0, 0)
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 500; step++ {
		n := root.NumItems()
		switch op := rng.Intn(5); {
		case op == 0:
			root.InsertCommand(fmt.Sprintf("c%d", step), func() {}, rng.Intn(n+2)-1)
		case op == 1:
			sub := h.menu(fmt.Sprintf("s%d", step), "x")
			root.InsertSubmenu(fmt.Sprintf("s%d", step), sub, rng.Intn(n+2)-1)
		case op == 2 && n > 0:
			root.Remove(rng.Intn(n))
		case op == 3 && n > 0:
			i := rng.Intn(n)
			root.SetActiveIndex(i)
			root.DrawSubmenu(i)
		case op == 4 && n > 0:
			root.SetActiveIndex(rng.Intn(n+1) - 1)
		}

		n = root.NumItems()
		active, open := root.ActiveIndex(), root.OpenSubmenuIndex()
		if active < -1 || active >= n {
			t.Fatalf("step %d: expected active in [-1,%d), got %d", step, n, active)
		}
		if open < -1 || open >= n {
			t.Fatalf("step %d: expected open submenu in [-1,%d), got %d", step, n, open)
		}
		if open >= 0 && root.Item(open).Submenu == nil {
			t.Fatalf("step %d: expected item %d to carry a submenu", step, open)
		}
	}
}

func TestDestroyOwnedAndShared(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	owned := h.menu("Owned", "x")
	shared := h.menu("Shared", "y")
	root := h.menu("Root")
	root.InsertSubmenu("owned", owned, -1)
	root.Add(NewSharedSubmenu("shared", shared))
	if h.coord.Menus() != 3 {
		t.Fatalf("expected 3 live menus, got %d", h.coord.Menus())
	}
	subs := h.provider.Subscribers()

	h.coord.Open(root, 0, 0)
	root.DrawSubmenu(1)
	root.Destroy()

	if h.coord.Menus() != 1 {
		t.Fatalf("expected only the shared menu to survive, got %d", h.coord.Menus())
	}
	if shared.IsVisible() {
		t.Fatalf("expected shared submenu hidden")
	}
	if shared.NumItems() != 1 {
		t.Fatalf("expected shared submenu intact")
	}
	if h.provider.Subscribers() != subs-2 {
		t.Fatalf("expected destroyed menus to unsubscribe, got %d subscribers", h.provider.Subscribers())
	}
	if h.coord.Shown() != nil || len(h.coord.Visible()) != 0 {
		t.Fatalf("expected nothing shown after destroy")
	}
}

func TestHideIsIdempotent(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main", "a")
	rev := h.coord.Revision()
	m.Hide()
	m.ForceHide()
	if h.coord.Revision() != rev {
		t.Fatalf("expected hiding a hidden menu to change nothing")
	}
}

func TestShowHideKeepsGeometry(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main", "a", "b")
	h.coord.Open(m, 5, 3)
	before := m.Geometry()
	m.Hide()
	if m.IsVisible() || h.coord.Shown() != nil {
		t.Fatalf("expected menu hidden")
	}
	m.Show()
	if m.Geometry() != before {
		t.Fatalf("expected geometry %+v, got %+v", before, m.Geometry())
	}
	if h.coord.Shown() != m {
		t.Fatalf("expected menu to be shown")
	}
}

func TestShowEmptyMenuDoesNothing(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Empty")
	m.Show()
	if m.IsVisible() {
		t.Fatalf("expected empty menu to stay hidden")
	}
}

func TestShowHidesPreviousMenu(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	a := h.menu("A", "x")
	b := h.menu("B", "y")
	h.coord.Open(a, 0, 0)
	h.coord.Open(b, 20, 0)
	if a.IsVisible() || !b.IsVisible() {
		t.Fatalf("expected showing B to hide A")
	}
}

func TestOpenShiftsIntoScreen(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 40, Height: 10})
	m := h.menu("Main", "Alpha", "Beta")
	h.coord.Open(m, 35, 9)
	outer := m.OuterBounds()
	if outer.Right() > 40 || outer.Bottom() > 10 {
		t.Fatalf("expected menu on screen, got %+v", outer)
	}
	if m.X() != 40-outer.Width || m.Y() != 10-outer.Height {
		t.Fatalf("expected menu flush with the corner, got %d,%d", m.X(), m.Y())
	}
}

func TestSubmenuOpensRightOfItem(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	sub := h.menu("Sub", "One", "Two")
	root := h.menu("Root", "Alpha")
	root.InsertSubmenu("Beta", sub, -1)
	h.coord.Open(root, 2, 2)

	root.DrawSubmenu(1)
	if !sub.IsVisible() || sub.Parent() != root || root.OpenSubmenuIndex() != 1 {
		t.Fatalf("expected submenu open under root")
	}
	// x: root.x + itemW + bw; y: root.y + titleH - (subTitleH + bw) + row
	if sub.X() != 2+11+1 || sub.Y() != 2+1-2+1 {
		t.Fatalf("expected submenu at 14,2, got %d,%d", sub.X(), sub.Y())
	}
	if h.coord.Shown() != sub {
		t.Fatalf("expected submenu to be the shown menu")
	}
}

func TestSubmenuAlignTop(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	sub := h.menu("Sub", "One")
	root := h.menu("Root", "a", "b", "c")
	root.InsertSubmenu("d", sub, -1)
	root.SetAlignment(AlignTop)
	h.coord.Open(root, 0, 5)
	root.DrawSubmenu(3)
	if sub.Y() != 5+1-2 {
		t.Fatalf("expected top aligned submenu at y=4, got %d", sub.Y())
	}
}

func TestSubmenuFlipsLeftAtScreenEdge(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 40, Height: 20})
	sub := h.menu("Sub", "One", "Two")
	root := h.menu("Root", "Alpha")
	root.InsertSubmenu("Beta", sub, -1)
	h.coord.Open(root, 27, 0)
	if root.X() != 27 {
		t.Fatalf("expected root to fit at x=27, got %d", root.X())
	}

	root.DrawSubmenu(1)
	if sub.X() != 27-sub.Width()-1 {
		t.Fatalf("expected submenu flipped to x=%d, got %d", 27-sub.Width()-1, sub.X())
	}
}

func TestSubmenuShiftsUpAtScreenBottom(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 10})
	sub := h.menu("Sub", "1", "2", "3", "4", "5", "6")
	root := h.menu("Root", "Alpha")
	root.InsertSubmenu("Beta", sub, -1)
	root.InsertCommand("Gamma", nil, -1)
	h.coord.Open(root, 0, 5)
	if root.Y() != 4 {
		t.Fatalf("expected root shifted to y=4, got %d", root.Y())
	}

	root.DrawSubmenu(1)
	if sub.Columns() != 1 {
		t.Fatalf("expected a single column submenu, got %d", sub.Columns())
	}
	if want := 10 - sub.Height() - 2; sub.Y() != want {
		t.Fatalf("expected submenu shifted to y=%d, got %d", want, sub.Y())
	}
}

func TestHideCollapsesChain(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	leaf := h.menu("Leaf", "x")
	mid := h.menu("Mid")
	mid.InsertSubmenu("leaf", leaf, -1)
	root := h.menu("Root")
	root.InsertSubmenu("mid", mid, -1)

	h.coord.Open(root, 0, 0)
	root.DrawSubmenu(0)
	mid.DrawSubmenu(0)
	if !leaf.IsVisible() || h.coord.Shown() != leaf {
		t.Fatalf("expected leaf shown")
	}
	leaf.Hide()
	for _, m := range []*Menu{root, mid, leaf} {
		if m.IsVisible() {
			t.Fatalf("expected %s hidden", m.Label())
		}
	}
	if h.coord.Shown() != nil || h.coord.Focused() != nil {
		t.Fatalf("expected nothing shown or focused")
	}
}

func TestOpeningAnotherSubmenuClosesTheFirst(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	a := h.menu("A", "x")
	b := h.menu("B", "y")
	root := h.menu("Root")
	root.InsertSubmenu("a", a, -1)
	root.InsertSubmenu("b", b, -1)
	h.coord.Open(root, 0, 0)

	root.DrawSubmenu(0)
	root.DrawSubmenu(1)
	if a.IsVisible() || !b.IsVisible() || root.OpenSubmenuIndex() != 1 {
		t.Fatalf("expected only b open")
	}
}

func TestSharedSubmenuReparents(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	shared := h.menu("Shared", "x")
	a := h.menu("A")
	a.Add(NewSharedSubmenu("s", shared))
	b := h.menu("B")
	b.Add(NewSharedSubmenu("s", shared))

	h.coord.Open(a, 0, 0)
	a.DrawSubmenu(0)
	if shared.Parent() != a {
		t.Fatalf("expected parent a")
	}
	// torn menus survive another menu being shown
	a.torn = true
	h.coord.Open(b, 30, 0)
	b.DrawSubmenu(0)
	if !a.IsVisible() {
		t.Fatalf("expected torn menu to stay visible")
	}
	if shared.Parent() != b || a.OpenSubmenuIndex() != -1 {
		t.Fatalf("expected shared submenu reparented to b, a open index %d", a.OpenSubmenuIndex())
	}
}

func TestItemToggleAndSelectionFlags(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main")
	calls := 0
	m.Add(NewToggle("wrap", false, func() { calls++ }))
	m.Add(NewSeparator())

	m.Item(0).Click(1, 0)
	if !m.IsItemSelected(0) || calls != 1 {
		t.Fatalf("expected toggle selected and command run, got %v/%d", m.IsItemSelected(0), calls)
	}
	m.SetItemEnabled(0, false)
	if m.IsItemEnabled(0) || m.isItemSelectable(0) {
		t.Fatalf("expected disabled item")
	}
	if m.isItemSelectable(1) {
		t.Fatalf("expected separator never selectable")
	}
	if m.FindSubmenuIndex(nil) != -1 {
		t.Fatalf("expected no submenu index for nil")
	}
}

func TestReconfigureOnThemeChange(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main", "Alpha")
	h.coord.Open(m, 0, 0)

	tm := flatTheme()
	tm.IconWidth = 4
	h.provider.Apply(tm)
	if m.ItemWidth() != 5+2*(1+4) {
		t.Fatalf("expected item width to follow the theme, got %d", m.ItemWidth())
	}
}
