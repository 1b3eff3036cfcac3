package menu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/theme"
)

func gradientTheme() theme.Menu {
	t := theme.DefaultMenu()
	t.Title = imagecache.Texture{Kind: imagecache.Gradient, Color: "#101010", ColorTo: "#303030"}
	t.Frame = imagecache.Texture{Kind: imagecache.Gradient, Color: "#000000", ColorTo: "#202020", Vertical: true}
	t.Hilite = imagecache.Texture{Kind: imagecache.Gradient, Color: "#0000aa", ColorTo: "#0000ff"}
	return t
}

func TestRenderSwapsBeforeRelease(t *testing.T) {
	h := newHarnessWithTheme(t, canvas.Rect{Width: 80, Height: 24}, gradientTheme(), 0)
	m := h.menu("Main", "Alpha", "Beta")
	h.coord.Open(m, 0, 0)
	title, frame, hilite := m.Pixmaps()
	if title == imagecache.None || frame == imagecache.None || hilite == imagecache.None {
		t.Fatalf("expected three rendered pixmaps, got %d %d %d", title, frame, hilite)
	}
	if h.cache.inner.Live() != 3 {
		t.Fatalf("expected 3 live pixmaps, got %d", h.cache.inner.Live())
	}

	h.cache.ops = nil
	tm := gradientTheme()
	tm.IconWidth = 4
	h.provider.Apply(tm)

	if len(h.cache.ops) != 6 {
		t.Fatalf("expected 3 renders and 3 releases, got %v", h.cache.ops)
	}
	for i := 0; i < len(h.cache.ops); i += 2 {
		if !strings.HasPrefix(h.cache.ops[i], "render:") || !strings.HasPrefix(h.cache.ops[i+1], "remove:") {
			t.Fatalf("expected each render to precede its release, got %v", h.cache.ops)
		}
	}
	want := []string{
		fmt.Sprintf("remove:%d", hilite),
		fmt.Sprintf("remove:%d", title),
		fmt.Sprintf("remove:%d", frame),
	}
	for i, w := range want {
		if h.cache.ops[2*i+1] != w {
			t.Fatalf("expected %s at %d, got %v", w, 2*i+1, h.cache.ops)
		}
	}
	if h.cache.inner.Live() != 3 {
		t.Fatalf("expected old pixmaps freed, got %d live", h.cache.inner.Live())
	}
}

func TestRerenderSameSizeKeepsOneReference(t *testing.T) {
	h := newHarnessWithTheme(t, canvas.Rect{Width: 80, Height: 24}, gradientTheme(), 0)
	m := h.menu("Main", "Alpha")
	h.coord.Open(m, 0, 0)
	_, frame, _ := m.Pixmaps()

	m.Reconfigure()
	_, again, _ := m.Pixmaps()
	if again != frame {
		t.Fatalf("expected the cached frame to be reused")
	}
	if refs := h.cache.inner.Refs(frame); refs != 1 {
		t.Fatalf("expected a single reference after the swap, got %d", refs)
	}
}

func TestDestroyReleasesPixmaps(t *testing.T) {
	h := newHarnessWithTheme(t, canvas.Rect{Width: 80, Height: 24}, gradientTheme(), 0)
	m := h.menu("Main", "Alpha")
	h.coord.Open(m, 0, 0)
	m.Destroy()
	if h.cache.inner.Live() != 0 {
		t.Fatalf("expected every pixmap released, got %d", h.cache.inner.Live())
	}
	title, frame, hilite := m.Pixmaps()
	if title != imagecache.None || frame != imagecache.None || hilite != imagecache.None {
		t.Fatalf("expected handles cleared")
	}
}

func TestHiddenTitleHasNoPixmap(t *testing.T) {
	h := newHarnessWithTheme(t, canvas.Rect{Width: 80, Height: 24}, gradientTheme(), 0)
	m := h.menu("Main", "Alpha")
	m.DisableTitle()
	h.coord.Open(m, 0, 0)
	title, _, _ := m.Pixmaps()
	if title != imagecache.None {
		t.Fatalf("expected no title pixmap, got %d", title)
	}
	if h.cache.inner.Live() != 2 {
		t.Fatalf("expected frame and highlight only, got %d", h.cache.inner.Live())
	}
}

func TestAllocFailureFallsBackToFlatColour(t *testing.T) {
	tm := gradientTheme()
	h := newHarnessWithTheme(t, canvas.Rect{Width: 80, Height: 24}, tm, 1)
	m := h.menu("Main", "Alpha", "Beta")
	h.coord.Open(m, 0, 0)

	title, frame, hilite := m.Pixmaps()
	if title != imagecache.None || frame != imagecache.None || hilite != imagecache.None {
		t.Fatalf("expected every render to fail over the limit")
	}
	row := m.titleHeight()
	if got := m.FrontText(row); !strings.Contains(got, "Alpha") {
		t.Fatalf("expected labels drawn without pixmaps, got %q", got)
	}
	m.SetActiveIndex(0)
	if bg := m.front.At(0, row).BG; bg != tm.Hilite.Color {
		t.Fatalf("expected flat highlight %s, got %s", tm.Hilite.Color, bg)
	}
	if bg := m.front.At(0, row+1).BG; bg != tm.Frame.Color {
		t.Fatalf("expected flat frame %s, got %s", tm.Frame.Color, bg)
	}
}

func TestParentRelativeHighlightReusesFrame(t *testing.T) {
	tm := gradientTheme()
	tm.Hilite = imagecache.Texture{Kind: imagecache.ParentRelative}
	h := newHarnessWithTheme(t, canvas.Rect{Width: 80, Height: 24}, tm, 0)
	m := h.menu("Main", "Alpha", "Beta")
	h.coord.Open(m, 0, 0)
	m.SetActiveIndex(1)

	_, frame, hilite := m.Pixmaps()
	if hilite != imagecache.ParentRelativePixmap {
		t.Fatalf("expected parent relative sentinel, got %d", hilite)
	}
	src := h.cache.inner.Buffer(frame)
	r := m.ItemRect(1)
	want := src.At(r.X, r.Y).BG
	if got := m.front.At(r.X, m.titleHeight()+r.Y).BG; got != want {
		t.Fatalf("expected highlight to show the frame background %s, got %s", want, got)
	}
}

func TestDisabledItemUsesDisabledColour(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main", "Alpha")
	m.SetItemEnabled(0, false)
	h.coord.Open(m, 0, 0)
	tm := h.provider.Menu()
	x := tm.BevelWidth + tm.IconWidth
	if fg := m.front.At(x, m.titleHeight()).FG; fg != tm.DisabledText {
		t.Fatalf("expected disabled colour %s, got %s", tm.DisabledText, fg)
	}
}

func TestSeparatorDrawsRule(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("Main", "Alpha")
	m.Add(NewSeparator())
	m.InsertCommand("Beta", nil, -1)
	h.coord.Open(m, 0, 0)
	if got := m.FrontText(m.titleHeight() + 1); !strings.Contains(got, "───") {
		t.Fatalf("expected a rule on the separator row, got %q", got)
	}
}

func TestTitleSetsWidth(t *testing.T) {
	h := newHarness(t, canvas.Rect{Width: 80, Height: 24})
	m := h.menu("A title that is far longer than any item", "x")
	h.coord.Open(m, 0, 0)
	if got := m.FrontText(0); !strings.Contains(got, "A title") {
		t.Fatalf("expected the title drawn, got %q", got)
	}
	if m.Width() != h.provider.Menu().TitleWidth("A title that is far longer than any item") {
		t.Fatalf("expected the title to set the menu width, got %d", m.Width())
	}
}
