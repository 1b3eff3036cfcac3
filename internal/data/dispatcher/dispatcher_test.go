package dispatcher

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/nestmenu/internal/backend"
	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/menu"
	"github.com/atomicstack/nestmenu/internal/theme"
	"github.com/atomicstack/nestmenu/internal/timer"
	"github.com/atomicstack/nestmenu/internal/tmux"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newWindowMenu(t *testing.T) *menu.Menu {
	t.Helper()
	coord := menu.NewCoordinator(
		theme.NewProvider(theme.DefaultMenu()),
		imagecache.New(0),
		timer.NewQueue(func() time.Time { return fixedNow }),
		canvas.Rect{Width: 120, Height: 40},
	)
	m := menu.New(coord)
	t.Cleanup(m.Destroy)
	return m
}

func snapshot(current string, windows ...tmux.Window) backend.Event {
	for i := range windows {
		windows[i].Current = windows[i].ID == current
	}
	return backend.Event{Kind: backend.KindWindows, Data: tmux.WindowSnapshot{Windows: windows, CurrentID: current}}
}

func TestHandleBuildsWindowItems(t *testing.T) {
	m := newWindowMenu(t)
	var selected []string
	d := New(m, func(target string) { selected = append(selected, target) })
	d.now = func() time.Time { return fixedNow }

	res := d.Handle(snapshot("work:1",
		tmux.Window{ID: "work:0", Label: "work:0: editor", Activity: fixedNow.Add(-3 * time.Minute)},
		tmux.Window{ID: "work:1", Label: "work:1: shell"},
	))
	if !res.WindowsUpdated {
		t.Fatalf("expected windows to be updated")
	}
	if m.NumItems() != 2 {
		t.Fatalf("expected 2 items, got %d", m.NumItems())
	}
	if got := m.Item(0).Label; got != "work:0: editor  (3 minutes ago)" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := m.Item(1).Label; got != "work:1: shell" {
		t.Fatalf("expected a bare label without trailing padding, got %q", got)
	}
	if m.Item(0).Selected || !m.Item(1).Selected {
		t.Fatalf("expected only the current window to be marked")
	}
	if m.Label() != "Windows (2 windows)" {
		t.Fatalf("unexpected title %q", m.Label())
	}

	m.Item(0).Command()
	if len(selected) != 1 || selected[0] != "work:0" {
		t.Fatalf("expected work:0 selected, got %v", selected)
	}
}

func TestHandleKeepsItemsWhenOnlyActivityMoves(t *testing.T) {
	m := newWindowMenu(t)
	d := New(m, nil)
	d.now = func() time.Time { return fixedNow }
	w := tmux.Window{ID: "s:0", Label: "s:0: a", Activity: fixedNow.Add(-2 * time.Minute)}

	d.Handle(snapshot("s:0", w))
	first := m.Item(0)

	if res := d.Handle(snapshot("s:0", w)); res.WindowsUpdated {
		t.Fatalf("expected identical snapshot to be a no-op")
	}

	d.now = func() time.Time { return fixedNow.Add(time.Minute) }
	if res := d.Handle(snapshot("s:0", w)); !res.WindowsUpdated {
		t.Fatalf("expected label refresh to count as an update")
	}
	if m.Item(0) != first {
		t.Fatalf("expected the item to be reused")
	}
	if m.Item(0).Label != "s:0: a  (3 minutes ago)" {
		t.Fatalf("unexpected refreshed label %q", m.Item(0).Label)
	}
	if m.Label() != "Windows (1 window)" {
		t.Fatalf("unexpected title %q", m.Label())
	}
}

func TestHandleRebuildsWhenCurrentChanges(t *testing.T) {
	m := newWindowMenu(t)
	d := New(m, nil)
	a := tmux.Window{ID: "s:0", Label: "a"}
	b := tmux.Window{ID: "s:1", Label: "b"}
	d.Handle(snapshot("s:0", a, b))
	d.Handle(snapshot("s:1", a, b))
	if m.Item(0).Selected || !m.Item(1).Selected {
		t.Fatalf("expected selection to follow the current window")
	}
	d.Handle(snapshot("s:1", b))
	if m.NumItems() != 1 || m.Item(0).Label != "b" {
		t.Fatalf("expected closed window to disappear, got %d items", m.NumItems())
	}
}

func TestHandleErrorsAndConfig(t *testing.T) {
	m := newWindowMenu(t)
	d := New(m, nil)
	res := d.Handle(backend.Event{Kind: backend.KindWindows, Err: errors.New("gone")})
	if res.Err == nil || res.WindowsUpdated {
		t.Fatalf("expected error result, got %#v", res)
	}
	res = d.Handle(backend.Event{Kind: backend.KindConfig, Data: "/x/config.toml"})
	if !res.ConfigChanged {
		t.Fatalf("expected config change")
	}
	res = d.Handle(backend.Event{Kind: backend.KindWindows, Data: "not a snapshot"})
	if res.WindowsUpdated {
		t.Fatalf("expected unknown payload to be ignored")
	}
}

func TestSetMenuResetsState(t *testing.T) {
	d := New(nil, nil)
	if res := d.Handle(snapshot("s:0", tmux.Window{ID: "s:0", Label: "a"})); res.WindowsUpdated {
		t.Fatalf("expected nil menu to ignore snapshots")
	}
	m := newWindowMenu(t)
	d.SetMenu(m)
	if res := d.Handle(snapshot("s:0", tmux.Window{ID: "s:0", Label: "a"})); !res.WindowsUpdated || m.NumItems() != 1 {
		t.Fatalf("expected new menu to be filled")
	}
}
