// Package dispatcher applies backend events to the live menu tree.
package dispatcher

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/atomicstack/nestmenu/internal/backend"
	"github.com/atomicstack/nestmenu/internal/format/table"
	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/menu"
	"github.com/atomicstack/nestmenu/internal/tmux"
)

type Result struct {
	WindowsUpdated bool
	ConfigChanged  bool
	Err            error
}

// Dispatcher keeps the shared window menu in step with tmux.
type Dispatcher struct {
	windows      *menu.Menu
	selectWindow func(target string)
	now          func() time.Time

	ids     []string
	current string
}

// New returns a dispatcher filling windows. selectWindow runs when one of its
// entries is chosen. windows may be nil when the menu file has no window list.
func New(windows *menu.Menu, selectWindow func(target string)) *Dispatcher {
	return &Dispatcher{windows: windows, selectWindow: selectWindow, now: time.Now}
}

// SetMenu points the dispatcher at a freshly built window menu; the next
// snapshot fills it from scratch.
func (d *Dispatcher) SetMenu(windows *menu.Menu) {
	d.windows = windows
	d.ids = nil
	d.current = ""
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		if evt.Kind == backend.KindWindows {
			events.Window.Error(evt.Err)
		}
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindWindows:
		if snapshot, ok := evt.Data.(tmux.WindowSnapshot); ok {
			res.WindowsUpdated = d.apply(snapshot)
		}
	case backend.KindConfig:
		res.ConfigChanged = true
	}
	return res
}

// apply rebuilds the items when the window set or the current window moved,
// and otherwise refreshes labels in place so the highlight survives.
func (d *Dispatcher) apply(snap tmux.WindowSnapshot) bool {
	if d.windows == nil {
		return false
	}
	labels := windowLabels(snap.Windows, d.now())
	ids := make([]string, len(snap.Windows))
	for i, w := range snap.Windows {
		ids[i] = w.ID
	}
	title := fmt.Sprintf("Windows (%s)", english.Plural(len(snap.Windows), "window", ""))

	if sameStrings(ids, d.ids) && snap.CurrentID == d.current {
		changed := d.windows.Label() != title
		for i, it := range d.windows.Items() {
			if it.Label != labels[i] {
				it.Label = labels[i]
				changed = true
			}
		}
		if !changed {
			return false
		}
		if d.windows.Label() != title {
			d.windows.SetLabel(title)
		} else {
			d.windows.Reconfigure()
		}
		return true
	}

	d.windows.RemoveAll()
	for i, w := range snap.Windows {
		target := w.ID
		item := menu.NewCommand(labels[i], func() {
			if d.selectWindow != nil {
				d.selectWindow(target)
			}
		})
		item.Selected = w.Current
		d.windows.Add(item)
	}
	d.ids = ids
	d.current = snap.CurrentID
	d.windows.SetLabel(title)
	events.Window.Refresh(len(snap.Windows))
	return true
}

// windowLabels lines the last-activity ages up in a column.
func windowLabels(windows []tmux.Window, now time.Time) []string {
	rows := make([][]string, len(windows))
	for i, w := range windows {
		age := ""
		if !w.Activity.IsZero() {
			age = "(" + humanize.RelTime(w.Activity, now, "ago", "from now") + ")"
		}
		rows[i] = []string{w.Label, age}
	}
	return table.Format(rows, nil)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
