package events

import "github.com/atomicstack/nestmenu/internal/logging"

type MenuTracer struct{}

type SearchTracer struct{}

type TimerTracer struct{}

var (
	Menu   = MenuTracer{}
	Search = SearchTracer{}
	Timer  = TimerTracer{}
)

func (MenuTracer) Show(id, label string, x, y int) {
	logging.Trace("menu.show", map[string]interface{}{"menu": id, "label": label, "x": x, "y": y})
}

func (MenuTracer) Hide(id, label string) {
	logging.Trace("menu.hide", map[string]interface{}{"menu": id, "label": label})
}

func (MenuTracer) Layout(id string, columns, perColumn, itemWidth int) {
	logging.Trace("menu.layout", map[string]interface{}{
		"menu":       id,
		"columns":    columns,
		"per_column": perColumn,
		"item_width": itemWidth,
	})
}

func (MenuTracer) OpenSubmenu(id string, index int, child string, x, y int) {
	logging.Trace("menu.submenu.open", map[string]interface{}{
		"menu":  id,
		"index": index,
		"child": child,
		"x":     x,
		"y":     y,
	})
}

func (MenuTracer) Tear(id string) {
	logging.Trace("menu.tear", map[string]interface{}{"menu": id})
}

func (MenuTracer) Active(id string, index int) {
	logging.Trace("menu.active", map[string]interface{}{"menu": id, "index": index})
}

func (MenuTracer) Select(id string, button, index int, label string) {
	logging.Trace("menu.select", map[string]interface{}{
		"menu":   id,
		"button": button,
		"index":  index,
		"label":  label,
	})
}

func (MenuTracer) Shift(id string, dx, dy int) {
	logging.Trace("menu.shift", map[string]interface{}{"menu": id, "dx": dx, "dy": dy})
}

func (MenuTracer) Destroy(id string) {
	logging.Trace("menu.destroy", map[string]interface{}{"menu": id})
}

func (SearchTracer) Append(id, pattern string, matches int) {
	logging.Trace("search.append", map[string]interface{}{"menu": id, "pattern": pattern, "matches": matches})
}

func (SearchTracer) Backspace(id, pattern string) {
	logging.Trace("search.backspace", map[string]interface{}{"menu": id, "pattern": pattern})
}

func (SearchTracer) Cleared(id string) {
	logging.Trace("search.clear", map[string]interface{}{"menu": id})
}

func (SearchTracer) Mode(mode string) {
	logging.Trace("search.mode", map[string]interface{}{"mode": mode})
}

func (TimerTracer) Arm(id, kind string, delayMS int64) {
	logging.Trace("timer.arm", map[string]interface{}{"menu": id, "kind": kind, "delay_ms": delayMS})
}

func (TimerTracer) Fire(id, kind string) {
	logging.Trace("timer.fire", map[string]interface{}{"menu": id, "kind": kind})
}
