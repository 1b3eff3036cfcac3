package events

import "github.com/atomicstack/nestmenu/internal/logging"

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Refresh(count int) {
	logging.Trace("window.refresh", map[string]interface{}{"count": count})
}

func (WindowTracer) Switch(target string) {
	logging.Trace("window.switch", map[string]interface{}{"target": target})
}

func (WindowTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("window.error", map[string]interface{}{"error": err.Error()})
}
