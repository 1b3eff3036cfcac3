package events

import "github.com/atomicstack/nestmenu/internal/logging"

type AppTracer struct{}

type ConfigTracer struct{}

var (
	App    = AppTracer{}
	Config = ConfigTracer{}
)

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(reason string) {
	logging.Trace("app.exit", map[string]interface{}{"reason": reason})
}

func (ConfigTracer) Loaded(path string, searchMode string) {
	logging.Trace("config.loaded", map[string]interface{}{"path": path, "search_mode": searchMode})
}

func (ConfigTracer) Reload(path string) {
	logging.Trace("config.reload", map[string]interface{}{"path": path})
}

func (ConfigTracer) WatchError(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("config.watch.error", map[string]interface{}{"path": path, "error": err.Error()})
}
