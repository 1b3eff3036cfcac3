package events

import "github.com/atomicstack/nestmenu/internal/logging"

type CacheTracer struct{}

var Cache = CacheTracer{}

func (CacheTracer) Render(handle uint32, width, height int, texture string, refs int) {
	logging.Trace("cache.render", map[string]interface{}{
		"handle":  handle,
		"width":   width,
		"height":  height,
		"texture": texture,
		"refs":    refs,
	})
}

func (CacheTracer) Release(handle uint32, refs int) {
	logging.Trace("cache.release", map[string]interface{}{"handle": handle, "refs": refs})
}

// AllocFailed is the diagnostic channel for pixmaps that could not be
// created; callers fall back to a flat colour.
func (CacheTracer) AllocFailed(width, height int, texture string, err error) {
	payload := map[string]interface{}{"width": width, "height": height, "texture": texture}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("cache.alloc-failed", payload)
}
