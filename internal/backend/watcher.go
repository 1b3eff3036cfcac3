package backend

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/tmux"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindWindows Kind = iota
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindWindows:
		return "windows"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Event conveys updated data or an error from a backend poll. Data holds a
// tmux.WindowSnapshot for KindWindows and the changed path for KindConfig.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

var fetchWindows = tmux.FetchWindows

// configSettle is how long the config file must stay quiet before a change is
// reported.
var configSettle = 150 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	SocketPath string
	Interval   time.Duration
	// ConfigPath, when set, is watched for edits.
	ConfigPath string
}

// Watcher polls tmux at a fixed interval, watches the config file, and
// publishes events.
type Watcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a backend watcher and starts its goroutines.
func NewWatcher(opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = 1500 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	w.startWindowPoller()
	if opts.ConfigPath != "" {
		w.startConfigWatcher()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events. It is closed once every
// goroutine has exited after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all goroutines have exited and the events channel is
// closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startWindowPoller() {
	gate := newFetchGate(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(KindWindows, func(ctx context.Context) (interface{}, error) {
		if err := gate.wait(ctx); err != nil {
			return nil, err
		}
		return fetchWindows(w.opts.SocketPath)
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		return w.send(Event{Kind: kind, Data: data, Err: err})
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}

func (w *Watcher) send(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) startConfigWatcher() {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		events.Config.WatchError(w.opts.ConfigPath, err)
		return
	}
	// Watch the directory; saving by rename replaces the file.
	if err := fsw.Add(filepath.Dir(w.opts.ConfigPath)); err != nil {
		events.Config.WatchError(w.opts.ConfigPath, err)
		_ = fsw.Close()
		return
	}
	w.wg.Add(1)
	go w.watchConfig(fsw)
}

func (w *Watcher) watchConfig(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	name := filepath.Base(w.opts.ConfigPath)
	var settle *time.Timer
	var settled <-chan time.Time
	for {
		select {
		case <-w.ctx.Done():
			if settle != nil {
				settle.Stop()
			}
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(configSettle)
			} else {
				settle.Reset(configSettle)
			}
			settled = settle.C
		case <-settled:
			settled = nil
			events.Config.Reload(w.opts.ConfigPath)
			if !w.send(Event{Kind: KindConfig, Data: w.opts.ConfigPath}) {
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			events.Config.WatchError(w.opts.ConfigPath, err)
			if !w.send(Event{Kind: KindConfig, Err: err}) {
				return
			}
		}
	}
}
