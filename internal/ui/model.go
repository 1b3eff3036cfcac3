package ui

import (
	"fmt"
	"reflect"
	"time"

	"github.com/atomicstack/nestmenu/internal/backend"
	"github.com/atomicstack/nestmenu/internal/canvas"
	"github.com/atomicstack/nestmenu/internal/data/dispatcher"
	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/menu"
	"github.com/atomicstack/nestmenu/internal/menufile"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/theme"
	"github.com/atomicstack/nestmenu/internal/timer"
	"github.com/atomicstack/nestmenu/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	SocketPath string
	// Width and Height pin the screen size; zero follows the terminal.
	Width, Height int
	Verbose       bool
	Menu          *menufile.File
	Theme         theme.Menu
	SearchMode    search.Mode
	// Reload re-reads the configuration for the reconfigure builtin and for
	// config file edits.
	Reload  func() (theme.Menu, search.Mode, error)
	Watcher *backend.Watcher
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model implements the Bubble Tea model hosting the menus.
type Model struct {
	opts Options
	now  func() time.Time

	provider   *theme.Provider
	cache      *imagecache.Cache
	timers     *timer.Queue
	coord      *menu.Coordinator
	tree       *menufile.Tree
	dispatcher *dispatcher.Dispatcher
	bus        *command.Bus
	screen     *canvas.Buffer
	keys       keyMap

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	// held is the pointer button currently down, 0 when none.
	held int

	pending  int
	queued   []tea.Cmd
	quitting bool

	tick        func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	tickSeq     int
	tickAt      time.Time
	tickPending bool

	jump *jumpPrompt

	errMsg     string
	infoMsg    string
	backendErr string

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the menu tree described by opts.Menu and opens its root
// menu at the top left corner.
func NewModel(opts Options) (*Model, error) {
	if opts.Menu == nil {
		opts.Menu = menufile.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := &Model{
		opts:   opts,
		now:    now,
		bus:    command.New(),
		keys:   defaultKeyMap(),
		width:  defaultWidth,
		height: defaultHeight,
		tick:   tea.Tick,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}

	m.provider = theme.NewProvider(opts.Theme)
	m.cache = imagecache.New(0)
	m.timers = timer.NewQueue(now)
	m.screen = canvas.New(m.width, m.menuHeight())
	m.coord = menu.NewCoordinator(m.provider, m.cache, m.timers, m.screenRect())
	m.coord.SetSearchMode(opts.SearchMode)

	tree, err := menufile.Build(m.coord, opts.Menu, menufile.Actions{
		Exec:    m.execShell,
		Tmux:    m.execTmux,
		Builtin: m.builtin,
		Toggle:  m.toggle,
	})
	if err != nil {
		return nil, fmt.Errorf("build menus: %w", err)
	}
	m.tree = tree
	m.dispatcher = dispatcher.New(tree.Windows, m.switchWindow)
	m.coord.Open(tree.Root, 0, 0)
	m.registerHandlers()
	return m, nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.opts.Watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.opts.Watcher))
	}
	if cmd := m.scheduleTimers(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(timerMsg{}):          m.handleTimerMsg,
		reflect.TypeOf(command.Result{}):    m.handleActionResultMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate gathers the commands menu actions queued during the update,
// re-arms the hover tick and quits once nothing is left on screen.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.queued...)
	m.queued = nil
	if cmd := m.scheduleTimers(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.shouldQuit() {
		m.quitting = true
		events.App.Exit("menus closed")
		cmds = append(cmds, tea.Quit)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) shouldQuit() bool {
	if m.quitting || m.jump != nil || m.pending > 0 {
		return false
	}
	return len(m.coord.Visible()) == 0
}

func (m *Model) quit(reason string) tea.Cmd {
	if m.quitting {
		return nil
	}
	m.quitting = true
	events.App.Exit(reason)
	return tea.Quit
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

func (m *Model) menuHeight() int {
	return max(m.height-1, 0)
}

func (m *Model) screenRect() canvas.Rect {
	return canvas.Rect{Width: m.width, Height: m.menuHeight()}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.screen.Resize(m.width, m.menuHeight())
	m.coord.SetScreen(m.screenRect())
	events.UI.Resize(m.width, m.height)
	return nil
}

// Close destroys the menu tree and releases every cached pixmap.
func (m *Model) Close() {
	if m.tree != nil {
		m.tree.Destroy()
		m.tree = nil
	}
}

// Coordinator exposes the menu coordinator, mainly for tests.
func (m *Model) Coordinator() *menu.Coordinator { return m.coord }

// Tree exposes the built menu tree.
func (m *Model) Tree() *menufile.Tree { return m.tree }
