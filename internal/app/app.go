package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/nestmenu/internal/backend"
	"github.com/atomicstack/nestmenu/internal/logging"
	"github.com/atomicstack/nestmenu/internal/menufile"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/theme"
	"github.com/atomicstack/nestmenu/internal/tmux"
	"github.com/atomicstack/nestmenu/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const pollInterval = 1500 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	SocketPath string
	Width      int
	Height     int
	Verbose    bool
	MenuFile   string
	ConfigFile string
	Theme      theme.Menu
	SearchMode search.Mode
	// Reload re-reads ConfigFile.
	Reload func() (theme.Menu, search.Mode, error) `json:"-"`
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	defer func() {
		if err := tmux.Shutdown(); err != nil {
			logging.Error(err)
		}
	}()

	menu, err := loadMenu(cfg.MenuFile)
	if err != nil {
		return err
	}

	watcher := backend.NewWatcher(backend.Options{
		SocketPath: socketPath,
		Interval:   pollInterval,
		ConfigPath: cfg.ConfigFile,
	})
	defer watcher.Stop()

	model, err := ui.NewModel(ui.Options{
		SocketPath: socketPath,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Verbose:    cfg.Verbose,
		Menu:       menu,
		Theme:      cfg.Theme,
		SearchMode: cfg.SearchMode,
		Reload:     cfg.Reload,
		Watcher:    watcher,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func loadMenu(path string) (*menufile.File, error) {
	if path == "" {
		return menufile.Default(), nil
	}
	return menufile.Load(path)
}
