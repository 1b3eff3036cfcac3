// Package tmux talks to the tmux server the popup runs under: it lists
// windows for the dynamic window menu, switches to them, and runs the tmux
// command lines bound to menu entries.
package tmux

import (
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

type Window struct {
	ID         string
	Session    string
	Index      int
	Name       string
	Active     bool
	Label      string
	Current    bool
	InternalID string
	Activity   time.Time
}

type WindowSnapshot struct {
	Windows        []Window
	CurrentID      string
	CurrentLabel   string
	CurrentSession string
}

type tmuxClient interface {
	ListAllWindows() ([]*gotmux.Window, error)
	ListClients() ([]*gotmux.Client, error)
	ListWindowsFormat(target, filter, format string) ([]string, error)
	DisplayMessage(target, format string) (string, error)
	SelectWindow(target string) error
	Command(parts ...string) (string, error)
	Close() error
}
