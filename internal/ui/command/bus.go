package command

import (
	"github.com/atomicstack/nestmenu/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"
)

// Request encapsulates an action invocation.
type Request struct {
	ID    string
	Label string
	Run   func() (string, error)
}

// Result is delivered back to the model once a request has run.
type Result struct {
	ID     string
	Label  string
	Output string
	Err    error
}

// Bus coordinates the execution of menu actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps an action into a Bubble Tea command while emitting trace
// logs. The returned command always yields a Result so callers can track
// what is still in flight.
func (b *Bus) Execute(req Request) tea.Cmd {
	if req.ID == "" {
		req.ID = ulid.Make().String()
	}
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		res := Result{ID: req.ID, Label: req.Label}
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return res
		}
		res.Output, res.Err = req.Run()
		if res.Err != nil {
			events.Action.Error(res.Err)
			events.Command.Result(req.ID, req.Label, "error")
			return res
		}
		events.Action.Success(req.Label)
		events.Command.Result(req.ID, req.Label, "ok")
		return res
	}
}
