package ui

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/atomicstack/nestmenu/internal/logging"
	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/menufile"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/tmux"
	"github.com/atomicstack/nestmenu/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	runShell = func(line string) (string, error) {
		out, err := exec.Command("/bin/sh", "-c", line).CombinedOutput() //nolint:gosec
		if err != nil {
			if msg := firstLine(string(out)); msg != "" {
				return "", fmt.Errorf("%w: %s", err, msg)
			}
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	}
	runTmux      = tmux.Run
	switchWindow = tmux.SwitchToWindow
)

// run queues fn on the command bus and counts it as in flight until its
// result comes back.
func (m *Model) run(label string, fn func() (string, error)) {
	m.pending++
	m.queue(m.bus.Execute(command.Request{Label: label, Run: fn}))
}

func (m *Model) execShell(line string) {
	m.run(line, func() (string, error) { return runShell(line) })
}

func (m *Model) execTmux(line string) {
	socket := m.opts.SocketPath
	m.run("tmux "+line, func() (string, error) { return runTmux(socket, line) })
}

func (m *Model) toggle(option string, on bool) {
	value := "off"
	if on {
		value = "on"
	}
	m.execTmux(fmt.Sprintf("set-option -w %s %s", option, value))
}

func (m *Model) switchWindow(target string) {
	socket := m.opts.SocketPath
	events.Window.Switch(target)
	m.run("window "+target, func() (string, error) {
		return "", switchWindow(socket, target)
	})
}

func (m *Model) builtin(name, arg string) {
	switch name {
	case menufile.BuiltinExit:
		m.queue(m.quit("exit"))
	case menufile.BuiltinReconfigure:
		m.reconfigure()
	case menufile.BuiltinSearchMode:
		mode, ok := search.ParseMode(arg)
		if !ok {
			m.setError(fmt.Errorf("unknown search mode %q", arg))
			return
		}
		m.coord.SetSearchMode(mode)
		m.setInfo("search mode: " + mode.String())
	}
}

// reconfigure re-reads the configuration and pushes the new theme to every
// menu.
func (m *Model) reconfigure() {
	if m.opts.Reload == nil {
		m.setInfo("nothing to reload")
		return
	}
	menuTheme, mode, err := m.opts.Reload()
	if err != nil {
		m.setError(fmt.Errorf("reload: %w", err))
		return
	}
	m.provider.Apply(menuTheme)
	m.coord.SetSearchMode(mode)
	m.setInfo("configuration reloaded")
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if m.pending > 0 {
		m.pending--
	}
	if result.Err != nil {
		m.setError(fmt.Errorf("%s: %w", result.Label, result.Err))
		// Bring the root back so the failure can be read.
		if len(m.coord.Visible()) == 0 && m.tree != nil && !m.quitting {
			m.coord.Open(m.tree.Root, 0, 0)
		}
		return nil
	}
	if out := firstLine(result.Output); out != "" && m.opts.Verbose {
		m.setInfo(out)
	}
	return nil
}

func (m *Model) setError(err error) {
	logging.Error(err)
	m.errMsg = err.Error()
	m.infoMsg = ""
}

func (m *Model) setInfo(msg string) {
	m.infoMsg = msg
	m.errMsg = ""
}

func (m *Model) clearStatus() {
	m.infoMsg = ""
	m.errMsg = ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
