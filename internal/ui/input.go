package ui

import (
	"time"

	"github.com/atomicstack/nestmenu/internal/menu"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit     key.Binding
	Jump     key.Binding
	Reload   key.Binding
	Accept   key.Binding
	Cancel   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Backward key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Jump:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "jump")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Accept:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
		Next:     key.NewBinding(key.WithKeys("down", "tab", "ctrl+n"), key.WithHelp("↓", "next")),
		Prev:     key.NewBinding(key.WithKeys("up", "shift+tab", "ctrl+p"), key.WithHelp("↑", "prev")),
		Backward: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("⌫", "back")),
	}
}

// menuHelp is the bindings listed in the idle status line.
func (k keyMap) menuHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Reload, k.Quit}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		return m.quit("interrupted")
	}
	if m.jump != nil {
		m.handleJumpKey(keyMsg)
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Jump):
		m.openJump()
		return nil
	case key.Matches(keyMsg, m.keys.Reload):
		m.reconfigure()
		return nil
	}
	ev, ok := translateKey(keyMsg)
	if !ok {
		return nil
	}
	ev.Time = m.now()
	m.clearStatus()
	m.coord.Key(ev)
	return nil
}

// translateKey maps a terminal key onto the keys menus understand.
func translateKey(msg tea.KeyMsg) (menu.KeyEvent, bool) {
	var ev menu.KeyEvent
	if msg.Alt {
		ev.Mods |= menu.ModAlt
	}
	switch msg.Type {
	case tea.KeyUp:
		ev.Key = menu.KeyUp
	case tea.KeyDown:
		ev.Key = menu.KeyDown
	case tea.KeyLeft:
		ev.Key = menu.KeyLeft
	case tea.KeyRight:
		ev.Key = menu.KeyRight
	case tea.KeyShiftUp:
		ev.Key, ev.Mods = menu.KeyUp, ev.Mods|menu.ModShift
	case tea.KeyShiftDown:
		ev.Key, ev.Mods = menu.KeyDown, ev.Mods|menu.ModShift
	case tea.KeyEnter:
		ev.Key = menu.KeyEnter
	case tea.KeyEsc:
		ev.Key = menu.KeyEscape
	case tea.KeyBackspace, tea.KeyCtrlH:
		ev.Key = menu.KeyBackspace
	case tea.KeyTab:
		ev.Key = menu.KeyTab
	case tea.KeyShiftTab:
		ev.Key, ev.Mods = menu.KeyTab, ev.Mods|menu.ModShift
	case tea.KeySpace:
		ev.Key, ev.Rune = menu.KeyRune, ' '
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return ev, false
		}
		ev.Key, ev.Rune = menu.KeyRune, msg.Runes[0]
	default:
		return ev, false
	}
	return ev, true
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	mods := mouseMods(ev)
	at := m.now()
	switch ev.Action {
	case tea.MouseActionPress:
		if tea.MouseEvent(ev).IsWheel() {
			m.wheel(ev.Button, mods, at)
			return nil
		}
		button := mouseButton(ev.Button)
		if button == 0 {
			return nil
		}
		m.held = button
		m.clearStatus()
		m.coord.PointerPress(ev.X, ev.Y, button, mods, at)
	case tea.MouseActionRelease:
		button := mouseButton(ev.Button)
		if button == 0 {
			button = m.held
		}
		m.held = 0
		if button == 0 {
			return nil
		}
		m.coord.PointerRelease(ev.X, ev.Y, button, mods, at)
	case tea.MouseActionMotion:
		if m.held == 1 {
			mods |= menu.ModButton1
		}
		m.coord.PointerMotion(ev.X, ev.Y, mods, at)
	}
	return nil
}

// wheel scrolls the highlight of the focused menu.
func (m *Model) wheel(button tea.MouseButton, mods menu.Modifier, at time.Time) {
	k := menu.KeyDown
	if button == tea.MouseButtonWheelUp || button == tea.MouseButtonWheelLeft {
		k = menu.KeyUp
	}
	m.coord.Key(menu.KeyEvent{Key: k, Mods: mods, Time: at})
}

func mouseButton(b tea.MouseButton) int {
	switch b {
	case tea.MouseButtonLeft:
		return 1
	case tea.MouseButtonMiddle:
		return 2
	case tea.MouseButtonRight:
		return 3
	default:
		return 0
	}
}

func mouseMods(ev tea.MouseMsg) menu.Modifier {
	var mods menu.Modifier
	if ev.Shift {
		mods |= menu.ModShift
	}
	if ev.Ctrl {
		mods |= menu.ModControl
	}
	if ev.Alt {
		mods |= menu.ModAlt
	}
	return mods
}
