package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timerMsg struct {
	seq int
}

// scheduleTimers arms one tick for the earliest hover deadline. A tick that
// is already pending for an earlier or equal deadline is kept.
func (m *Model) scheduleTimers() tea.Cmd {
	deadline, ok := m.coord.NextDeadline()
	if !ok || m.quitting {
		return nil
	}
	if m.tickPending && !deadline.Before(m.tickAt) {
		return nil
	}
	m.tickSeq++
	m.tickPending = true
	m.tickAt = deadline
	seq := m.tickSeq
	return m.tick(max(deadline.Sub(m.now()), 0), func(time.Time) tea.Msg {
		return timerMsg{seq: seq}
	})
}

func (m *Model) handleTimerMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(timerMsg)
	if !ok || tick.seq != m.tickSeq {
		return nil
	}
	m.tickPending = false
	m.coord.FireTimers(m.now())
	return nil
}
