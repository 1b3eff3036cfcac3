package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.coord.Compose(m.screen)
	lines := m.screen.Lines()
	if m.height > 0 {
		lines = append(lines, m.statusLine())
	}
	return strings.Join(lines, "\n")
}

// statusLine is the bottom row: the jump prompt when open, otherwise the
// latest message or the key hints.
func (m *Model) statusLine() string {
	if m.jump != nil {
		return m.fit(m.jumpLine())
	}
	switch {
	case m.errMsg != "":
		return m.fit(styles.Error.Render(m.errMsg))
	case m.infoMsg != "":
		return m.fit(styles.Info.Render(m.infoMsg))
	case m.backendErr != "" && m.opts.Verbose:
		return m.fit(styles.Error.Render(m.backendErr))
	}
	return m.fit(m.hints())
}

func (m *Model) hints() string {
	parts := make([]string, 0, 4)
	for _, b := range m.keys.menuHelp() {
		h := b.Help()
		parts = append(parts, styles.StatusKey.Render(h.Key)+" "+styles.Status.Render(h.Desc))
	}
	if m.pending > 0 {
		parts = append(parts, styles.Info.Render("running…"))
	}
	return strings.Join(parts, styles.Status.Render(" · "))
}

// fit truncates an already styled line to the screen width.
func (m *Model) fit(s string) string {
	if m.width <= 0 || lipgloss.Width(s) <= m.width {
		return s
	}
	return truncate.StringWithTail(s, uint(m.width), "…")
}
