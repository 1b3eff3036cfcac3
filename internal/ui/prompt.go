package ui

import (
	"strings"

	"github.com/atomicstack/nestmenu/internal/logging/events"
	"github.com/atomicstack/nestmenu/internal/menu"
	"github.com/atomicstack/nestmenu/internal/typeahead"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const jumpSeparator = " > "

// jumpEntry is one reachable item, addressed by the item indexes leading to
// it from the root menu.
type jumpEntry struct {
	path    string
	indices []int
	item    *menu.Item
}

func (e jumpEntry) CompareChar(r rune, pos int) bool {
	return typeahead.CompareRuneAt(e.path, r, pos)
}

func (e jumpEntry) IsEnabled() bool { return e.item.IsEnabled() }

type jumpPrompt struct {
	filter *typeahead.Filter[jumpEntry]
	cursor int
}

func (p *jumpPrompt) matches() []jumpEntry {
	return p.filter.Matched()
}

func (p *jumpPrompt) selected() (jumpEntry, bool) {
	matches := p.matches()
	if len(matches) == 0 {
		return jumpEntry{}, false
	}
	return matches[min(p.cursor, len(matches)-1)], true
}

// collectJumpEntries flattens every enabled, selectable item reachable from
// root. A menu is not entered twice on the same path.
func collectJumpEntries(root *menu.Menu) []jumpEntry {
	var out []jumpEntry
	onPath := map[*menu.Menu]bool{}
	var walk func(m *menu.Menu, prefix string, indices []int)
	walk = func(m *menu.Menu, prefix string, indices []int) {
		onPath[m] = true
		defer delete(onPath, m)
		for i, it := range m.Items() {
			if it.Kind == menu.KindSeparator {
				continue
			}
			path := it.Label
			if prefix != "" {
				path = prefix + jumpSeparator + it.Label
			}
			idx := append(append([]int(nil), indices...), i)
			out = append(out, jumpEntry{path: path, indices: idx, item: it})
			if sub := it.Submenu; sub != nil && !onPath[sub] && it.IsEnabled() {
				walk(sub, path, idx)
			}
		}
	}
	walk(root, "", nil)
	return out
}

func (m *Model) openJump() {
	if m.tree == nil {
		return
	}
	entries := collectJumpEntries(m.tree.Root)
	m.jump = &jumpPrompt{filter: typeahead.New(entries)}
	m.clearStatus()
	events.UI.JumpOpen(len(entries))
}

func (m *Model) closeJump() {
	m.jump = nil
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) {
	p := m.jump
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeJump()
	case key.Matches(msg, m.keys.Accept):
		entry, ok := p.selected()
		m.closeJump()
		if ok {
			m.openChain(entry)
		}
	case key.Matches(msg, m.keys.Next):
		if n := len(p.matches()); n > 0 {
			p.cursor = (p.cursor + 1) % n
		}
	case key.Matches(msg, m.keys.Prev):
		if n := len(p.matches()); n > 0 {
			p.cursor = (p.cursor - 1 + n) % n
		}
	case key.Matches(msg, m.keys.Backward):
		p.filter.PutBackspace()
		p.cursor = 0
		events.UI.JumpFilter(p.filter.Typed(), len(p.matches()))
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		for _, r := range runes {
			p.filter.PutCharacter(r)
		}
		p.cursor = 0
		events.UI.JumpFilter(p.filter.Typed(), len(p.matches()))
	}
}

// openChain shows the root menu if needed, opens every submenu along the
// entry's path and leaves the entry highlighted in a focused menu.
func (m *Model) openChain(entry jumpEntry) {
	root := m.tree.Root
	if !root.IsVisible() {
		m.coord.HideShown()
		m.coord.Open(root, 0, 0)
	}
	cur := root
	for depth, idx := range entry.indices {
		cur.SetActiveIndex(idx)
		if depth == len(entry.indices)-1 {
			break
		}
		cur.DrawSubmenu(idx)
		sub := cur.Item(idx).Submenu
		if sub == nil || !sub.IsVisible() {
			break
		}
		cur = sub
	}
	cur.GrabFocus()
	events.UI.JumpSelect(entry.path)
}

// jumpLine renders the prompt and the highlighted match.
func (m *Model) jumpLine() string {
	p := m.jump
	var sb strings.Builder
	sb.WriteString(styles.Prompt.Render("jump» "))
	sb.WriteString(styles.PromptInput.Render(p.filter.Typed()))
	matches := p.matches()
	if len(matches) == 0 {
		sb.WriteString(styles.PromptMatch.Render("  (no entries)"))
		return sb.String()
	}
	cursor := min(p.cursor, len(matches)-1)
	sb.WriteString("  ")
	sb.WriteString(styles.PromptActive.Render(matches[cursor].path))
	for _, e := range matches[cursor+1:] {
		sb.WriteString(styles.PromptMatch.Render("  " + e.path))
	}
	return sb.String()
}
