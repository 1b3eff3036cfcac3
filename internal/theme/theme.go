package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles for the host chrome around the
// menus: the status line and the jump prompt.
type Styles struct {
	Status       *lipgloss.Style
	StatusKey    *lipgloss.Style
	Error        *lipgloss.Style
	Info         *lipgloss.Style
	Prompt       *lipgloss.Style
	PromptInput  *lipgloss.Style
	PromptMatch  *lipgloss.Style
	PromptActive *lipgloss.Style
}

var defaultStyles = Styles{
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	StatusKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	PromptInput: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	),
	PromptMatch: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	PromptActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
