package widget

import "github.com/charmbracelet/lipgloss"

// Styles controls how a field is drawn.
type Styles struct {
	Label         lipgloss.Style
	FocusedLabel  lipgloss.Style
	DisabledLabel lipgloss.Style
	Hint          lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		FocusedLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		DisabledLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Hint:          lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
	}
}
