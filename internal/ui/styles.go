package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// StyleManager encapsulates all TUI styles
type StyleManager struct {
	// List view styles
	Name     lipgloss.Style
	Detail   lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Preview styles
	PreviewLabel lipgloss.Style
	PreviewBody  lipgloss.Style

	// Chrome styles
	Divider lipgloss.Style
	Error   lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Name:         lipgloss.NewStyle().Bold(true),
		Detail:       lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Selected:     lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		PreviewBody:  lipgloss.NewStyle(),
		Divider:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		SelectedBg:   lipgloss.Color("236"),
	}
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles rebuilds the global styles, picking up the renderer chosen
// for the current terminal
func RefreshStyles() {
	styles = DefaultStyles()
}
