// Package tui is the terminal front end of the trainer. It renders the
// controller's state and turns key presses into controller operations.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#2196F3")
	colorDanger  = lipgloss.Color("#e53935")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorMuted   = lipgloss.Color("#8a94a6")
)

// Styles holds the lipgloss styles used by every screen
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Link     lipgloss.Style
	Selected lipgloss.Style
	Card     lipgloss.Style
	Help     lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
}

// DefaultStyles returns the standard palette
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Subtitle: lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Success:  lipgloss.NewStyle().Foreground(colorSuccess),
		Error:    lipgloss.NewStyle().Foreground(colorDanger),
		Warning:  lipgloss.NewStyle().Foreground(colorWarning),
		Link:     lipgloss.NewStyle().Underline(true).Foreground(colorAccent),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
		Help:  lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Tab:   lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		TabOn: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorAccent),
	}
}
