package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numkit/internal/ui"
)

// styles is the dashboard's lipgloss style set, derived from the active
// ui theme when a model is built.
type styles struct {
	panel    lipgloss.Style
	title    lipgloss.Style
	dim      lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	done     lipgloss.Style
	failed   lipgloss.Style
	bar      lipgloss.Style
	spark    lipgloss.Style
}

func newStyles() styles {
	p := ui.CurrentPalette()
	bold := ui.ColorsEnabled()
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		title:    lipgloss.NewStyle().Foreground(p.Accent).Bold(bold),
		dim:      lipgloss.NewStyle().Foreground(p.Dim),
		label:    lipgloss.NewStyle().Foreground(p.Dim),
		value:    lipgloss.NewStyle().Foreground(p.Text),
		selected: lipgloss.NewStyle().Foreground(p.Accent).Bold(bold),
		running:  lipgloss.NewStyle().Foreground(p.Accent),
		paused:   lipgloss.NewStyle().Foreground(p.Warning),
		done:     lipgloss.NewStyle().Foreground(p.Success),
		failed:   lipgloss.NewStyle().Foreground(p.Error),
		bar:      lipgloss.NewStyle().Foreground(p.Accent),
		spark:    lipgloss.NewStyle().Foreground(p.Success),
	}
}
