package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette holds lipgloss colors for block-level rendering (headers, tables).
type Palette struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

var (
	// DarkPalette pairs with DarkTheme.
	DarkPalette = Palette{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#3A7BD5"),
		Accent:  lipgloss.Color("#00AFFF"),
		Success: lipgloss.Color("#5FFF5F"),
		Warning: lipgloss.Color("#FFD75F"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#8A8A8A"),
	}

	// LightPalette pairs with LightTheme.
	LightPalette = Palette{
		Text:    lipgloss.Color("#1C1C1C"),
		Border:  lipgloss.Color("#005FAF"),
		Accent:  lipgloss.Color("#005FD7"),
		Success: lipgloss.Color("#008700"),
		Warning: lipgloss.Color("#AF5F00"),
		Error:   lipgloss.Color("#AF0000"),
		Dim:     lipgloss.Color("#585858"),
	}

	// NoColorPalette renders with the terminal's default colors.
	NoColorPalette = Palette{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}
)

// CurrentPalette returns the palette matching the active theme.
func CurrentPalette() Palette {
	switch GetCurrentTheme().Name {
	case NoColorTheme.Name:
		return NoColorPalette
	case LightTheme.Name:
		return LightPalette
	default:
		return DarkPalette
	}
}

// Title renders a section heading.
func Title(s string) string {
	p := CurrentPalette()
	st := lipgloss.NewStyle().Foreground(p.Accent)
	if ColorsEnabled() {
		st = st.Bold(true)
	}
	return st.Render(s)
}

// Dim renders secondary text.
func Dim(s string) string {
	return lipgloss.NewStyle().Foreground(CurrentPalette().Dim).Render(s)
}

// Table renders rows under headers with a rounded border. Cells in the
// column named by highlight are drawn in the accent color; pass -1 for none.
func Table(headers []string, rows [][]string, highlight int) string {
	p := CurrentPalette()
	headerStyle := lipgloss.NewStyle().Foreground(p.Accent).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1)
	accentStyle := cellStyle.Foreground(p.Success)
	if ColorsEnabled() {
		headerStyle = headerStyle.Bold(true)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == highlight:
				return accentStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}
