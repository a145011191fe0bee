package output

import "github.com/charmbracelet/lipgloss"

// theme holds the lipgloss styles used by the pretty formatter.
type theme struct {
	header      lipgloss.Style
	footer      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	size        lipgloss.Style
	success     lipgloss.Style
	warning     lipgloss.Style
	muted       lipgloss.Style
	tableHeader lipgloss.Style
}

// ANSI 256-color palette.
var (
	colorAccent  = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("42")
	colorWarning = lipgloss.Color("214")
	colorMuted   = lipgloss.Color("245")
	colorText    = lipgloss.Color("255")
)

func newTheme() theme {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return theme{
		header:      box.BorderForeground(colorAccent).MarginBottom(1),
		footer:      box.BorderForeground(colorMuted).MarginTop(1),
		label:       fg(colorMuted),
		value:       fg(colorText),
		size:        fg(colorAccent).Bold(true),
		success:     fg(colorSuccess),
		warning:     fg(colorWarning),
		muted:       fg(colorMuted),
		tableHeader: fg(colorMuted).Bold(true),
	}
}

var styles = newTheme()
