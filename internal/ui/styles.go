package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared with the components and tagpicker packages.
var (
	ColorPrimary = lipgloss.Color("#7f57b4")
	ColorAccent  = lipgloss.Color("#436b77")
	ColorInk     = lipgloss.Color("#16161d")
	ColorText    = lipgloss.Color("#d7d9da")
	ColorMuted   = lipgloss.Color("#9ba0bf")
	ColorWarning = lipgloss.Color("#c78854")
	ColorBorder  = lipgloss.Color("#273540")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	TabActiveStyle   = fg(ColorInk).Background(ColorPrimary).Bold(true).Padding(0, 1)
	TabInactiveStyle = fg(ColorMuted).Padding(0, 1)

	// SelectedStyle marks the focused composer field label.
	SelectedStyle = fg(ColorPrimary).Bold(true)
	NormalStyle   = fg(ColorText)
	MutedStyle    = fg(ColorMuted)
	WarningStyle  = fg(ColorWarning)
	CounterStyle  = fg(ColorAccent)
)
