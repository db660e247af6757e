package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	bannerArt = `
 ██████  ██    ██  ██████  ██████  ██    ██ ███    ███
██    ██ ██    ██ ██    ██ ██   ██ ██    ██ ████  ████
██    ██ ██    ██ ██    ██ ██████  ██    ██ ██ ████ ██
██ ▄▄ ██ ██    ██ ██    ██ ██   ██ ██    ██ ██  ██  ██
 ██████   ██████   ██████  ██   ██  ██████  ██      ██
    ▀▀`
	bannerSubtitle = "Ask the Community • Command-Line Interface"
)

// RenderBanner returns the wordmark, a centered subtitle and a rule under it.
func RenderBanner() string {
	art := strings.Trim(bannerArt, "\n")
	width := max(lipgloss.Width(art), lipgloss.Width(bannerSubtitle))
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range strings.Split(art, "\n") {
		b.WriteString(fg(ColorPrimary).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(ColorMuted).Render(bannerSubtitle))
	b.WriteString("\n")
	b.WriteString(center.Foreground(ColorBorder).Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle))))
	b.WriteString("\n")
	return b.String()
}
