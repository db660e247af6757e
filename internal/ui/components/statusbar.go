package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))

	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)

	hintSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
)

const hintSep = "  │  "

// StatusBar lays hints out left to right, wrapping onto more centered rows
// when width is too narrow. Width <= 0 renders a single row.
func StatusBar(hints []string, width int) string {
	if len(hints) == 0 {
		return ""
	}
	rows := wrapSegments(hints, width)
	if width <= 0 {
		return "  " + rows[0]
	}
	for i, row := range rows {
		rows[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
	}
	return strings.Join(rows, "\n")
}

// Hint formats one key hint as a description followed by a key cap.
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapStyle.Render(key)
}

// wrapSegments greedily packs segments into rows no wider than width.
func wrapSegments(segments []string, width int) []string {
	sep := hintSepStyle.Render(hintSep)
	sepWidth := lipgloss.Width(sep)

	var rows []string
	var row []string
	rowWidth := 0
	for _, seg := range segments {
		w := lipgloss.Width(seg)
		if width > 0 && len(row) > 0 && rowWidth+sepWidth+w > width {
			rows = append(rows, strings.Join(row, sep))
			row, rowWidth = nil, 0
		}
		if len(row) > 0 {
			rowWidth += sepWidth
		}
		row = append(row, seg)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, sep))
	}
	return rows
}
