package components

import "github.com/charmbracelet/lipgloss"

var (
	pillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(0, 1)

	pillFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#16161d")).
				Background(lipgloss.Color("#7f57b4")).
				Bold(true).
				Border(lipgloss.NormalBorder(), false, true).
				BorderForeground(lipgloss.Color("#7f57b4")).
				Padding(0, 1)
)

// Pill renders one selected tag as a chip. Name is sanitized and clamped to
// width runes when width > 0.
func Pill(kind IconKind, name string, focused bool, width int) string {
	text := SanitizeOneLine(name)
	if width > 0 {
		text = ClampTextWidth(text, width)
	}
	if focused {
		return pillFocusedStyle.Render(kind.Glyph() + " " + text + " " + IconRemove.Glyph())
	}
	return pillStyle.Render(kind.Label(text))
}

// Pills lays chips out left to right separated by a space.
func Pills(pills []string) string {
	if len(pills) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pills)*2)
	for i, p := range pills {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, p)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
