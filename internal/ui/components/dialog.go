package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(1, 2).
			Width(40)
	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)
	dialogTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
)

const confirmHint = "y: confirm | n: cancel"

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := dialogTitleStyle.Render(SanitizeOneLine(title))
	body := dialogTextStyle.Render(SanitizeText(message))
	hint := dialogTextStyle.Render("\n" + confirmHint)
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// ConfirmPreviewDialog renders a confirmation with a message, summary rows and
// optional diffs.
func ConfirmPreviewDialog(title, message string, summary []TableRow, diffs []DiffRow, width int) string {
	sections := make([]string, 0, 4)
	if msg := strings.TrimSpace(SanitizeText(message)); msg != "" {
		sections = append(sections, dialogTextStyle.Render(msg))
	}
	if len(summary) > 0 {
		sections = append(sections, Table("Summary", summary, width))
	}
	if len(diffs) > 0 {
		sections = append(sections, DiffTable("Changes", diffs, width))
	}
	sections = append(sections, dialogTextStyle.Render(confirmHint))

	return TitledBox(title, strings.Join(sections, "\n\n"), width)
}
