package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

const (
	borderColor = lipgloss.Color("#273540")
	// Border adds 2 columns and padding adds 4.
	boxChrome   = 6
	minBoxWidth = 40
	maxBoxWidth = 80
)

var (
	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f57b4")).
			Bold(true)

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#436b77")).
			Bold(true)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))

	diffLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9c4ff")).
			Bold(true)
	diffRemoveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4d6d"))
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffbf3f"))

	errorBorder = boxBorder.BorderForeground(lipgloss.Color("#7a2f3a"))

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b5b5"))
)

// boxWidth is 70% of the terminal, kept within [minBoxWidth, maxBoxWidth]
// but never wider than the terminal itself.
func boxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := min(max(width*70/100, minBoxWidth), maxBoxWidth)
	return min(w, width)
}

// Box renders content inside a bordered box.
func Box(content string, width int) string {
	return boxBorder.Width(boxWidth(width)).Render(content)
}

// BoxContentWidth is the room left for content inside a Box.
func BoxContentWidth(width int) int {
	return max(boxWidth(width)-boxChrome, 0)
}

// ClampTextWidth folds text to one sanitized line no wider than width,
// ending in an ellipsis when cut.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	if width == 1 {
		return truncateRunes(cleaned, 1)
	}
	return truncateRunes(cleaned, width-1) + "…"
}

// ErrorBox renders a red bordered box. An empty title renders the message only.
func ErrorBox(title, message string, width int) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(errorHeaderStyle.Render(IconError.Glyph() + " " + title))
		b.WriteString("\n\n")
	}
	b.WriteString(errorBodyStyle.Render(message))
	return errorBorder.Width(boxWidth(width)).Render(b.String())
}

// TitledBox renders a Box whose top border carries "[ title ]" centered.
func TitledBox(title, content string, width int) string {
	boxed := Box(content, width)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}

	inner := lineWidth - 2
	label := truncateRunes(" [ "+SanitizeOneLine(title)+" ] ", inner)
	left := (inner - lipgloss.Width(label)) / 2
	right := inner - lipgloss.Width(label) - left

	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(borderColor)
	lines[0] = edge.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// TableRow is a single row in a key-value table.
type TableRow struct {
	Label string
	Value string
}

// Table renders aligned label/value rows inside a box. Labels take at most
// half the content width and never more than 24 columns.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(SanitizeOneLine(r.Label)))
	}
	contentWidth := BoxContentWidth(width)
	if contentWidth <= 0 {
		contentWidth = labelWidth + 8
	}
	labelWidth = max(min(labelWidth, 24, contentWidth/2), 4)
	valueWidth := max(contentWidth-labelWidth-2, 4)

	lines := make([]string, len(rows))
	for i, r := range rows {
		label := boxLabelStyle.Render(padRight(ClampTextWidth(r.Label, labelWidth), labelWidth))
		lines[i] = label + "  " + boxValueStyle.Render(ClampTextWidth(r.Value, valueWidth))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// Indent adds left padding to every line of a multi-line string.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}

// DiffRow is one edited field with its old and new values.
type DiffRow struct {
	Label string
	From  string
	To    string
}

// DiffTable renders each row as a label followed by "- old" and "+ new".
func DiffTable(title string, rows []DiffRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	blocks := make([]string, len(rows))
	for i, r := range rows {
		blocks[i] = diffLabelStyle.Render(SanitizeOneLine(r.Label)) + "\n" +
			diffSide(diffRemoveStyle, "  - ", r.From) + "\n" +
			diffSide(diffAddStyle, "  + ", r.To)
	}
	return TitledBox(title, strings.Join(blocks, "\n\n"), width)
}

// diffSide prefixes the first line and aligns continuation lines under it.
func diffSide(style lipgloss.Style, prefix, value string) string {
	value = SanitizeText(value)
	if value == "" {
		value = "-"
	}
	lines := strings.Split(value, "\n")
	cont := strings.Repeat(" ", len(prefix))
	for i, line := range lines {
		if i == 0 {
			lines[i] = style.Render(prefix + line)
		} else {
			lines[i] = style.Render(cont + line)
		}
	}
	return strings.Join(lines, "\n")
}
