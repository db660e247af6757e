package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a Grid. Width excludes separators.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// Grid is a header rule plus data rows, drawn with the rounded border glyphs
// of Box so it sits flush inside one.
type Grid struct {
	Columns []TableColumn
	Rows    [][]string
	// Active highlights one row by index. -1 disables it.
	Active int
	// Marked rows render their first cell in the accent colour.
	Marked map[int]bool
}

const gridLeftOffset = 2

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))

	gridActiveRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530")).
				Bold(true)

	gridActiveSepStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#273540")).
				Background(lipgloss.Color("#1f2530"))

	gridMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d1606b")).
			Bold(true)
)

// Render draws the grid at exactly width columns. Pass BoxContentWidth of the
// terminal width when the grid goes inside a box.
func (g Grid) Render(width int) string {
	if width <= 0 {
		return ""
	}
	if len(g.Columns) == 0 {
		return padRight("", width)
	}

	border := lipgloss.RoundedBorder()
	cols := fitColumns(g.Columns, lipgloss.Width(border.Left), width)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = boxLabelStyle.Bold(true).Inline(true).Render(alignCell(SanitizeOneLine(c.Header), c.Width, c.Align))
	}
	lines := []string{
		joinCells(header, gridLineStyle.Inline(true).Render(border.Left), width),
		ruleLine(cols, border.Middle, border.Top, width),
	}

	for i, row := range g.Rows {
		active := i == g.Active
		cellStyle := lipgloss.NewStyle()
		sepStyle := gridLineStyle
		if active {
			cellStyle = gridActiveRowStyle
			sepStyle = gridActiveSepStyle
		}
		cells := make([]string, len(cols))
		for j, c := range cols {
			text := ""
			if j < len(row) {
				text = row[j]
			}
			style := cellStyle
			if j == 0 && g.Marked[i] {
				style = gridMarkStyle
				if active {
					style = gridMarkStyle.Background(lipgloss.Color("#1f2530"))
				}
			}
			cells[j] = style.Inline(true).Render(alignCell(text, c.Width, c.Align))
		}
		lines = append(lines, joinCells(cells, sepStyle.Inline(true).Render(border.Left), width))
	}
	return strings.Join(lines, "\n")
}

// fitColumns stretches or shrinks the last column so the row fills width.
func fitColumns(columns []TableColumn, sepWidth, width int) []TableColumn {
	fitted := append([]TableColumn(nil), columns...)
	if sepWidth < 1 {
		sepWidth = 1
	}
	available := width - gridLeftOffset
	if available < len(fitted) {
		available = len(fitted)
	}
	used := (len(fitted) - 1) * sepWidth
	for i := range fitted {
		if fitted[i].Width < 1 {
			fitted[i].Width = 1
		}
		used += fitted[i].Width
	}
	last := &fitted[len(fitted)-1]
	last.Width += available - used
	if last.Width < 1 {
		last.Width = 1
	}
	return fitted
}

func joinCells(cells []string, sep string, width int) string {
	line := strings.Repeat(" ", gridLeftOffset) + strings.Join(cells, sep)
	if lipgloss.Width(line) < width {
		line = padRight(line, width)
	}
	return line
}

func ruleLine(columns []TableColumn, cross, horiz string, width int) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = strings.Repeat(horiz, c.Width)
	}
	line := strings.Repeat(" ", gridLeftOffset) + strings.Join(parts, cross)
	if lipgloss.Width(line) < width {
		line = padRight(line, width)
	}
	return gridLineStyle.Inline(true).Render(line)
}

func alignCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	text = ClampTextWidth(text, width)
	if lipgloss.Width(text) >= width {
		return truncateRunes(text, width)
	}
	pad := width - lipgloss.Width(text)
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + text
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
	default:
		return text + strings.Repeat(" ", pad)
	}
}
