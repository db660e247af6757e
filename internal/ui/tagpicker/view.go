package tagpicker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/gravitrone/quorum/cli/internal/ui/components"
)

const pillNameWidth = 24

var (
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f57b4"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ba0bf"))
	rowStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#d7d9da"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f57b4")).Bold(true)
	matchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a7754e")).Bold(true)
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c78854"))
	counterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#436b77"))
	counterMaxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c78854")).Bold(true)
)

// View implements tea.Model.
func (m Model) View() string {
	lines := []string{m.renderPills(), m.input.View()}
	if dropdown := m.renderDropdown(); dropdown != "" {
		lines = append(lines, dropdown)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPills() string {
	counter := fmt.Sprintf("%d/%d", m.sel.Len(), m.sel.Max())
	if m.sel.Full() {
		counter = counterMaxStyle.Render(counter)
	} else {
		counter = counterStyle.Render(counter)
	}
	if m.sel.Len() == 0 {
		return mutedStyle.Render("no tags selected") + "  " + counter
	}

	pills := make([]string, 0, m.sel.Len())
	i := 0
	for _, tag := range m.sel.existing {
		pills = append(pills, components.Pill(components.IconTag, tag.Name, m.pillFocus && i == m.pillCursor, pillNameWidth))
		i++
	}
	for _, name := range m.sel.newTags {
		pills = append(pills, components.Pill(components.IconNewTag, name, m.pillFocus && i == m.pillCursor, pillNameWidth))
		i++
	}
	return components.Pills(pills) + "  " + counter
}

func (m Model) renderDropdown() string {
	if !m.focused {
		return ""
	}
	if m.pillFocus {
		return mutedStyle.Render("←/→ move  backspace remove  esc back")
	}

	var header string
	switch m.Phase() {
	case PhaseIdle:
		if m.sel.Len() > 0 {
			return mutedStyle.Render("Type to search tags. ← edits selected tags.")
		}
		return mutedStyle.Render("Type to search tags.")
	case PhaseLimitError:
		header = warningStyle.Render(components.IconWarning.Label(m.limitErr.Error()))
	case PhaseSearching:
		header = m.spinner.View() + " " + mutedStyle.Render("Searching...")
	case PhaseResultsShown:
		if len(m.query.Results()) == 0 {
			header = mutedStyle.Render("No matching tags.")
		}
	}

	rows := m.renderRows()
	switch {
	case header == "":
		return rows
	case rows == "":
		return header
	default:
		return header + "\n" + rows
	}
}

func (m Model) renderRows() string {
	start, end := m.list.Window()
	if start == end {
		return ""
	}
	query := NormalizeTag(m.input.Value())
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.entries[i]
		label := components.SanitizeOneLine(e.Label())
		if !e.FreeText {
			label = highlight(label, query)
		} else {
			label = rowStyle.Render(label)
		}
		prefix := "  "
		if m.list.IsSelected(i) {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+e.Icon().Render()+" "+label)
	}
	return strings.Join(lines, "\n")
}

// highlight styles the characters of name that fuzzily match query.
func highlight(name, query string) string {
	if query == "" {
		return rowStyle.Render(name)
	}
	matches := fuzzy.Find(query, []string{name})
	if len(matches) == 0 {
		return rowStyle.Render(name)
	}
	hit := make(map[int]struct{}, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		hit[idx] = struct{}{}
	}
	var b strings.Builder
	for i, r := range name {
		if _, ok := hit[i]; ok {
			b.WriteString(matchStyle.Render(string(r)))
			continue
		}
		b.WriteString(rowStyle.Render(string(r)))
	}
	return b.String()
}
