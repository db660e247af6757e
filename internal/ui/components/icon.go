package components

import "github.com/charmbracelet/lipgloss"

// IconKind names a glyph used across the UI.
type IconKind int

const (
	IconNone IconKind = iota
	IconTag
	IconNewTag
	IconRemove
	IconSearch
	IconSuccess
	IconWarning
	IconError
	IconInfo
)

type iconEntry struct {
	name  string
	glyph string
	color lipgloss.Color
}

var icons = [...]iconEntry{
	IconNone:    {name: "none"},
	IconTag:     {name: "tag", glyph: "#", color: lipgloss.Color("#436b77")},
	IconNewTag:  {name: "new-tag", glyph: "+", color: lipgloss.Color("#3f866b")},
	IconRemove:  {name: "remove", glyph: "×", color: lipgloss.Color("#a7754e")},
	IconSearch:  {name: "search", glyph: "⌕", color: lipgloss.Color("#7f57b4")},
	IconSuccess: {name: "success", glyph: "✓", color: lipgloss.Color("#3f866b")},
	IconWarning: {name: "warning", glyph: "!", color: lipgloss.Color("#c78854")},
	IconError:   {name: "error", glyph: "✗", color: lipgloss.Color("#6d424b")},
	IconInfo:    {name: "info", glyph: "i", color: lipgloss.Color("#9ba0bf")},
}

func (k IconKind) entry() iconEntry {
	if k < 0 || int(k) >= len(icons) {
		return icons[IconNone]
	}
	return icons[k]
}

// String returns the icon name.
func (k IconKind) String() string { return k.entry().name }

// Glyph returns the bare glyph, or "" for IconNone and unknown kinds.
func (k IconKind) Glyph() string { return k.entry().glyph }

// Color returns the foreground colour for the icon.
func (k IconKind) Color() lipgloss.Color { return k.entry().color }

// Render returns the coloured glyph.
func (k IconKind) Render() string {
	s := k.entry()
	if s.glyph == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(s.color).Bold(true).Render(s.glyph)
}

// Label renders the icon followed by text.
func (k IconKind) Label(text string) string {
	icon := k.Render()
	if icon == "" {
		return text
	}
	return icon + " " + text
}
