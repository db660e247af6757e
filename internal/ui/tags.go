package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/ui/components"
	"github.com/gravitrone/quorum/cli/internal/ui/tagpicker"
)

const (
	tagsPageSize    = 12
	popularTagLimit = 50
)

type tagsLoadedMsg struct{ tags []api.Tag }

// TagsModel is the Tags tab: the popular tag catalogue, narrowed by a
// debounced server search while the filter has text.
type TagsModel struct {
	client   *api.Client
	input    textinput.Model
	query    tagpicker.Query
	popular  []api.Tag
	list     components.List
	loaded   bool
	selected map[string]struct{}
	width    int
	height   int
}

// NewTagsModel builds the browser. opts supplies the debounce, search limit
// and logger shared with the composer picker.
func NewTagsModel(client *api.Client, opts tagpicker.Options) TagsModel {
	var searcher tagpicker.Searcher
	if client != nil {
		searcher = client
	}
	debounce := opts.Debounce
	switch {
	case debounce == 0:
		debounce = tagpicker.DefaultDebounce
	case debounce < 0:
		debounce = 0
	}

	ti := textinput.New()
	ti.Prompt = components.IconSearch.Glyph() + " "
	ti.Placeholder = "filter tags"
	ti.CharLimit = 64
	ti.Focus()

	return TagsModel{
		client: client,
		input:  ti,
		query: tagpicker.NewQuery(searcher, tagpicker.QueryOptions{
			Debounce: debounce,
			Limit:    opts.SearchLimit,
			Logger:   opts.Logger,
			Tick:     opts.Tick,
		}),
		list:     components.NewList(tagsPageSize),
		selected: map[string]struct{}{},
	}
}

func (m TagsModel) Init() tea.Cmd {
	if m.loaded || m.client == nil {
		return nil
	}
	return m.loadPopular()
}

func (m TagsModel) loadPopular() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tags, err := client.ListTags(popularTagLimit, 0)
		if err != nil {
			return setError{err: fmt.Errorf("load tags: %w", err)}
		}
		return tagsLoadedMsg{tags: tags}
	}
}

// Dispose stops the pending search.
func (m *TagsModel) Dispose() {
	m.query.Dispose()
}

// markSelected records which tags the composer already holds.
func (m *TagsModel) markSelected(tags []api.Tag) {
	m.selected = make(map[string]struct{}, len(tags))
	for _, t := range tags {
		m.selected[t.ID] = struct{}{}
	}
}

// visible returns the rows on display: search results while filtering,
// otherwise the popular list.
func (m TagsModel) visible() []api.Tag {
	if m.query.Blank() {
		return m.popular
	}
	return m.query.Results()
}

func (m TagsModel) Update(msg tea.Msg) (TagsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tagsLoadedMsg:
		m.loaded = true
		m.popular = msg.tags
		if m.query.Blank() {
			m.list.Reset(len(m.popular))
		}
		return m, nil

	case tagpicker.SettledMsg, tagpicker.ResultsMsg:
		handled, cmd := m.query.Update(msg)
		if handled {
			m.list.Reset(len(m.visible()))
		}
		return m, cmd

	case tea.KeyMsg:
		switch {
		case isUp(msg):
			m.list.Up()
			return m, nil
		case isDown(msg):
			m.list.Down()
			return m, nil
		case isEnter(msg):
			rows := m.visible()
			if i := m.list.Selected(); i >= 0 && i < len(rows) {
				tag := rows[i]
				return m, func() tea.Msg { return useTagMsg{tag: tag} }
			}
			return m, nil
		case key.Matches(msg, keys.Clear):
			m.input.SetValue("")
			m.query.SetInput("")
			m.list.Reset(len(m.popular))
			return m, nil
		}

		prev := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == prev {
			return m, cmd
		}
		queryCmd := m.query.SetInput(m.input.Value())
		m.list.Reset(len(m.visible()))
		return m, tea.Batch(cmd, queryCmd)
	}
	return m, nil
}

// atTop reports whether up should hand focus back to the tab bar.
func (m TagsModel) atTop() bool {
	return m.list.Selected() <= 0
}

func (m TagsModel) View() string {
	width := components.BoxContentWidth(m.width)
	if width <= 0 {
		width = 60
	}

	var body string
	switch {
	case !m.query.Blank() && (m.query.Pending() || m.query.Loading()):
		body = MutedStyle.Render("Searching...")
	case m.client == nil:
		body = MutedStyle.Render("Not connected. Run quorum login.")
	case !m.loaded && m.query.Blank():
		body = MutedStyle.Render("Loading tags...")
	case len(m.visible()) == 0 && m.query.Blank():
		body = MutedStyle.Render("No tags yet.")
	case len(m.visible()) == 0:
		body = MutedStyle.Render("No matching tags.")
	default:
		body = m.renderTable(width)
	}

	title := "Popular tags"
	if !m.query.Blank() {
		title = "Tag search"
	}
	content := m.input.View() + "\n\n" + body
	return components.TitledBox(title, content, m.width)
}

func (m TagsModel) renderTable(width int) string {
	rows := m.visible()
	start, end := m.list.Window()
	countWidth := 10
	markWidth := 5
	nameWidth := width - countWidth - markWidth - 4
	if nameWidth < 8 {
		nameWidth = 8
	}
	cols := []components.TableColumn{
		{Header: "", Width: markWidth, Align: lipgloss.Center},
		{Header: "Tag", Width: nameWidth},
		{Header: "Questions", Width: countWidth, Align: lipgloss.Right},
	}
	cells := make([][]string, 0, end-start)
	marked := make(map[int]bool)
	for i := start; i < end; i++ {
		tag := rows[i]
		mark := "[ ]"
		if _, ok := m.selected[tag.ID]; ok {
			mark = "[x]"
			marked[i-start] = true
		}
		count := ""
		if tag.QuestionCount > 0 {
			count = fmt.Sprintf("%d", tag.QuestionCount)
		}
		cells = append(cells, []string{mark, components.SanitizeOneLine(tag.Name), count})
	}
	grid := components.Grid{Columns: cols, Rows: cells, Active: m.list.Selected() - start, Marked: marked}
	table := grid.Render(width)
	if len(rows) > end-start {
		table += "\n" + MutedStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(rows)))
	}
	return strings.TrimRight(table, "\n")
}
