package tagpicker

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/ui/components"
)

const dropdownPageSize = 6

// Phase is the dropdown state the picker is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTyping
	PhaseSearching
	PhaseResultsShown
	PhaseLimitError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTyping:
		return "typing"
	case PhaseSearching:
		return "searching"
	case PhaseResultsShown:
		return "results"
	case PhaseLimitError:
		return "limit-error"
	}
	return "unknown"
}

// ExistingChangedMsg is emitted when no OnExistingChange callback is set.
type ExistingChangedMsg struct {
	ID   int
	Tags []api.Tag
}

// NewChangedMsg is emitted when no OnNewChange callback is set.
type NewChangedMsg struct {
	ID    int
	Names []string
}

// ErrorMsg is emitted when no OnError callback is set.
type ErrorMsg struct {
	ID  int
	Err error
}

type limitRevertMsg struct{ id int }

// Options configures a picker. Zero values fall back to package defaults.
type Options struct {
	Searcher    Searcher
	MaxTags     int
	Debounce    time.Duration
	SearchLimit int
	Logger      *zap.Logger
	Tick        TickFunc
	Placeholder string
	Width       int

	// Current form value.
	Existing []api.Tag
	New      []string

	// Each receives the whole collection after a change.
	OnExistingChange func([]api.Tag) tea.Cmd
	OnNewChange      func([]string) tea.Cmd
	OnError          func(error) tea.Cmd
}

// Model is a debounced search-as-you-type multi-select for tags.
type Model struct {
	id       int
	sel      Selection
	query    Query
	input    textinput.Model
	spinner  spinner.Model
	list     components.List
	entries  []Entry
	logger   *zap.Logger
	width    int
	focused  bool
	disposed bool

	pillFocus  bool
	pillCursor int
	limitErr   error

	onExisting func([]api.Tag) tea.Cmd
	onNew      func([]string) tea.Cmd
	onError    func(error) tea.Cmd
}

// New builds a picker seeded with the current form value.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	switch {
	case opts.Debounce == 0:
		opts.Debounce = DefaultDebounce
	case opts.Debounce < 0:
		opts.Debounce = 0
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "search or add a tag"
	}

	ti := textinput.New()
	ti.Prompt = components.IconSearch.Glyph() + " "
	ti.Placeholder = opts.Placeholder
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = spinnerStyle

	m := Model{
		id:  nextID(),
		sel: NewSelection(opts.MaxTags, opts.Existing, opts.New),
		query: NewQuery(opts.Searcher, QueryOptions{
			Debounce: opts.Debounce,
			Limit:    opts.SearchLimit,
			Logger:   opts.Logger,
			Tick:     opts.Tick,
		}),
		input:      ti,
		spinner:    sp,
		list:       components.NewList(dropdownPageSize),
		logger:     opts.Logger,
		width:      opts.Width,
		onExisting: opts.OnExistingChange,
		onNew:      opts.OnNewChange,
		onError:    opts.OnError,
	}

	id := m.id
	if m.onExisting == nil {
		m.onExisting = func(tags []api.Tag) tea.Cmd {
			return func() tea.Msg { return ExistingChangedMsg{ID: id, Tags: tags} }
		}
	}
	if m.onNew == nil {
		m.onNew = func(names []string) tea.Cmd {
			return func() tea.Msg { return NewChangedMsg{ID: id, Names: names} }
		}
	}
	if m.onError == nil {
		m.onError = func(err error) tea.Cmd {
			return func() tea.Msg { return ErrorMsg{ID: id, Err: err} }
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// ID identifies this picker in emitted messages.
func (m Model) ID() int { return m.id }

// Selection returns the current selection.
func (m Model) Selection() Selection { return m.sel }

// Query returns the current query state.
func (m Model) Query() Query { return m.query }

// Value returns the text in the input.
func (m Model) Value() string { return m.input.Value() }

// Entries returns the dropdown rows.
func (m Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Cursor returns the highlighted dropdown row, or -1.
func (m Model) Cursor() int { return m.list.Selected() }

// Err returns the rejection being shown, if any.
func (m Model) Err() error { return m.limitErr }

// Focused reports whether keys reach the picker.
func (m Model) Focused() bool { return m.focused }

// PillFocused reports whether the cursor is on a pill, and which one.
func (m Model) PillFocused() (bool, int) { return m.pillFocus, m.pillCursor }

// Phase derives the dropdown state.
func (m Model) Phase() Phase {
	switch {
	case m.limitErr != nil:
		return PhaseLimitError
	case m.query.Blank():
		return PhaseIdle
	case m.query.Loading():
		return PhaseSearching
	case m.query.Pending() || m.query.Debounced() == "":
		return PhaseTyping
	default:
		return PhaseResultsShown
	}
}

// Focus routes keys to the picker.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur stops key handling and leaves pill focus.
func (m *Model) Blur() {
	m.focused = false
	m.pillFocus = false
	m.input.Blur()
}

// SetWidth sets the render width.
func (m *Model) SetWidth(width int) {
	m.width = width
	if width > 8 {
		m.input.Width = width - 4
	}
}

// Reset clears the selection and the query without emitting changes.
func (m *Model) Reset() {
	m.sel.Reset()
	m.input.SetValue("")
	m.query.Reset()
	m.pillFocus = false
	m.pillCursor = 0
	m.limitErr = nil
	m.refreshEntries(true)
}

// Dispose stops all pending work. Messages that arrive afterwards are ignored.
func (m *Model) Dispose() {
	m.query.Dispose()
	m.disposed = true
	m.Blur()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case limitRevertMsg:
		if msg.id == m.id {
			m.limitErr = nil
		}
		return m, nil

	case SettledMsg, ResultsMsg:
		handled, cmd := m.query.Update(msg)
		if !handled {
			return m, nil
		}
		m.refreshEntries(true)
		if cmd != nil && m.query.Loading() {
			cmd = tea.Batch(cmd, m.spinner.Tick)
		}
		return m, cmd

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() || !m.query.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused || m.disposed {
			return m, nil
		}
		if m.pillFocus {
			return m.handlePillKey(msg)
		}
		return m.handleInputKey(msg)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	empty := m.input.Value() == ""
	switch {
	case isKey(msg, "up", "ctrl+p"):
		m.list.Up()
		return m, nil
	case isKey(msg, "down", "ctrl+n"):
		m.list.Down()
		return m, nil
	case isKey(msg, "enter"):
		i := m.list.Selected()
		if i < 0 || i >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[i]
		var cmd tea.Cmd
		m, cmd = m.Toggle(entry.Candidate)
		if entry.FreeText && m.limitErr == nil {
			m.clearInput()
		}
		return m, cmd
	case empty && m.sel.Len() > 0 && isKey(msg, "left", "backspace"):
		m.pillFocus = true
		m.pillCursor = m.sel.Len() - 1
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return m, cmd
	}
	queryCmd := m.query.SetInput(m.input.Value())
	m.refreshEntries(true)
	return m, tea.Batch(cmd, queryCmd)
}

func (m Model) handlePillKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := m.sel.Len()
	if n == 0 {
		m.pillFocus = false
		return m.handleInputKey(msg)
	}
	switch {
	case isKey(msg, "left"):
		if m.pillCursor > 0 {
			m.pillCursor--
		}
	case isKey(msg, "right"):
		if m.pillCursor < n-1 {
			m.pillCursor++
		} else {
			m.pillFocus = false
		}
	case isKey(msg, "backspace", "delete"):
		return m.RemoveAt(m.pillCursor)
	case isKey(msg, "esc", "down", "enter"):
		m.pillFocus = false
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		m.pillFocus = false
		return m.handleInputKey(msg)
	}
	return m, nil
}

// Toggle adds or removes c and reports the change through the matching
// callback. A rejected add enters PhaseLimitError until the next loop turn.
func (m Model) Toggle(c Candidate) (Model, tea.Cmd) {
	change, err := m.sel.Toggle(c)
	if err != nil {
		m.logger.Debug("tag toggle rejected",
			zap.String("name", c.Name()),
			zap.Int("selected", m.sel.Len()),
			zap.Error(err))
		m.limitErr = err
		id := m.id
		revert := func() tea.Msg { return limitRevertMsg{id: id} }
		return m, tea.Batch(m.onError(err), revert)
	}
	if change == ChangeNone {
		m.logger.Debug("invalid tag candidate ignored", zap.String("name", c.Name()))
		return m, nil
	}
	m.limitErr = nil
	m.refreshEntries(false)
	return m, m.emit(change)
}

// Remove drops name from the selection.
func (m Model) Remove(name string) (Model, tea.Cmd) {
	change := m.sel.Remove(name)
	if change == ChangeNone {
		return m, nil
	}
	m.afterPillRemoval()
	return m, m.emit(change)
}

// RemoveAt drops the i-th pill.
func (m Model) RemoveAt(i int) (Model, tea.Cmd) {
	change := m.sel.RemoveAt(i)
	if change == ChangeNone {
		return m, nil
	}
	m.afterPillRemoval()
	return m, m.emit(change)
}

func (m *Model) afterPillRemoval() {
	n := m.sel.Len()
	if m.pillCursor >= n {
		m.pillCursor = n - 1
	}
	if n == 0 {
		m.pillFocus = false
		m.pillCursor = 0
	}
	m.refreshEntries(false)
}

func (m Model) emit(change Change) tea.Cmd {
	switch change {
	case ChangeExisting:
		return m.onExisting(m.sel.Existing())
	case ChangeNew:
		return m.onNew(m.sel.New())
	}
	return nil
}

func (m *Model) clearInput() {
	m.input.SetValue("")
	m.query.SetInput("")
	m.refreshEntries(true)
}

func (m *Model) refreshEntries(resetCursor bool) {
	if m.query.Blank() {
		m.entries = nil
	} else {
		m.entries = buildEntries(m.query.Results(), m.input.Value(), m.sel)
	}
	if resetCursor {
		m.list.Reset(len(m.entries))
		return
	}
	m.list.Resize(len(m.entries))
}

func isKey(msg tea.KeyMsg, keys ...string) bool {
	s := msg.String()
	for _, k := range keys {
		if s == k {
			return true
		}
	}
	return false
}
