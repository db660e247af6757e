package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/config"
	"github.com/gravitrone/quorum/cli/internal/ui/components"
	"github.com/gravitrone/quorum/cli/internal/ui/tagpicker"
)

// --- Tab Constants ---

const (
	tabAsk   = 0
	tabTags  = 1
	tabCount = 2
)

var tabNames = []string{"Ask", "Tags"}

const (
	toastDuration  = 2500 * time.Millisecond
	startupTimeout = 700 * time.Millisecond
)

// --- Messages ---

type startupCheckedMsg struct{ err error }

// Options configures the App beyond the client and config.
type Options struct {
	// Picker carries the tag limits, debounce and search size.
	Picker tagpicker.Options
	// EditID opens the composer on an existing question.
	EditID string
	Logger *zap.Logger
	// SkipStartupCheck disables the health check on Init.
	SkipStartupCheck bool
}

// PickerOptions maps config values onto picker options.
func PickerOptions(cfg *config.Config) tagpicker.Options {
	return tagpicker.Options{
		MaxTags:     cfg.MaxTagsOrDefault(),
		Debounce:    cfg.Debounce(),
		SearchLimit: cfg.SearchLimitOrDefault(),
	}
}

// --- App Model ---

// App is the root TUI model that routes between tabs and owns the store.
type App struct {
	client *api.Client
	config *config.Config
	logger *zap.Logger
	state  AppState

	tab         int
	tabNav      bool
	width       int
	height      int
	helpOpen    bool
	quitConfirm bool

	startupChecking bool

	composer ComposerModel
	tags     TagsModel
}

// NewApp creates the root application model.
func NewApp(client *api.Client, cfg *config.Config, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Picker.Logger = opts.Logger.Named("tagpicker")

	var composer ComposerModel
	if strings.TrimSpace(opts.EditID) != "" {
		composer = NewEditComposerModel(client, opts.Picker, opts.EditID)
	} else {
		composer = NewComposerModel(client, opts.Picker)
	}

	state := AppState{}
	if cfg != nil {
		state, _ = reduce(state, setSession{user: cfg.Username})
	}

	return App{
		client:          client,
		config:          cfg,
		logger:          opts.Logger,
		state:           state,
		tab:             tabAsk,
		startupChecking: client != nil && !opts.SkipStartupCheck,
		composer:        composer,
		tags:            NewTagsModel(client, opts.Picker),
	}
}

// State returns the store snapshot.
func (a App) State() AppState { return a.state }

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.composer.Init()}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.composer.setSize(msg.Width, msg.Height)
		a.tags.width = msg.Width
		a.tags.height = msg.Height
		return a, nil

	case action:
		return a.apply(msg)

	case startupCheckedMsg:
		a.startupChecking = false
		if msg.err != nil {
			a.logger.Warn("startup health check failed", zap.Error(msg.err))
			return a.apply(setToast{kind: components.IconWarning, text: "API unreachable: " + msg.err.Error()})
		}
		text := "Connected to " + a.client.BaseURL()
		if a.state.User != "" {
			text += " as " + a.state.User
		}
		return a.apply(setToast{kind: components.IconSuccess, text: text})

	case existingTagsChangedMsg:
		a.tags.markSelected(msg.tags)

	case questionLoadedMsg:
		var cmd tea.Cmd
		a.composer, cmd = a.composer.Update(msg)
		a.tags.markSelected(a.composer.existing)
		return a, cmd

	case useTagMsg:
		a.tab = tabAsk
		a.tabNav = false
		var cmd tea.Cmd
		a.composer, cmd = a.composer.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Async results are routed to both tabs; each ignores what it does not own.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.composer, cmd = a.composer.Update(msg)
	cmds = append(cmds, cmd)
	a.tags, cmd = a.tags.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// apply runs an action through the store and schedules its follow-up work.
func (a App) apply(act action) (tea.Model, tea.Cmd) {
	if e, ok := act.(setError); ok && e.err != nil {
		a.logger.Warn("ui error", zap.Error(e.err))
	}
	var cmd tea.Cmd
	a.state, cmd = reduce(a.state, act)
	if _, ok := act.(setToast); ok && a.state.Toast != nil {
		seq := a.state.Toast.seq
		return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return clearToast{seq: seq}
		})
	}
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return a.quit()
	}
	if a.quitConfirm {
		switch {
		case key.Matches(msg, keys.Confirm):
			a.dispose()
			return a, tea.Quit
		case key.Matches(msg, keys.Cancel):
			a.quitConfirm = false
		}
		return a, nil
	}
	if a.state.Pending != nil {
		switch {
		case key.Matches(msg, keys.Confirm):
			return a.apply(confirmAction{})
		case key.Matches(msg, keys.Cancel):
			return a.apply(cancelAction{})
		}
		return a, nil
	}
	if a.helpOpen {
		if isBack(msg) || key.Matches(msg, keys.Help) {
			a.helpOpen = false
		}
		return a, nil
	}
	if a.state.Err != "" {
		a.state, _ = reduce(a.state, clearError{})
	}

	if a.tabNav {
		switch {
		case key.Matches(msg, keys.Help):
			a.helpOpen = true
			return a, nil
		case isQuit(msg):
			return a.quit()
		case key.Matches(msg, keys.Left):
			return a.switchTab((a.tab - 1 + tabCount) % tabCount)
		case key.Matches(msg, keys.Right):
			return a.switchTab((a.tab + 1) % tabCount)
		case isDown(msg), isEnter(msg):
			a.tabNav = false
			return a, nil
		}
		if idx, ok := tabIndexForKey(msg.String()); ok {
			return a.switchTab(idx)
		}
		// Any other key exits tab nav so the active tab can handle it.
		a.tabNav = false
	} else {
		if isUp(msg) && a.canExitToTabNav() {
			a.tabNav = true
			return a, nil
		}
		if isBack(msg) && !a.pillFocused() {
			a.tabNav = true
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.tab {
	case tabAsk:
		a.composer, cmd = a.composer.Update(msg)
	case tabTags:
		a.tags, cmd = a.tags.Update(msg)
	}
	return a, cmd
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.composer.hasUnsaved() && !a.quitConfirm {
		a.quitConfirm = true
		return a, nil
	}
	a.dispose()
	return a, tea.Quit
}

func (a *App) dispose() {
	a.composer.Dispose()
	a.tags.Dispose()
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch a.tab {
	case tabAsk:
		content = a.composer.View()
	case tabTags:
		content = a.tags.View()
	}

	switch {
	case a.quitConfirm:
		content = a.renderQuitConfirm()
	case a.state.Pending != nil:
		content = a.renderPending()
	case a.helpOpen:
		content = a.renderHelp()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.state.Err != "" {
		title := "Error"
		if a.state.ErrCode != "" {
			title = a.state.ErrCode
		}
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox(title, a.state.Err, a.width), a.width)
	} else if a.state.Toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n\n%s%s", banner, tabs, content, hints, feedback)
}

func (a *App) switchTab(newTab int) (App, tea.Cmd) {
	oldTab := a.tab
	a.tab = newTab
	if oldTab != newTab {
		return *a, a.initTab(newTab)
	}
	return *a, nil
}

func (a App) initTab(tab int) tea.Cmd {
	if tab == tabTags {
		return a.tags.Init()
	}
	return nil
}

func (a App) canExitToTabNav() bool {
	switch a.tab {
	case tabAsk:
		return !a.pillFocused() && a.composer.focus == fieldTitle
	case tabTags:
		return a.tags.atTop()
	}
	return false
}

func (a App) pillFocused() bool {
	if a.tab != tabAsk {
		return false
	}
	pill, _ := a.composer.tags.PillFocused()
	return pill
}

func (a App) renderTabs() string {
	segments := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []string {
	if a.quitConfirm || a.state.Pending != nil {
		return []string{
			bindingHint(keys.Confirm),
			bindingHint(keys.Cancel),
		}
	}
	if a.helpOpen {
		return []string{bindingHint(keys.Back)}
	}
	if a.tabNav {
		return []string{
			components.Hint("←/→", "Tabs"),
			components.Hint("↓", "Enter"),
			bindingHint(keys.Help),
			bindingHint(keys.Quit),
		}
	}
	return a.statusHintsForTab()
}

func (a App) statusHintsForTab() []string {
	switch a.tab {
	case tabAsk:
		hints := []string{
			bindingHint(keys.NextField),
			bindingHint(keys.Submit),
		}
		if a.composer.focus == fieldTags {
			if a.pillFocused() {
				return append(hints,
					components.Hint("←/→", "Move"),
					components.Hint("backspace", "Remove"),
					components.Hint("esc", "Back"),
				)
			}
			hints = append(hints,
				components.Hint("↑/↓", "Choose"),
				components.Hint("enter", "Toggle"),
			)
		}
		return append(hints, components.Hint("esc", "Tabs"), bindingHint(keys.ForceQuit))
	case tabTags:
		return []string{
			components.Hint("type", "Filter"),
			components.Hint("↑/↓", "Scroll"),
			components.Hint("enter", "Use Tag"),
			bindingHint(keys.Clear),
			components.Hint("esc", "Tabs"),
		}
	}
	return nil
}

func bindingHint(b key.Binding) string {
	h := b.Help()
	return components.Hint(h.Key, h.Desc)
}

func (a App) renderHelp() string {
	hints := a.statusHintsForTab()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a App) renderQuitConfirm() string {
	body := "You have an unsaved question. Quit anyway?"
	return components.Indent(components.ConfirmDialog("Quit", body), 1)
}

func (a App) renderPending() string {
	p := a.state.Pending
	return components.ConfirmPreviewDialog(p.Title, p.Message, p.Summary, p.Diffs, a.width)
}

func (a App) runStartupCheckCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		return startupCheckedMsg{err: client.WithTimeout(startupTimeout).Health()}
	}
}

func (a App) renderToast() string {
	t := a.state.Toast
	if t == nil {
		return ""
	}
	title := "Info"
	switch t.Kind {
	case components.IconSuccess:
		title = "Success"
	case components.IconWarning:
		title = "Warning"
	case components.IconError:
		return components.ErrorBox("Error", t.Text, a.width)
	}
	return components.TitledBox(title, t.Kind.Label(t.Text), a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func tabIndexForKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	if idx >= tabCount {
		return 0, false
	}
	return idx, true
}
