package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/ui/components"
	"github.com/gravitrone/quorum/cli/internal/ui/tagpicker"
)

// --- Messages ---

type questionLoadedMsg struct{ question *api.Question }
type questionSavedMsg struct {
	question *api.Question
	edit     bool
}
type existingTagsChangedMsg struct{ tags []api.Tag }
type newTagsChangedMsg struct{ names []string }
type useTagMsg struct{ tag api.Tag }

type composerField int

const (
	fieldTitle composerField = iota
	fieldBody
	fieldTags
	fieldCount
)

// titleMinRunes mirrors the min on api.QuestionInput.Title.
const titleMinRunes = 8

var validate = validator.New(validator.WithRequiredStructEnabled())

// ComposerModel is the Ask tab: a question form whose tags come from the
// tag picker. The form keeps its own copy of the chosen tags and rebuilds the
// submit payload from it.
type ComposerModel struct {
	client *api.Client
	opts   tagpicker.Options

	title textinput.Model
	body  textarea.Model
	tags  tagpicker.Model

	existing []api.Tag
	newTags  []string

	focus    composerField
	editID   string
	original *api.Question
	loading  bool
	width    int
	height   int
}

// NewComposerModel builds the form. opts carries the picker limits; its
// searcher and callbacks are set here.
func NewComposerModel(client *api.Client, opts tagpicker.Options) ComposerModel {
	if client != nil {
		opts.Searcher = client
	}
	if opts.MaxTags <= 0 {
		opts.MaxTags = tagpicker.DefaultMaxTags
	}

	title := textinput.New()
	title.Placeholder = "What is your question? Be specific."
	title.CharLimit = 150
	title.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Include everything someone needs to answer it."
	body.ShowLineNumbers = false
	body.SetHeight(6)
	body.CharLimit = 10000

	c := ComposerModel{
		client: client,
		opts:   opts,
		title:  title,
		body:   body,
	}
	c.tags = c.newPicker(opts.Existing, opts.New)
	c.existing = c.tags.Selection().Existing()
	c.newTags = c.tags.Selection().New()
	c.setFocus(fieldTitle)
	return c
}

func (c *ComposerModel) setSize(width, height int) {
	c.width = width
	c.height = height
	inner := components.BoxContentWidth(width)
	if inner <= 0 {
		return
	}
	c.title.Width = inner - 2
	c.body.SetWidth(inner - 2)
	c.tags.SetWidth(inner)
}

// NewEditComposerModel builds the form for an existing question, which is
// fetched on Init.
func NewEditComposerModel(client *api.Client, opts tagpicker.Options, questionID string) ComposerModel {
	c := NewComposerModel(client, opts)
	c.editID = strings.TrimSpace(questionID)
	c.loading = c.editID != ""
	return c
}

func (c ComposerModel) newPicker(existing []api.Tag, newTags []string) tagpicker.Model {
	o := c.opts
	o.Existing = existing
	o.New = newTags
	o.OnExistingChange = func(tags []api.Tag) tea.Cmd {
		return func() tea.Msg { return existingTagsChangedMsg{tags: tags} }
	}
	o.OnNewChange = func(names []string) tea.Cmd {
		return func() tea.Msg { return newTagsChangedMsg{names: names} }
	}
	o.OnError = func(err error) tea.Cmd {
		return dispatch(setError{err: err})
	}
	return tagpicker.New(o)
}

// distinctTagCount counts the valid tags in tags, one per id.
func distinctTagCount(tags []api.Tag) int {
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			continue
		}
		seen[t.ID] = struct{}{}
	}
	return len(seen)
}

func (c ComposerModel) Init() tea.Cmd {
	if c.loading {
		return c.loadQuestion(c.editID)
	}
	return nil
}

// Dispose stops the picker's pending searches.
func (c *ComposerModel) Dispose() {
	c.tags.Dispose()
}

func (c ComposerModel) loadQuestion(id string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		if client == nil {
			return setError{err: errors.New("not connected; run quorum login")}
		}
		q, err := client.GetQuestion(id)
		if err != nil {
			return setError{err: fmt.Errorf("load question: %w", err)}
		}
		return questionLoadedMsg{question: q}
	}
}

func (c ComposerModel) Update(msg tea.Msg) (ComposerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case questionLoadedMsg:
		c.loading = false
		c.original = msg.question
		c.title.SetValue(msg.question.Title)
		c.body.SetValue(msg.question.Body)
		c.tags.Dispose()
		c.tags = c.newPicker(msg.question.Tags, nil)
		c.existing = c.tags.Selection().Existing()
		c.newTags = nil
		focus := c.setFocus(fieldTitle)
		if n := distinctTagCount(msg.question.Tags); n > len(c.existing) {
			text := fmt.Sprintf("Question has %d tags; only the first %d are kept.", n, len(c.existing))
			return c, tea.Batch(focus, dispatch(setToast{kind: components.IconWarning, text: text}))
		}
		return c, focus

	case existingTagsChangedMsg:
		c.existing = msg.tags
		return c, nil

	case newTagsChangedMsg:
		c.newTags = msg.names
		return c, nil

	case useTagMsg:
		if c.tags.Selection().HasExisting(msg.tag.ID) {
			return c, dispatch(setToast{kind: components.IconInfo, text: fmt.Sprintf("%q is already selected.", msg.tag.Name)})
		}
		var cmd tea.Cmd
		c.tags, cmd = c.tags.Toggle(tagpicker.Existing(msg.tag))
		return c, tea.Batch(cmd, c.setFocus(fieldTags))

	case questionSavedMsg:
		if msg.edit {
			c.original = msg.question
			return c, dispatch(setToast{kind: components.IconSuccess, text: "Question updated."})
		}
		c.reset()
		return c, dispatch(setToast{kind: components.IconSuccess, text: "Question posted."})

	case tea.KeyMsg:
		if c.loading {
			return c, nil
		}
		switch {
		case key.Matches(msg, keys.Submit):
			return c.submit()
		case key.Matches(msg, keys.NextField):
			return c, c.setFocus((c.focus + 1) % fieldCount)
		case key.Matches(msg, keys.PrevField):
			return c, c.setFocus((c.focus + fieldCount - 1) % fieldCount)
		}
		return c.updateFocused(msg)
	}

	// Debounce ticks, search results and cursor blinks.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.tags, cmd = c.tags.Update(msg)
	cmds = append(cmds, cmd)
	switch c.focus {
	case fieldTitle:
		c.title, cmd = c.title.Update(msg)
		cmds = append(cmds, cmd)
	case fieldBody:
		c.body, cmd = c.body.Update(msg)
		cmds = append(cmds, cmd)
	}
	return c, tea.Batch(cmds...)
}

func (c ComposerModel) updateFocused(msg tea.KeyMsg) (ComposerModel, tea.Cmd) {
	var cmd tea.Cmd
	switch c.focus {
	case fieldTitle:
		if isEnter(msg) {
			return c, c.setFocus(fieldBody)
		}
		c.title, cmd = c.title.Update(msg)
	case fieldBody:
		c.body, cmd = c.body.Update(msg)
	case fieldTags:
		c.tags, cmd = c.tags.Update(msg)
	}
	return c, cmd
}

func (c *ComposerModel) setFocus(field composerField) tea.Cmd {
	c.focus = field
	c.title.Blur()
	c.body.Blur()
	c.tags.Blur()
	switch field {
	case fieldTitle:
		return c.title.Focus()
	case fieldBody:
		return c.body.Focus()
	case fieldTags:
		return c.tags.Focus()
	}
	return nil
}

func (c *ComposerModel) reset() {
	c.title.SetValue("")
	c.body.SetValue("")
	c.tags.Reset()
	c.existing = nil
	c.newTags = nil
	c.original = nil
	c.setFocus(fieldTitle)
}

// input builds the payload from the form's own copy of the tags.
func (c ComposerModel) input() api.QuestionInput {
	ids := make([]string, 0, len(c.existing))
	for _, t := range c.existing {
		ids = append(ids, t.ID)
	}
	return api.QuestionInput{
		Title:   strings.TrimSpace(c.title.Value()),
		Body:    strings.TrimSpace(c.body.Value()),
		TagIDs:  ids,
		NewTags: append([]string{}, c.newTags...),
	}
}

func (c ComposerModel) maxTags() int {
	return c.tags.Selection().Max()
}

func (c ComposerModel) submit() (ComposerModel, tea.Cmd) {
	in := c.input()
	if err := validateQuestion(in, c.maxTags()); err != nil {
		return c, dispatch(setError{err: err})
	}

	summary := []components.TableRow{
		{Label: "Title", Value: in.Title},
		{Label: "Body", Value: fmt.Sprintf("%d characters", len([]rune(in.Body)))},
		{Label: "Tags", Value: strings.Join(c.tagNames(), ", ")},
	}
	pending := PendingAction{
		Title:   "Post question",
		Message: "Post this question?",
		Summary: summary,
		Run:     c.saveCmd(in),
	}
	if c.editID != "" {
		pending.Title = "Update question"
		pending.Message = "Save these changes?"
		pending.Diffs = c.diffs(in)
	}
	return c, dispatch(setAction{action: pending})
}

func (c ComposerModel) saveCmd(in api.QuestionInput) tea.Cmd {
	client, id := c.client, c.editID
	return func() tea.Msg {
		if client == nil {
			return setError{err: errors.New("not connected; run quorum login")}
		}
		if id != "" {
			q, err := client.UpdateQuestion(id, in)
			if err != nil {
				return setError{err: fmt.Errorf("update question: %w", err)}
			}
			return questionSavedMsg{question: q, edit: true}
		}
		q, err := client.CreateQuestion(in)
		if err != nil {
			return setError{err: fmt.Errorf("post question: %w", err)}
		}
		return questionSavedMsg{question: q}
	}
}

func (c ComposerModel) tagNames() []string {
	out := make([]string, 0, len(c.existing)+len(c.newTags))
	for _, t := range c.existing {
		out = append(out, t.Name)
	}
	for _, n := range c.newTags {
		out = append(out, n+" (new)")
	}
	return out
}

func (c ComposerModel) diffs(in api.QuestionInput) []components.DiffRow {
	if c.original == nil {
		return nil
	}
	var rows []components.DiffRow
	if c.original.Title != in.Title {
		rows = append(rows, components.DiffRow{Label: "Title", From: c.original.Title, To: in.Title})
	}
	if c.original.Body != in.Body {
		rows = append(rows, components.DiffRow{Label: "Body", From: c.original.Body, To: in.Body})
	}
	before := make([]string, 0, len(c.original.Tags))
	for _, t := range c.original.Tags {
		before = append(before, t.Name)
	}
	after := c.tagNames()
	if !slices.Equal(before, after) {
		rows = append(rows, components.DiffRow{Label: "Tags", From: strings.Join(before, ", "), To: strings.Join(after, ", ")})
	}
	return rows
}

// hasUnsaved reports whether quitting would lose typed work.
func (c ComposerModel) hasUnsaved() bool {
	if c.loading {
		return false
	}
	in := c.input()
	if c.original == nil {
		return in.Title != "" || in.Body != "" || len(in.TagIDs)+len(in.NewTags) > 0
	}
	return len(c.diffs(in)) > 0
}

// validateQuestion checks the payload before it is sent.
func validateQuestion(in api.QuestionInput, maxTags int) error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("invalid question: %s", describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("invalid question: %w", err)
	}
	n := len(in.TagIDs) + len(in.NewTags)
	switch {
	case n == 0:
		return errors.New("invalid question: add at least one tag")
	case n > maxTags:
		return fmt.Errorf("invalid question: at most %d tags", maxTags)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}

func (c ComposerModel) View() string {
	if c.loading {
		return components.TitledBox("Edit question", MutedStyle.Render("Loading question..."), c.width)
	}

	label := func(field composerField, text string) string {
		if c.focus == field {
			return SelectedStyle.Render("> " + text)
		}
		return MutedStyle.Render("  " + text)
	}

	var b strings.Builder
	b.WriteString(label(fieldTitle, "Title") + "  " + c.titleCounter())
	b.WriteString("\n")
	b.WriteString(c.title.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldBody, "Body"))
	b.WriteString("\n")
	b.WriteString(c.body.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldTags, "Tags"))
	b.WriteString("\n")
	b.WriteString(c.tags.View())

	title := "Ask a question"
	if c.editID != "" {
		title = "Edit question"
	}
	if c.original != nil && c.original.Author != "" {
		b.WriteString("\n\n" + MutedStyle.Render("asked by ") + NormalStyle.Render(components.SanitizeOneLine(c.original.Author)))
	}
	return components.TitledBox(title, b.String(), c.width)
}

func (c ComposerModel) titleCounter() string {
	n := len([]rune(strings.TrimSpace(c.title.Value())))
	text := fmt.Sprintf("%d/%d", n, c.title.CharLimit)
	if n > 0 && n < titleMinRunes {
		return WarningStyle.Render(text)
	}
	return CounterStyle.Render(text)
}
