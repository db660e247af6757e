package tagpicker

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/quorum/cli/internal/api"
)

// fakeClock records scheduled ticks instead of sleeping.
type fakeClock struct {
	now    time.Duration
	timers []timer
}

type timer struct {
	at time.Duration
	fn func(time.Time) tea.Msg
}

type fired struct {
	at  time.Duration
	msg tea.Msg
}

func (c *fakeClock) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.timers = append(c.timers, timer{at: c.now + d, fn: fn})
	return func() tea.Msg { return nil }
}

// advance fires every timer due by to, in due order.
func (c *fakeClock) advance(to time.Duration) []fired {
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
	var out []fired
	var rest []timer
	for _, t := range c.timers {
		if t.at <= to {
			out = append(out, fired{at: t.at, msg: t.fn(time.Unix(0, 0).Add(t.at))})
			continue
		}
		rest = append(rest, t)
	}
	c.timers = rest
	c.now = to
	return out
}

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]api.Tag
	fail    map[string]error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{results: map[string][]api.Tag{}, fail: map[string]error{}}
}

func (f *fakeSearcher) SearchTags(keyword string, limit int) (*api.TagSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, keyword)
	if err, ok := f.fail[keyword]; ok {
		return nil, err
	}
	if keyword == "unsuccessful" {
		return &api.TagSearchResult{Success: false}, nil
	}
	return &api.TagSearchResult{Success: true, Tags: f.results[keyword]}, nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var errBoom = errors.New("boom")

// drain runs cmd and every batched command under it, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func typeText(m Model, text string) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

// feed delivers msgs to m and keeps running what comes back, skipping
// spinner ticks so the loop terminates.
func feed(m Model, msgs ...tea.Msg) Model {
	queue := append([]tea.Msg(nil), msgs...)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		for _, next := range drainSkippingTicks(cmd) {
			queue = append(queue, next)
		}
	}
	return m
}

func drainSkippingTicks(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, msg := range drain(cmd) {
		switch msg.(type) {
		case ResultsMsg, SettledMsg, limitRevertMsg:
			out = append(out, msg)
		}
	}
	return out
}

func tag(id, name string) api.Tag {
	return api.Tag{ID: id, Name: name}
}

func names(tags []api.Tag) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return strings.Join(out, ",")
}

type recorder struct {
	existing [][]api.Tag
	newTags  [][]string
	errs     []error
}

// newTestPicker builds a focused picker wired to a fake clock and recorder.
func newTestPicker(opts Options) (Model, *recorder, *fakeClock) {
	rec := &recorder{}
	clock := &fakeClock{}
	if opts.Tick == nil {
		opts.Tick = clock.Tick
	}
	if opts.Searcher == nil {
		opts.Searcher = newFakeSearcher()
	}
	opts.OnExistingChange = func(tags []api.Tag) tea.Cmd {
		rec.existing = append(rec.existing, tags)
		return nil
	}
	opts.OnNewChange = func(names []string) tea.Cmd {
		rec.newTags = append(rec.newTags, names)
		return nil
	}
	opts.OnError = func(err error) tea.Cmd {
		rec.errs = append(rec.errs, err)
		return nil
	}
	m := New(opts)
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.Focus()
	return m, rec, clock
}

// settle fires due debounce timers and delivers resulting searches.
func settle(m Model, clock *fakeClock, to time.Duration) Model {
	for _, f := range clock.advance(to) {
		m = feed(m, f.msg)
	}
	return m
}
