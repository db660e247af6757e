package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/ui/tagpicker"
)

// slowCmd bounds how long drain waits on one command. Cursor blinks, toast
// expiry and spinner frames all take longer and are skipped.
const slowCmd = 50 * time.Millisecond

func testClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *api.Client) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, api.NewClient(srv.URL, "test-key")
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

// fakeAPI serves the endpoints the TUI calls and records question payloads.
type fakeAPI struct {
	mu       sync.Mutex
	tags     []api.Tag
	question *api.Question
	created  []api.QuestionInput
	updated  []api.QuestionInput
	searches []string
	failSave bool
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/health":
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	case r.URL.Path == "/api/tags/search":
		keyword := r.URL.Query().Get("keyword")
		f.searches = append(f.searches, keyword)
		var hits []api.Tag
		for _, tag := range f.tags {
			if strings.Contains(tag.Name, keyword) {
				hits = append(hits, tag)
			}
		}
		writeData(w, api.TagSearchResult{Success: true, Tags: hits})
	case r.URL.Path == "/api/tags":
		writeData(w, f.tags)
	case r.URL.Path == "/api/questions" && r.Method == http.MethodPost:
		f.save(w, r, &f.created)
	case strings.HasPrefix(r.URL.Path, "/api/questions/") && r.Method == http.MethodPatch:
		f.save(w, r, &f.updated)
	case strings.HasPrefix(r.URL.Path, "/api/questions/") && r.Method == http.MethodGet:
		if f.question == nil {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": "NOT_FOUND", "message": "question not found"}})
			return
		}
		writeData(w, f.question)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) save(w http.ResponseWriter, r *http.Request, into *[]api.QuestionInput) {
	if f.failSave {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": "VALIDATION_ERROR", "message": "title taken"}})
		return
	}
	var in api.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	*into = append(*into, in)
	q := api.Question{ID: "q-1", Title: in.Title, Body: in.Body}
	writeData(w, q)
}

func (f *fakeAPI) createdInputs() []api.QuestionInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.QuestionInput(nil), f.created...)
}

func (f *fakeAPI) updatedInputs() []api.QuestionInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.QuestionInput(nil), f.updated...)
}

func (f *fakeAPI) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func newFakeAPI(t *testing.T, tags ...api.Tag) (*fakeAPI, *api.Client) {
	f := &fakeAPI{tags: tags}
	_, client := testClient(t, f.handler)
	return f, client
}

// immediatePicker searches as soon as input changes.
func immediatePicker() tagpicker.Options {
	return tagpicker.Options{Debounce: -1, MaxTags: 3}
}

// drain runs cmd and every command it batches, returning the messages that
// arrive quickly.
func drain(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		ch := make(chan tea.Msg, 1)
		go func() { ch <- c() }()
		select {
		case msg := <-ch:
			if batch, ok := msg.(tea.BatchMsg); ok {
				queue = append(queue, batch...)
				continue
			}
			if msg != nil {
				out = append(out, msg)
			}
		case <-time.After(slowCmd):
		}
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// keyRune builds the message a terminal sends for one typed character.
func keyRune(r rune) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return keyRunes(string(r))
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// pumpApp feeds msg to the app and then every message its commands produce.
func pumpApp(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	pending := []tea.Msg{msg}
	for steps := 0; len(pending) > 0; steps++ {
		require.Less(t, steps, 200, "message loop did not settle")
		next := pending[0]
		pending = pending[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			continue
		}
		model, cmd := a.Update(next)
		a = model.(App)
		pending = append(pending, drain(cmd)...)
	}
	return a
}

func typeApp(t *testing.T, a App, text string) App {
	t.Helper()
	for _, r := range text {
		a = pumpApp(t, a, keyRune(r))
	}
	return a
}

// pumpComposer is pumpApp for a bare composer. Store actions are collected
// instead of applied.
func pumpComposer(t *testing.T, c ComposerModel, msg tea.Msg) (ComposerModel, []action) {
	t.Helper()
	var actions []action
	pending := []tea.Msg{msg}
	for steps := 0; len(pending) > 0; steps++ {
		require.Less(t, steps, 200, "message loop did not settle")
		next := pending[0]
		pending = pending[1:]
		if a, ok := next.(action); ok {
			actions = append(actions, a)
			continue
		}
		var cmd tea.Cmd
		c, cmd = c.Update(next)
		pending = append(pending, drain(cmd)...)
	}
	return c, actions
}

func typeComposer(t *testing.T, c ComposerModel, text string) ComposerModel {
	t.Helper()
	for _, r := range text {
		c, _ = pumpComposer(t, c, keyRune(r))
	}
	return c
}

func staticCursors(c *ComposerModel) {
	c.title.Cursor.SetMode(cursor.CursorStatic)
	c.body.Cursor.SetMode(cursor.CursorStatic)
}
