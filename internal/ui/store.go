package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/quorum/cli/internal/ui/components"
)

// AppState is the cross-tab UI state owned by the App: the error banner, the
// pending confirmation, the toast and the signed-in user. It changes only
// through reduce.
type AppState struct {
	Err     string
	ErrCode string
	Pending *PendingAction
	Toast   *Toast
	User    string

	toastSeq int
}

// PendingAction is a confirmation waiting for y/n.
type PendingAction struct {
	Title   string
	Message string
	Summary []components.TableRow
	Diffs   []components.DiffRow
	Run     tea.Cmd
}

// Toast is a transient notice.
type Toast struct {
	Kind components.IconKind
	Text string
	seq  int
}

// action is a typed store mutation. Actions are also tea messages, so child
// models raise them by returning dispatch(...).
type action interface {
	isAction()
}

type (
	setError      struct{ err error }
	clearError    struct{}
	setAction     struct{ action PendingAction }
	confirmAction struct{}
	cancelAction  struct{}
	clearToast    struct{ seq int }
	setSession    struct{ user string }
)

type setToast struct {
	kind components.IconKind
	text string
}

func (setError) isAction()      {}
func (clearError) isAction()    {}
func (setAction) isAction()     {}
func (confirmAction) isAction() {}
func (cancelAction) isAction()  {}
func (setToast) isAction()      {}
func (clearToast) isAction()    {}
func (setSession) isAction()    {}

func dispatch(a action) tea.Cmd {
	return func() tea.Msg { return a }
}

// reduce applies a to s. The returned command is the confirmed action's work,
// if any.
func reduce(s AppState, a action) (AppState, tea.Cmd) {
	switch a := a.(type) {
	case setError:
		if a.err == nil {
			return s, nil
		}
		s.Err = a.err.Error()
		s.ErrCode, _ = parseErrorCodeAndMessage(s.Err)
	case clearError:
		s.Err = ""
		s.ErrCode = ""
	case setAction:
		pending := a.action
		s.Pending = &pending
	case confirmAction:
		if s.Pending == nil {
			return s, nil
		}
		run := s.Pending.Run
		s.Pending = nil
		return s, run
	case cancelAction:
		s.Pending = nil
	case setToast:
		s.toastSeq++
		s.Toast = &Toast{
			Kind: a.kind,
			Text: components.SanitizeOneLine(a.text),
			seq:  s.toastSeq,
		}
	case clearToast:
		if s.Toast != nil && (a.seq == 0 || a.seq == s.Toast.seq) {
			s.Toast = nil
		}
	case setSession:
		s.User = strings.TrimSpace(a.user)
	}
	return s, nil
}

func parseErrorCodeAndMessage(errText string) (string, string) {
	text := strings.TrimSpace(errText)
	if text == "" {
		return "", ""
	}
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return "", text
	}
	code := strings.TrimSpace(parts[0])
	if code == "" || strings.HasPrefix(strings.ToUpper(code), "HTTP ") {
		return "", text
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", text
		}
	}
	return code, strings.TrimSpace(parts[1])
}
