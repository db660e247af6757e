package tagpicker

import (
	"strings"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/ui/components"
)

// Action is what enter does on a dropdown row.
type Action int

const (
	ActionAdd Action = iota
	ActionAddNew
	ActionRemove
)

// Entry is one dropdown row.
type Entry struct {
	Candidate Candidate
	Action    Action
	FreeText  bool
}

// Icon returns the row glyph.
func (e Entry) Icon() components.IconKind {
	switch e.Action {
	case ActionRemove:
		return components.IconRemove
	case ActionAddNew:
		return components.IconNewTag
	default:
		return components.IconTag
	}
}

// Label returns the row text.
func (e Entry) Label() string {
	name := e.Candidate.Name()
	if !e.FreeText {
		return name
	}
	switch e.Action {
	case ActionRemove:
		return "remove \"" + name + "\""
	case ActionAddNew:
		return "add \"" + name + "\" as new tag"
	default:
		return "add \"" + name + "\""
	}
}

// NormalizeTag folds typed text into tag form: trimmed, no leading '#',
// lower case, with '_' and inner whitespace turned into '-'.
func NormalizeTag(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimLeft(name, "#")
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	return strings.Join(strings.Fields(name), "-")
}

// buildEntries lists results in server order followed by exactly one
// free-text row for query, when query normalizes to a non-empty name.
func buildEntries(results []api.Tag, query string, sel Selection) []Entry {
	entries := make([]Entry, 0, len(results)+1)
	for _, tag := range results {
		c := Existing(tag)
		if !c.valid() {
			continue
		}
		action := ActionAdd
		if sel.HasExisting(tag.ID) || sel.indexNew(tag.Name) >= 0 {
			action = ActionRemove
		}
		entries = append(entries, Entry{Candidate: c, Action: action})
	}

	name := NormalizeTag(query)
	if name == "" {
		return entries
	}
	return append(entries, freeEntry(name, results, sel))
}

// freeEntry resolves the free-text row: drop a selected tag of that name,
// else pick the result with exactly that name, else offer a new tag.
func freeEntry(name string, results []api.Tag, sel Selection) Entry {
	if sel.indexExistingName(name) >= 0 || sel.indexNew(name) >= 0 {
		return Entry{Candidate: Free(name), Action: ActionRemove, FreeText: true}
	}
	for _, tag := range results {
		if NormalizeTag(tag.Name) == name && Existing(tag).valid() {
			return Entry{Candidate: Existing(tag), Action: ActionAdd, FreeText: true}
		}
	}
	return Entry{Candidate: Free(name), Action: ActionAddNew, FreeText: true}
}
