package tagpicker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gravitrone/quorum/cli/internal/api"
)

// DefaultMaxTags caps a selection when no limit is configured.
const DefaultMaxTags = 5

// ErrLimitExceeded is returned when adding a tag would exceed the selection limit.
var ErrLimitExceeded = errors.New("tag limit reached")

// Change reports which collection a mutation touched.
type Change int

const (
	ChangeNone Change = iota
	ChangeExisting
	ChangeNew
)

// Candidate is something the user can toggle: a tag the backend knows, or
// free text that may become a new tag on submit.
type Candidate struct {
	tag      api.Tag
	name     string
	existing bool
}

// Existing wraps a backend tag.
func Existing(tag api.Tag) Candidate {
	return Candidate{tag: tag, name: tag.Name, existing: true}
}

// Free wraps typed text.
func Free(name string) Candidate {
	return Candidate{name: strings.TrimSpace(name)}
}

// Name returns the display name of the candidate.
func (c Candidate) Name() string {
	return c.name
}

// IsExisting reports whether the candidate carries a backend id.
func (c Candidate) IsExisting() bool {
	return c.existing
}

func (c Candidate) valid() bool {
	if c.existing {
		return strings.TrimSpace(c.tag.ID) != "" && strings.TrimSpace(c.tag.Name) != ""
	}
	return c.name != ""
}

// Selection holds the chosen existing tags (unique by id) and new tag names
// (unique by name), both in selection order. Their combined length never
// exceeds the limit and no name is in both.
type Selection struct {
	max      int
	existing []api.Tag
	newTags  []string
}

// NewSelection seeds a selection from current form values. Duplicates and
// invalid entries are dropped, as is anything past the limit (existing first).
func NewSelection(max int, existing []api.Tag, newTags []string) Selection {
	if max <= 0 {
		max = DefaultMaxTags
	}
	s := Selection{max: max}
	for _, tag := range existing {
		c := Existing(tag)
		if !c.valid() || s.Full() || s.indexExisting(tag.ID) >= 0 {
			continue
		}
		s.existing = append(s.existing, tag)
	}
	for _, name := range newTags {
		c := Free(name)
		if !c.valid() || s.Full() || s.HasName(c.name) {
			continue
		}
		s.newTags = append(s.newTags, c.name)
	}
	return s
}

// Max returns the selection limit.
func (s Selection) Max() int { return s.max }

// Len returns the combined count of both collections.
func (s Selection) Len() int { return len(s.existing) + len(s.newTags) }

// Full reports whether another add would be rejected.
func (s Selection) Full() bool { return s.Len() >= s.max }

// Existing returns a copy of the chosen existing tags.
func (s Selection) Existing() []api.Tag {
	out := make([]api.Tag, len(s.existing))
	copy(out, s.existing)
	return out
}

// New returns a copy of the chosen new tag names.
func (s Selection) New() []string {
	out := make([]string, len(s.newTags))
	copy(out, s.newTags)
	return out
}

// ExistingIDs returns the ids of the chosen existing tags.
func (s Selection) ExistingIDs() []string {
	out := make([]string, len(s.existing))
	for i, tag := range s.existing {
		out[i] = tag.ID
	}
	return out
}

// Names returns every selected name, existing first.
func (s Selection) Names() []string {
	out := make([]string, 0, s.Len())
	for _, tag := range s.existing {
		out = append(out, tag.Name)
	}
	return append(out, s.newTags...)
}

// HasExisting reports whether a tag id is selected.
func (s Selection) HasExisting(id string) bool {
	return s.indexExisting(id) >= 0
}

// HasName reports whether name is selected in either collection. Names
// match on their normalized form, so "JavaScript" and "javascript" are one.
func (s Selection) HasName(name string) bool {
	return s.indexExistingName(name) >= 0 || s.indexNew(name) >= 0
}

// Toggle removes the candidate when it is selected and adds it otherwise.
// Removal is never blocked by the limit. Free text equal to the name of a
// selected existing tag removes that tag. Invalid candidates are ignored.
func (s *Selection) Toggle(c Candidate) (Change, error) {
	if !c.valid() {
		return ChangeNone, nil
	}

	if c.existing {
		if i := s.indexExisting(c.tag.ID); i >= 0 {
			s.existing = removeAt(s.existing, i)
			return ChangeExisting, nil
		}
	} else if i := s.indexExistingName(c.name); i >= 0 {
		s.existing = removeAt(s.existing, i)
		return ChangeExisting, nil
	}

	if i := s.indexNew(c.name); i >= 0 {
		s.newTags = removeAt(s.newTags, i)
		return ChangeNew, nil
	}

	if s.Full() {
		return ChangeNone, fmt.Errorf("%w: at most %d tags", ErrLimitExceeded, s.max)
	}

	if c.existing {
		s.existing = append(s.existing, c.tag)
		return ChangeExisting, nil
	}
	s.newTags = append(s.newTags, c.name)
	return ChangeNew, nil
}

// Remove drops name from whichever collection holds it.
func (s *Selection) Remove(name string) Change {
	name = strings.TrimSpace(name)
	if i := s.indexExistingName(name); i >= 0 {
		s.existing = removeAt(s.existing, i)
		return ChangeExisting
	}
	if i := s.indexNew(name); i >= 0 {
		s.newTags = removeAt(s.newTags, i)
		return ChangeNew
	}
	return ChangeNone
}

// RemoveAt drops the i-th entry of Names.
func (s *Selection) RemoveAt(i int) Change {
	switch {
	case i < 0 || i >= s.Len():
		return ChangeNone
	case i < len(s.existing):
		s.existing = removeAt(s.existing, i)
		return ChangeExisting
	default:
		s.newTags = removeAt(s.newTags, i-len(s.existing))
		return ChangeNew
	}
}

// Reset empties both collections.
func (s *Selection) Reset() {
	s.existing = nil
	s.newTags = nil
}

func (s Selection) indexExisting(id string) int {
	for i, tag := range s.existing {
		if tag.ID == id {
			return i
		}
	}
	return -1
}

func (s Selection) indexExistingName(name string) int {
	key := NormalizeTag(name)
	if key == "" {
		return -1
	}
	for i, tag := range s.existing {
		if NormalizeTag(tag.Name) == key {
			return i
		}
	}
	return -1
}

func (s Selection) indexNew(name string) int {
	key := NormalizeTag(name)
	if key == "" {
		return -1
	}
	for i, n := range s.newTags {
		if NormalizeTag(n) == key {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
