package tagpicker

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/quorum/cli/internal/api"
)

var selectionCmp = []cmp.Option{cmp.AllowUnexported(Selection{}), cmpopts.EquateEmpty()}

func assertInvariants(t *testing.T, s Selection) {
	t.Helper()
	assert.LessOrEqual(t, s.Len(), s.Max(), "selection over limit")
	seen := map[string]bool{}
	for _, tag := range s.Existing() {
		seen[tag.Name] = true
	}
	for _, name := range s.New() {
		assert.False(t, seen[name], "%q selected as existing and new", name)
	}
}

func TestSelectionToggleAddsInOrder(t *testing.T) {
	s := NewSelection(5, nil, nil)

	change, err := s.Toggle(Existing(tag("1", "go")))
	require.NoError(t, err)
	assert.Equal(t, ChangeExisting, change)

	change, err = s.Toggle(Free("wasm"))
	require.NoError(t, err)
	assert.Equal(t, ChangeNew, change)

	change, err = s.Toggle(Existing(tag("2", "rust")))
	require.NoError(t, err)
	assert.Equal(t, ChangeExisting, change)

	assert.Equal(t, []api.Tag{tag("1", "go"), tag("2", "rust")}, s.Existing())
	assert.Equal(t, []string{"wasm"}, s.New())
	assert.Equal(t, []string{"go", "rust", "wasm"}, s.Names())
	assert.Equal(t, []string{"1", "2"}, s.ExistingIDs())
}

func TestSelectionToggleTwiceIsNoop(t *testing.T) {
	candidates := []Candidate{
		Existing(tag("9", "zig")),
		Existing(tag("1", "go")),
		Free("wasm"),
		Free("fresh"),
	}
	for _, c := range candidates {
		t.Run(c.Name(), func(t *testing.T) {
			s := NewSelection(5, []api.Tag{tag("1", "go")}, []string{"wasm"})
			before := s

			_, err := s.Toggle(c)
			require.NoError(t, err)
			_, err = s.Toggle(c)
			require.NoError(t, err)

			if diff := cmp.Diff(before, s, selectionCmp...); diff != "" {
				t.Fatalf("toggle twice changed selection (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectionLimitRejectsAddLeavesStateUnchanged(t *testing.T) {
	seed := []api.Tag{tag("1", "a"), tag("2", "b"), tag("3", "c"), tag("4", "d"), tag("5", "e")}
	s := NewSelection(5, seed, nil)
	before := s

	change, err := s.Toggle(Existing(tag("6", "f")))
	require.ErrorIs(t, err, ErrLimitExceeded)
	assert.Contains(t, err.Error(), "at most 5")
	assert.Equal(t, ChangeNone, change)

	_, err = s.Toggle(Free("g"))
	require.ErrorIs(t, err, ErrLimitExceeded)

	if diff := cmp.Diff(before, s, selectionCmp...); diff != "" {
		t.Fatalf("rejected toggle changed selection (-want +got):\n%s", diff)
	}
}

func TestSelectionRemovalNeverBlockedByLimit(t *testing.T) {
	s := NewSelection(2, []api.Tag{tag("1", "a")}, []string{"b"})
	require.True(t, s.Full())

	change, err := s.Toggle(Existing(tag("1", "a")))
	require.NoError(t, err)
	assert.Equal(t, ChangeExisting, change)

	change, err = s.Toggle(Free("b"))
	require.NoError(t, err)
	assert.Equal(t, ChangeNew, change)
	assert.Equal(t, 0, s.Len())
}

func TestSelectionFreeTextMatchingExistingRemovesIt(t *testing.T) {
	s := NewSelection(5, []api.Tag{tag("1", "go"), tag("2", "rust")}, nil)

	change, err := s.Toggle(Free(" go "))
	require.NoError(t, err)
	assert.Equal(t, ChangeExisting, change)
	assert.Equal(t, []api.Tag{tag("2", "rust")}, s.Existing())
	assert.Empty(t, s.New())
}

func TestSelectionNameMatchingIgnoresCase(t *testing.T) {
	s := NewSelection(5, []api.Tag{tag("1", "JavaScript")}, []string{"web-dev"})

	change, err := s.Toggle(Free("javascript"))
	require.NoError(t, err)
	assert.Equal(t, ChangeExisting, change)
	assert.Empty(t, s.Existing())

	assert.True(t, s.HasName("Web_Dev"))
	assert.Equal(t, ChangeNew, s.Remove("WEB-DEV"))
	assert.Equal(t, 0, s.Len())
}

func TestSelectionFreeTextRemovesNewTag(t *testing.T) {
	s := NewSelection(5, nil, []string{"rust"})

	change, err := s.Toggle(Free("rust"))
	require.NoError(t, err)
	assert.Equal(t, ChangeNew, change)
	assert.Empty(t, s.New())
}

func TestSelectionExistingCandidateNamedLikeNewTagReplacesNothing(t *testing.T) {
	s := NewSelection(5, nil, []string{"rust"})

	change, err := s.Toggle(Existing(tag("7", "rust")))
	require.NoError(t, err)
	assert.Equal(t, ChangeNew, change)
	assert.Empty(t, s.New())
	assert.Empty(t, s.Existing())
}

func TestSelectionInvalidCandidateIsSilentNoop(t *testing.T) {
	s := NewSelection(1, []api.Tag{tag("1", "go")}, nil)
	before := s

	for _, c := range []Candidate{Free(""), Free("   "), Existing(tag("", "x")), Existing(tag("2", " ")), {}} {
		change, err := s.Toggle(c)
		assert.NoError(t, err)
		assert.Equal(t, ChangeNone, change)
	}
	if diff := cmp.Diff(before, s, selectionCmp...); diff != "" {
		t.Fatalf("invalid candidate changed selection:\n%s", diff)
	}
}

func TestSelectionRemove(t *testing.T) {
	s := NewSelection(5, []api.Tag{tag("1", "go")}, []string{"wasm"})

	assert.Equal(t, ChangeNone, s.Remove("missing"))
	assert.Equal(t, ChangeNew, s.Remove("wasm"))
	assert.Equal(t, ChangeExisting, s.Remove("go"))
	assert.Equal(t, 0, s.Len())
}

func TestSelectionRemoveAt(t *testing.T) {
	s := NewSelection(5, []api.Tag{tag("1", "go"), tag("2", "rust")}, []string{"wasm", "zig"})

	assert.Equal(t, ChangeNone, s.RemoveAt(-1))
	assert.Equal(t, ChangeNone, s.RemoveAt(4))
	assert.Equal(t, ChangeNew, s.RemoveAt(3))
	assert.Equal(t, ChangeExisting, s.RemoveAt(0))
	assert.Equal(t, []string{"rust", "wasm"}, s.Names())
}

func TestNewSelectionSeedingDedupesAndDropsOverflow(t *testing.T) {
	s := NewSelection(3,
		[]api.Tag{tag("1", "go"), tag("1", "go"), tag("", "bad"), tag("2", "rust")},
		[]string{"go", " ", "wasm", "wasm", "zig"},
	)

	assert.Equal(t, []api.Tag{tag("1", "go"), tag("2", "rust")}, s.Existing())
	assert.Equal(t, []string{"wasm"}, s.New())
	assertInvariants(t, s)
}

func TestNewSelectionDefaultsLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxTags, NewSelection(0, nil, nil).Max())
	assert.Equal(t, DefaultMaxTags, NewSelection(-3, nil, nil).Max())
}

func TestSelectionAccessorsReturnCopies(t *testing.T) {
	s := NewSelection(5, []api.Tag{tag("1", "go")}, []string{"wasm"})

	existing := s.Existing()
	existing[0].Name = "mutated"
	newTags := s.New()
	newTags[0] = "mutated"

	assert.Equal(t, "go", s.Existing()[0].Name)
	assert.Equal(t, "wasm", s.New()[0])
}

func TestSelectionRandomToggleSequencesHoldInvariants(t *testing.T) {
	pool := []Candidate{Free("")}
	for i := range 8 {
		name := fmt.Sprintf("t%d", i)
		pool = append(pool, Existing(tag(fmt.Sprint(i), name)), Free(name))
	}

	rng := rand.New(rand.NewSource(42))
	for run := range 50 {
		s := NewSelection(1+run%5, nil, nil)
		for range 200 {
			c := pool[rng.Intn(len(pool))]
			before := s
			_, err := s.Toggle(c)
			if err != nil {
				require.ErrorIs(t, err, ErrLimitExceeded)
				require.Empty(t, cmp.Diff(before, s, selectionCmp...))
			}
			assertInvariants(t, s)
		}
	}
}
