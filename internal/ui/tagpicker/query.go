package tagpicker

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gravitrone/quorum/cli/internal/api"
)

// DefaultSearchLimit is the number of results requested per search.
const DefaultSearchLimit = 10

var errSearchUnsuccessful = errors.New("search returned success=false")

// Searcher looks up tags by keyword. *api.Client implements it.
type Searcher interface {
	SearchTags(keyword string, limit int) (*api.TagSearchResult, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(keyword string, limit int) (*api.TagSearchResult, error)

// SearchTags calls f.
func (f SearcherFunc) SearchTags(keyword string, limit int) (*api.TagSearchResult, error) {
	return f(keyword, limit)
}

// ResultsMsg carries a finished search back to the Query that started it.
type ResultsMsg struct {
	id      int
	seq     int
	Keyword string
	Tags    []api.Tag
	Err     error
}

// QueryOptions configures a Query.
type QueryOptions struct {
	Debounce time.Duration
	Limit    int
	Logger   *zap.Logger
	Tick     TickFunc
}

// Query owns the raw input, its debounced value, and the latest search
// results. Responses from superseded searches are discarded on arrival.
type Query struct {
	id       int
	debounce Debouncer
	searcher Searcher
	limit    int
	logger   *zap.Logger

	raw       string
	debounced string
	loading   bool
	failed    bool
	results   []api.Tag
	seq       int
	searches  int
}

// NewQuery builds a Query for searcher.
func NewQuery(searcher Searcher, opts QueryOptions) Query {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return Query{
		id:       nextID(),
		debounce: NewDebouncer(opts.Debounce).WithTick(opts.Tick),
		searcher: searcher,
		limit:    opts.Limit,
		logger:   opts.Logger,
	}
}

// Raw returns the current input value.
func (q Query) Raw() string { return q.raw }

// Debounced returns the keyword of the latest settled search.
func (q Query) Debounced() string { return q.debounced }

// Loading reports whether the latest search is in flight.
func (q Query) Loading() bool { return q.loading }

// Pending reports whether a debounce timer is outstanding.
func (q Query) Pending() bool { return q.debounce.Pending() }

// Failed reports whether the latest search failed and was treated as empty.
func (q Query) Failed() bool { return q.failed }

// Searches returns how many searches this query has started.
func (q Query) Searches() int { return q.searches }

// Blank reports whether the input is empty or whitespace only.
func (q Query) Blank() bool { return strings.TrimSpace(q.raw) == "" }

// Results returns a copy of the latest results, in server order. It is empty
// while the input is blank.
func (q Query) Results() []api.Tag {
	if q.debounced == "" {
		return nil
	}
	out := make([]api.Tag, len(q.results))
	copy(out, q.results)
	return out
}

// SetInput records a new input value. Blank input cancels the pending timer,
// invalidates any in-flight search and clears results without searching.
func (q *Query) SetInput(value string) tea.Cmd {
	if value == q.raw && !q.Blank() {
		return nil
	}
	q.raw = value
	if q.Blank() {
		q.clear()
		return nil
	}
	return q.debounce.Input(value)
}

// Update consumes the messages this query emitted. handled is false for
// anything else, including messages owned by another query.
func (q *Query) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case SettledMsg:
		if !q.debounce.Owns(msg) {
			return false, nil
		}
		value, ok := q.debounce.Settled(msg)
		if !ok {
			return true, nil
		}
		keyword := strings.TrimSpace(value)
		if keyword == "" {
			return true, nil
		}
		q.logger.Debug("tag query settled", zap.String("keyword", keyword))
		q.seq++
		q.debounced = keyword
		q.loading = true
		q.searches++
		return true, q.search(q.seq, keyword)

	case ResultsMsg:
		if msg.id != q.id {
			return false, nil
		}
		if msg.seq != q.seq {
			q.logger.Debug("stale tag results dropped",
				zap.String("keyword", msg.Keyword),
				zap.Int("seq", msg.seq),
				zap.Int("latest", q.seq))
			return true, nil
		}
		q.loading = false
		if msg.Err != nil {
			q.logger.Warn("tag search failed",
				zap.String("keyword", msg.Keyword),
				zap.Error(msg.Err))
			q.failed = true
			q.results = nil
			return true, nil
		}
		q.failed = false
		q.results = msg.Tags
		return true, nil
	}
	return false, nil
}

func (q Query) search(seq int, keyword string) tea.Cmd {
	id, searcher, limit := q.id, q.searcher, q.limit
	return func() tea.Msg {
		msg := ResultsMsg{id: id, seq: seq, Keyword: keyword}
		if searcher == nil {
			return msg
		}
		res, err := searcher.SearchTags(keyword, limit)
		switch {
		case err != nil:
			msg.Err = err
		case res == nil || !res.Success:
			msg.Err = errSearchUnsuccessful
		default:
			msg.Tags = append([]api.Tag(nil), res.Tags...)
		}
		return msg
	}
}

// Reset empties the input and drops pending and in-flight work.
func (q *Query) Reset() {
	q.raw = ""
	q.clear()
}

// Dispose tears the query down. Nothing it scheduled will apply afterwards.
func (q *Query) Dispose() {
	q.Reset()
	q.debounce.Dispose()
}

func (q *Query) clear() {
	q.debounce.Cancel()
	q.seq++
	q.debounced = ""
	q.loading = false
	q.failed = false
	q.results = nil
}
