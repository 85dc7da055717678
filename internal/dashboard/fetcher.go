package dashboard

import (
	"context"
	"log"
	"net/http"
	"time"

	"stocktrack/internal/api"
	"stocktrack/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

const DefaultDebounce = 300 * time.Millisecond

type debounceElapsedMsg struct{ seq uint64 }

// ItemsFetchedMsg is the result of one list fetch.
type ItemsFetchedMsg struct {
	Generation uint64
	Query      string
	Items      []model.Item
	Err        error
}

// SearchFetcher turns query changes into debounced list fetches.
//
// Every fetch is tagged with a generation; only the response for the newest
// generation reaches the ItemStore.
type SearchFetcher struct {
	transport Transport
	store     *ItemStore
	debounce  time.Duration
	timeout   time.Duration
	logger    *log.Logger

	query       string
	debounceSeq uint64
	generation  uint64
}

func newSearchFetcher(t Transport, store *ItemStore, debounce, timeout time.Duration, logger *log.Logger) *SearchFetcher {
	return &SearchFetcher{
		transport: t,
		store:     store,
		debounce:  debounce,
		timeout:   timeout,
		logger:    logger,
	}
}

func (f *SearchFetcher) Query() string { return f.query }

// Generation is the newest generation issued so far.
func (f *SearchFetcher) Generation() uint64 { return f.generation }

// OnQueryChange records the query and schedules a fetch after the quiet period.
// A later call before the period elapses supersedes this one.
func (f *SearchFetcher) OnQueryChange(query string) tea.Cmd {
	f.query = query
	f.debounceSeq++
	seq := f.debounceSeq
	return tea.Tick(f.debounce, func(time.Time) tea.Msg { return debounceElapsedMsg{seq: seq} })
}

func (f *SearchFetcher) handleDebounce(msg debounceElapsedMsg) tea.Cmd {
	if msg.seq != f.debounceSeq {
		return nil
	}
	return f.issue()
}

// Refresh fetches the current query now. A pending debounced fetch is dropped
// since this one already carries the latest query.
func (f *SearchFetcher) Refresh() tea.Cmd {
	f.debounceSeq++
	return f.issue()
}

func (f *SearchFetcher) issue() tea.Cmd {
	f.generation++
	gen := f.generation
	query := f.query
	f.store.BeginFetch()

	t := f.transport
	timeout := f.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		raw, err := t.Request(ctx, api.ListEndpoint(query), http.MethodGet, nil)
		if err != nil {
			return ItemsFetchedMsg{Generation: gen, Query: query, Err: err}
		}
		items, err := api.DecodeItems(raw)
		return ItemsFetchedMsg{Generation: gen, Query: query, Items: items, Err: err}
	}
}

// Apply hands a fetch result to the ItemStore unless a newer fetch was issued.
func (f *SearchFetcher) Apply(msg ItemsFetchedMsg) bool {
	if msg.Generation != f.generation {
		f.logger.Printf("discard stale fetch gen=%d latest=%d query=%q", msg.Generation, f.generation, msg.Query)
		return false
	}
	if msg.Err != nil {
		f.logger.Printf("fetch failed gen=%d query=%q: %v", msg.Generation, msg.Query, msg.Err)
		f.store.Fail(FetchFailedMessage)
		return true
	}
	f.store.Replace(msg.Items)
	return true
}
