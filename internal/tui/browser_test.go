package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookfinder/internal/details"
	"github.com/lepinkainen/bookfinder/internal/favorites"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/search"
	"github.com/lepinkainen/bookfinder/internal/storage"
)

type searchCall struct {
	text string
	page int
	typ  openlibrary.SearchType
}

// stubSearch answers every search with perPage books out of numFound.
type stubSearch struct {
	numFound int
	perPage  int
	err      error

	mu    sync.Mutex
	calls []searchCall
}

func (s *stubSearch) Search(_ context.Context, text string, page int, typ openlibrary.SearchType) (*openlibrary.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, searchCall{text: text, page: page, typ: typ})
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if text == "" {
		return openlibrary.EmptySearchResponse(), nil
	}

	docs := make([]openlibrary.Book, s.perPage)
	for i := range docs {
		n := (page-1)*s.perPage + i + 1
		docs[i] = openlibrary.Book{
			Key:        fmt.Sprintf("/works/OL%dW", n),
			Title:      fmt.Sprintf("%s %d", text, n),
			AuthorName: []string{"Frank Herbert"},
		}
	}
	return &openlibrary.Response{
		Shape:  openlibrary.ShapeSearch,
		Search: &openlibrary.SearchResult{Docs: docs, NumFound: s.numFound},
	}, nil
}

func (s *stubSearch) recorded() []searchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]searchCall(nil), s.calls...)
}

type stubDetails struct{}

func (stubDetails) Work(_ context.Context, id string) (*openlibrary.Work, error) {
	return &openlibrary.Work{
		Key:         "/works/" + id,
		Title:       "Full record of " + id,
		Description: openlibrary.Text("A desert planet."),
		Subjects:    []string{"Science fiction"},
	}, nil
}

func (stubDetails) Author(context.Context, string) (*openlibrary.Author, error) {
	return nil, errors.New("no author")
}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// neverFire keeps debounced searches pending so tests only see submitted ones.
func neverFire(time.Duration, func()) search.Timer { return idleTimer{} }

type harness struct {
	browser   *Browser
	machine   *search.Machine
	loader    *details.Loader
	favorites *favorites.Store
	fetcher   *stubSearch
}

func newHarness(t *testing.T, initial search.Query) *harness {
	t.Helper()

	fetcher := &stubSearch{numFound: 250, perPage: 100}
	machine := search.New(fetcher, search.WithAfterFunc(neverFire), search.WithQuery(initial))
	t.Cleanup(machine.Close)
	loader := details.NewLoader(stubDetails{})
	t.Cleanup(loader.Close)
	store := favorites.Open(storage.NewMemory())

	b := NewBrowser(Deps{Search: machine, Details: loader, Favorites: store})
	return &harness{browser: b, machine: machine, loader: loader, favorites: store, fetcher: fetcher}
}

func (h *harness) key(t *testing.T, k tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := h.browser.Update(k)
	return cmd
}

// settle waits for in-flight work and feeds the change notifications back in.
func (h *harness) settle() {
	h.machine.Wait()
	h.loader.Wait()
	h.browser.Update(searchChangedMsg{})
	h.browser.Update(detailChangedMsg{})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserTypingUpdatesQuery(t *testing.T) {
	h := newHarness(t, search.Query{})

	h.key(t, runes("d"))
	h.key(t, runes("u"))

	assert.Equal(t, "du", h.browser.input.Value())
	assert.Equal(t, "du", h.machine.Snapshot().Query.Text)
	assert.Empty(t, h.fetcher.recorded())
}

func TestBrowserEnterSubmitsAndFocusesList(t *testing.T) {
	h := newHarness(t, search.Query{})

	for _, r := range "dune" {
		h.key(t, runes(string(r)))
	}
	h.key(t, tea.KeyMsg{Type: tea.KeyEnter})
	h.settle()

	calls := h.fetcher.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, searchCall{text: "dune", page: 1, typ: openlibrary.SearchTitle}, calls[0])
	assert.Equal(t, focusList, h.browser.focus)
	assert.Len(t, h.browser.list.Items(), 100)
	assert.Contains(t, h.browser.View(), "Page 1 of 3 | 250 results")
}

func TestBrowserInitialQuerySubmits(t *testing.T) {
	h := newHarness(t, search.Query{Text: "fantasy", Type: openlibrary.SearchSubject})
	h.settle()

	calls := h.fetcher.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, openlibrary.SearchSubject, calls[0].typ)
	assert.Equal(t, "fantasy", h.browser.input.Value())
	assert.Equal(t, focusList, h.browser.focus)
}

func TestBrowserTabCyclesType(t *testing.T) {
	h := newHarness(t, search.Query{})

	h.key(t, tea.KeyMsg{Type: tea.KeyTab})
	h.settle()
	assert.Equal(t, openlibrary.SearchAuthor, h.machine.Snapshot().Query.Type)

	h.key(t, tea.KeyMsg{Type: tea.KeyTab})
	h.settle()
	assert.Equal(t, openlibrary.SearchSubject, h.machine.Snapshot().Query.Type)

	calls := h.fetcher.recorded()
	require.NotEmpty(t, calls)
	assert.Equal(t, searchCall{text: "", page: 1, typ: openlibrary.SearchSubject}, calls[len(calls)-1])
	assert.Empty(t, h.browser.list.Items())
}

func TestBrowserNextPage(t *testing.T) {
	h := newHarness(t, search.Query{Text: "dune"})
	h.settle()

	h.key(t, runes("n"))
	h.settle()

	calls := h.fetcher.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, 2, calls[1].page)
	assert.Equal(t, 2, h.machine.Snapshot().Page)
	assert.Equal(t, "dune 101", h.browser.list.Items()[0].(bookItem).Book.Title)
}

func TestBrowserLoadMoreAppends(t *testing.T) {
	h := newHarness(t, search.Query{Text: "dune"})
	h.settle()

	h.key(t, runes("m"))
	h.settle()

	assert.Len(t, h.browser.list.Items(), 200)
}

func TestBrowserFavoriteToggleAndView(t *testing.T) {
	h := newHarness(t, search.Query{Text: "dune"})
	h.settle()

	h.key(t, runes("f"))
	require.Equal(t, 1, h.favorites.Len())
	assert.Equal(t, "/works/OL1W", h.favorites.Items()[0].Key)
	assert.Contains(t, h.browser.status, "Added to favorites")
	assert.True(t, h.browser.list.Items()[0].(bookItem).favorite)

	h.key(t, runes("v"))
	assert.Equal(t, viewFavorites, h.browser.mode)
	assert.Len(t, h.browser.list.Items(), 1)
	assert.Contains(t, h.browser.View(), "Favorites (1)")

	h.key(t, runes("f"))
	assert.Equal(t, 0, h.favorites.Len())
	assert.Empty(t, h.browser.list.Items())
}

func TestBrowserPagerReturnsAfterStatusMessage(t *testing.T) {
	h := newHarness(t, search.Query{Text: "dune"})
	h.settle()
	assert.Contains(t, h.browser.statusLine(), "Page 1 of 3 | 250 results")

	h.key(t, runes("f"))
	assert.Contains(t, h.browser.statusLine(), "Added to favorites: dune 1")

	h.key(t, runes("n"))
	h.settle()
	assert.Equal(t, 2, h.machine.Snapshot().Page)
	assert.Contains(t, h.browser.statusLine(), "Page 2 of 3 | 250 results")
	assert.NotContains(t, h.browser.statusLine(), "Added to favorites")
}

func TestBrowserDetailsModal(t *testing.T) {
	h := newHarness(t, search.Query{Text: "dune"})
	h.settle()

	h.key(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, h.browser.showDetails)
	h.settle()

	view := h.browser.View()
	assert.Contains(t, view, "Full record of OL1W")
	assert.Contains(t, view, "A desert planet.")

	h.key(t, runes("f"))
	assert.Equal(t, 1, h.favorites.Len())

	h.key(t, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, h.browser.showDetails)
	_, open := h.loader.Snapshot()
	assert.False(t, open)
}

func TestBrowserClearResets(t *testing.T) {
	h := newHarness(t, search.Query{Text: "dune"})
	h.settle()

	h.key(t, runes("x"))
	h.settle()

	snap := h.machine.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, "", snap.Query.Text)
	assert.Equal(t, "", h.browser.input.Value())
	assert.Equal(t, focusInput, h.browser.focus)
	assert.Empty(t, h.browser.list.Items())
}

func TestBrowserShowsSearchError(t *testing.T) {
	h := newHarness(t, search.Query{})
	h.fetcher.err = errors.New("boom")

	h.key(t, runes("x"))
	h.key(t, tea.KeyMsg{Type: tea.KeyEnter})
	h.settle()

	assert.NotEmpty(t, h.machine.Snapshot().Err)
	assert.Contains(t, h.browser.View(), h.machine.Snapshot().Err)
}

func TestBrowserQuitKeys(t *testing.T) {
	h := newHarness(t, search.Query{})

	cmd := h.key(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	h.key(t, tea.KeyMsg{Type: tea.KeyDown})
	cmd = h.key(t, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRunUsesProgramRunner(t *testing.T) {
	h := newHarness(t, search.Query{})

	original := runProgram
	t.Cleanup(func() { runProgram = original })

	var got tea.Model
	runProgram = func(m tea.Model) (tea.Model, error) {
		got = m
		return m, nil
	}

	require.NoError(t, Run(h.browser))
	assert.Same(t, h.browser, got)
}

func TestPageInfo(t *testing.T) {
	books := []openlibrary.Book{{Key: "/works/OL1W"}}
	tests := []struct {
		name string
		snap search.Snapshot
		want string
	}{
		{name: "idle", snap: search.Snapshot{}, want: ""},
		{name: "no results", snap: search.Snapshot{Query: search.Query{Text: "zzz"}}, want: "No books found"},
		{name: "known pages", snap: search.Snapshot{Page: 2, Items: books, TotalCount: 250, PageSize: 100}, want: "Page 2 of 3 | 250 results"},
		{name: "unknown pages", snap: search.Snapshot{Page: 1, Items: books}, want: "1 results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageInfo(tt.snap))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "Lorem i...", truncate("Lorem ipsum dolor", 10))
	assert.Equal(t, "Ünï", truncate("Ünïcode", 3))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 72, clamp(72, 0, 40))
	assert.Equal(t, 60, clamp(72, 60, 40))
	assert.Equal(t, 40, clamp(72, 10, 40))
}
