package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	olerrors "github.com/lepinkainen/bookfinder/internal/errors"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

// DefaultDebounce is the quiet period after the last text change before a search runs.
const DefaultDebounce = 500 * time.Millisecond

// Fetcher runs one upstream search request.
type Fetcher interface {
	Search(ctx context.Context, text string, page int, typ openlibrary.SearchType) (*openlibrary.Response, error)
}

// Timer is a pending debounce timer.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func timeAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type fetchMode int

const (
	replaceMode fetchMode = iota
	appendMode
)

// Machine is the search/pagination state machine. All mutations go through its
// transition methods; fetches run on their own goroutines and only commit while
// their sequence number is still the latest one issued.
type Machine struct {
	fetcher   Fetcher
	debounce  time.Duration
	afterFunc AfterFunc
	logger    *slog.Logger

	mu       sync.Mutex
	query    Query
	lastText string
	page     int
	items    []openlibrary.Book
	total    int
	pageSize int
	loading  bool
	err      string

	timer    Timer
	timerGen uint64
	seq      uint64
	cancel   context.CancelFunc
	root     context.Context
	stop     context.CancelFunc
	closed   bool

	wg      sync.WaitGroup
	changes chan struct{}
}

// Option configures a Machine.
type Option func(*Machine)

// WithDebounce sets the debounce delay for text changes.
func WithDebounce(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.debounce = d
		}
	}
}

// WithAfterFunc replaces the timer implementation used for debouncing.
func WithAfterFunc(f AfterFunc) Option {
	return func(m *Machine) {
		if f != nil {
			m.afterFunc = f
		}
	}
}

// WithQuery sets the initial query without triggering a fetch.
func WithQuery(q Query) Option {
	return func(m *Machine) {
		m.query = q
		if m.query.Type == "" {
			m.query.Type = openlibrary.SearchTitle
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Machine that searches through fetcher.
func New(fetcher Fetcher, opts ...Option) *Machine {
	root, stop := context.WithCancel(context.Background())
	m := &Machine{
		fetcher:   fetcher,
		debounce:  DefaultDebounce,
		afterFunc: timeAfterFunc,
		logger:    slog.Default(),
		query:     Query{Type: openlibrary.SearchTitle},
		page:      1,
		items:     []openlibrary.Book{},
		root:      root,
		stop:      stop,
		changes:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Changes delivers a signal after every state change. Signals coalesce; read
// Snapshot for the current state.
func (m *Machine) Changes() <-chan struct{} {
	return m.changes
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]openlibrary.Book, len(m.items))
	copy(items, m.items)
	return Snapshot{
		Query:      m.query,
		Page:       m.page,
		Items:      items,
		TotalCount: m.total,
		PageSize:   m.pageSize,
		Loading:    m.loading,
		Err:        m.err,
	}
}

// SetText records new query text. Non-empty text (re)starts the debounce timer;
// empty text clears the results immediately without fetching.
func (m *Machine) SetText(text string) {
	m.mu.Lock()
	if m.closed || text == m.query.Text {
		m.mu.Unlock()
		return
	}
	m.query.Text = text
	m.stopTimerLocked()

	if text == "" {
		m.clearLocked()
		m.mu.Unlock()
		m.notify()
		return
	}

	m.timerGen++
	gen := m.timerGen
	m.timer = m.afterFunc(m.debounce, func() { m.fireDebounce(gen) })
	m.mu.Unlock()
	m.notify()
}

// SetType switches the search type and refetches page 1 immediately.
func (m *Machine) SetType(typ openlibrary.SearchType) {
	m.mu.Lock()
	if m.closed || typ == m.query.Type {
		m.mu.Unlock()
		return
	}
	m.query.Type = typ
	m.stopTimerLocked()
	m.page = 1
	m.startFetchLocked(replaceMode, m.query.Text, 1, typ)
	m.mu.Unlock()
	m.notify()
}

// Submit runs the pending query now instead of waiting for the debounce timer.
func (m *Machine) Submit() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stopTimerLocked()
	if m.query.Text == "" {
		m.clearLocked()
	} else {
		m.page = 1
		m.startFetchLocked(replaceMode, m.query.Text, 1, m.query.Type)
	}
	m.mu.Unlock()
	m.notify()
}

// GotoPage replaces the current items with page p. Pages below 1 are ignored.
func (m *Machine) GotoPage(p int) {
	m.mu.Lock()
	if m.closed || p < 1 {
		m.mu.Unlock()
		return
	}
	m.gotoLocked(p)
	m.mu.Unlock()
	m.notify()
}

// NextPage is GotoPage(current + 1).
func (m *Machine) NextPage() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.gotoLocked(m.page + 1)
	m.mu.Unlock()
	m.notify()
}

// PrevPage is GotoPage(current - 1); ignored on the first page.
func (m *Machine) PrevPage() {
	m.mu.Lock()
	if m.closed || m.page <= 1 {
		m.mu.Unlock()
		return
	}
	m.gotoLocked(m.page - 1)
	m.mu.Unlock()
	m.notify()
}

// LoadMore fetches the next page and appends it to the current items. It does
// nothing when the last page, per known paging metadata, is already shown.
// It returns false when no fetch was issued.
func (m *Machine) LoadMore() bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	if m.pageSize > 0 {
		maxPage := (m.total + m.pageSize - 1) / m.pageSize
		if m.page >= maxPage {
			m.mu.Unlock()
			return false
		}
	}
	m.startFetchLocked(appendMode, m.effectiveTextLocked(), m.page+1, m.query.Type)
	m.mu.Unlock()
	m.notify()
	return true
}

// Reset clears the query text, items, paging and error. Favorites are not touched.
func (m *Machine) Reset() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stopTimerLocked()
	m.query.Text = ""
	m.lastText = ""
	m.clearLocked()
	m.mu.Unlock()
	m.notify()
}

// Wait blocks until every fetch started so far has finished.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Close stops the pending timer, cancels the in-flight fetch and waits for it.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopTimerLocked()
	m.stop()
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Machine) fireDebounce(gen uint64) {
	m.mu.Lock()
	if m.closed || gen != m.timerGen || m.timer == nil {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.page = 1
	m.startFetchLocked(replaceMode, m.query.Text, 1, m.query.Type)
	m.mu.Unlock()
	m.notify()
}

func (m *Machine) gotoLocked(p int) {
	m.page = p
	m.startFetchLocked(replaceMode, m.effectiveTextLocked(), p, m.query.Type)
}

// effectiveTextLocked falls back to the last fetched text when the box is empty.
func (m *Machine) effectiveTextLocked() string {
	if m.query.Text != "" {
		return m.query.Text
	}
	return m.lastText
}

func (m *Machine) clearLocked() {
	m.supersedeLocked()
	m.items = []openlibrary.Book{}
	m.err = ""
	m.page = 1
	m.total = 0
	m.pageSize = 0
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.timerGen++
}

// supersedeLocked invalidates the in-flight fetch, if any.
func (m *Machine) supersedeLocked() {
	m.seq++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
}

func (m *Machine) startFetchLocked(mode fetchMode, text string, page int, typ openlibrary.SearchType) {
	m.supersedeLocked()
	seq := m.seq

	ctx, cancel := context.WithCancel(m.root)
	m.cancel = cancel
	m.loading = true
	if mode == replaceMode {
		m.err = ""
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		m.logger.Debug("Searching", "text", text, "type", typ, "page", page, "append", mode == appendMode)
		resp, err := m.fetcher.Search(ctx, text, page, typ)
		m.commit(seq, mode, text, page, typ, resp, err)
	}()
}

func (m *Machine) commit(seq uint64, mode fetchMode, text string, page int, typ openlibrary.SearchType, resp *openlibrary.Response, err error) {
	m.mu.Lock()
	if m.closed || seq != m.seq {
		m.mu.Unlock()
		m.logger.Debug("Discarding superseded search result", "text", text, "page", page)
		return
	}
	m.cancel = nil
	m.loading = false

	if err != nil {
		m.err = olerrors.Message(err)
		m.mu.Unlock()
		m.logger.Warn("Search failed", "text", text, "type", typ, "page", page, "error", err)
		m.notify()
		return
	}

	result := Normalize(resp, typ)
	switch mode {
	case appendMode:
		m.items = append(m.items, result.Items...)
		m.page = page
	default:
		m.items = result.Items
	}
	m.total = result.TotalCount
	m.pageSize = result.PageSize
	m.lastText = text
	m.mu.Unlock()
	m.notify()
}

func (m *Machine) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}
