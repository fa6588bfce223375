package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

type fetchReply struct {
	resp *openlibrary.Response
	err  error
}

type fetchCall struct {
	ctx   context.Context
	text  string
	page  int
	typ   openlibrary.SearchType
	reply chan fetchReply
}

func (c *fetchCall) respond(resp *openlibrary.Response) {
	c.reply <- fetchReply{resp: resp}
}

func (c *fetchCall) fail(err error) {
	c.reply <- fetchReply{err: err}
}

// fakeFetcher blocks every search until the test answers it.
type fakeFetcher struct {
	calls chan *fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan *fetchCall, 32)}
}

func (f *fakeFetcher) Search(ctx context.Context, text string, page int, typ openlibrary.SearchType) (*openlibrary.Response, error) {
	c := &fetchCall{ctx: ctx, text: text, page: page, typ: typ, reply: make(chan fetchReply, 1)}
	f.calls <- c
	r := <-c.reply
	return r.resp, r.err
}

func (f *fakeFetcher) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a search request")
		return nil
	}
}

func (f *fakeFetcher) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected search for %q page %d", c.text, c.page)
	case <-time.After(50 * time.Millisecond):
	}
}

type manualTimer struct {
	clock   *manualClock
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualClock hands out timers that only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) active() []*manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

func (c *manualClock) last() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

// fire runs the single pending timer.
func (c *manualClock) fire(t *testing.T) {
	t.Helper()
	active := c.active()
	if len(active) != 1 {
		t.Fatalf("expected exactly one pending timer, got %d", len(active))
	}
	c.mu.Lock()
	active[0].fired = true
	c.mu.Unlock()
	active[0].f()
}

func newTestMachine(t *testing.T, opts ...Option) (*Machine, *fakeFetcher, *manualClock) {
	t.Helper()
	fetcher := newFakeFetcher()
	clock := &manualClock{}
	opts = append([]Option{WithAfterFunc(clock.AfterFunc)}, opts...)
	m := New(fetcher, opts...)
	t.Cleanup(m.Close)
	return m, fetcher, clock
}

func makeBooks(prefix string, n int) []openlibrary.Book {
	books := make([]openlibrary.Book, n)
	for i := range books {
		books[i] = openlibrary.Book{
			Key:   fmt.Sprintf("/works/OL%s%dW", prefix, i),
			Title: fmt.Sprintf("%s %d", prefix, i),
		}
	}
	return books
}

func searchResponse(numFound int, titles ...string) *openlibrary.Response {
	docs := make([]openlibrary.Book, len(titles))
	for i, title := range titles {
		docs[i] = openlibrary.Book{Key: fmt.Sprintf("/works/OL%dW", i+1), Title: title}
	}
	return &openlibrary.Response{
		Shape:  openlibrary.ShapeSearch,
		Search: &openlibrary.SearchResult{Docs: docs, NumFound: numFound},
	}
}

func pageResponse(numFound int, books []openlibrary.Book) *openlibrary.Response {
	return &openlibrary.Response{
		Shape:  openlibrary.ShapeSearch,
		Search: &openlibrary.SearchResult{Docs: books, NumFound: numFound},
	}
}

func titles(books []openlibrary.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
