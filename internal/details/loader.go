package details

import (
	"context"
	"sync"
)

// Loader owns the single open detail view. Opening a new work supersedes the
// previous load; a superseded load never overwrites the current record.
type Loader struct {
	fetcher Fetcher

	mu      sync.Mutex
	record  *Record
	seq     uint64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	changes chan struct{}
}

// NewLoader creates a Loader reading through f.
func NewLoader(f Fetcher) *Loader {
	return &Loader{
		fetcher: f,
		changes: make(chan struct{}, 1),
	}
}

// Open starts loading workID. The record is set to loading before any request
// is made. An empty id is ignored.
func (l *Loader) Open(workID string) {
	if workID == "" {
		return
	}

	l.mu.Lock()
	l.supersedeLocked()
	seq := l.seq
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.record = &Record{WorkID: workID, Loading: true}
	l.wg.Add(1)
	l.mu.Unlock()
	l.notify()

	go func() {
		defer l.wg.Done()
		defer cancel()

		rec := Load(ctx, l.fetcher, workID)

		l.mu.Lock()
		if seq != l.seq {
			l.mu.Unlock()
			return
		}
		l.cancel = nil
		l.record = &rec
		l.mu.Unlock()
		l.notify()
	}()
}

// Close discards the detail view and any load in flight.
func (l *Loader) Close() {
	l.mu.Lock()
	l.supersedeLocked()
	l.record = nil
	l.mu.Unlock()
	l.notify()
}

// Snapshot returns the current record; ok is false when no view is open.
func (l *Loader) Snapshot() (rec Record, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.record == nil {
		return Record{}, false
	}
	return *l.record, true
}

// Changes signals after every record change. Signals coalesce.
func (l *Loader) Changes() <-chan struct{} {
	return l.changes
}

// Wait blocks until every load started so far has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) supersedeLocked() {
	l.seq++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) notify() {
	select {
	case l.changes <- struct{}{}:
	default:
	}
}
