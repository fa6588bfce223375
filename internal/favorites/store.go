// Package favorites keeps the user's saved books, persisted as one JSON value in
// local storage.
package favorites

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

// StorageKey is the local storage key holding the favorites list.
const StorageKey = "bf:favorites"

// Storage is the key/value persistence the store reads and writes.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store is an ordered set of books keyed by Book.Identity. The most recently
// added favorite comes first.
type Store struct {
	storage Storage
	key     string
	logger  *slog.Logger

	mu    sync.RWMutex
	items []openlibrary.Book
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open creates a Store and loads the persisted favorites.
func Open(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     StorageKey,
		logger:  slog.Default(),
		items:   []openlibrary.Book{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load replaces the in-memory set with the persisted one. Missing or malformed
// data yields an empty set.
func (s *Store) Load() {
	items := s.read()

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *Store) read() []openlibrary.Book {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Debug("Failed to read favorites, starting empty", "key", s.key, "error", err)
		return []openlibrary.Book{}
	}
	if !ok || raw == "" {
		return []openlibrary.Book{}
	}

	var items []openlibrary.Book
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Debug("Ignoring malformed favorites", "key", s.key, "error", err)
		return []openlibrary.Book{}
	}
	if items == nil {
		items = []openlibrary.Book{}
	}
	return items
}

// Toggle removes b if a favorite with the same identity exists, otherwise adds
// it to the front. The whole list is persisted after every toggle. A write
// failure is returned but the in-memory change is kept.
func (s *Store) Toggle(b openlibrary.Book) (added bool, err error) {
	s.mu.Lock()
	id := b.Identity()
	kept := make([]openlibrary.Book, 0, len(s.items)+1)
	for _, item := range s.items {
		if item.Identity() == id {
			continue
		}
		kept = append(kept, item)
	}

	added = len(kept) == len(s.items)
	if added {
		kept = append([]openlibrary.Book{b}, kept...)
	}
	s.items = kept
	err = s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Failed to save favorites", "key", s.key, "error", err)
	}
	return added, err
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.storage.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

// IsFavorite reports whether a book with b's identity is saved.
func (s *Store) IsFavorite(b openlibrary.Book) bool {
	_, ok := s.Find(b.Identity())
	return ok
}

// Find returns the saved favorite whose Book.Identity equals identity.
func (s *Store) Find(identity string) (openlibrary.Book, bool) {
	if identity == "" {
		return openlibrary.Book{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Identity() == identity {
			return item, true
		}
	}
	return openlibrary.Book{}, false
}

// Items returns a copy of the favorites, most recent first.
func (s *Store) Items() []openlibrary.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]openlibrary.Book, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
