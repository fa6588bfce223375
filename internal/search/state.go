package search

import (
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

// Query is the user-entered search text and the selected search type.
type Query struct {
	Text string
	Type openlibrary.SearchType
}

// Snapshot is a consistent copy of the machine state.
type Snapshot struct {
	Query      Query
	Page       int
	Items      []openlibrary.Book
	TotalCount int
	PageSize   int
	Loading    bool
	Err        string
}

// HasMore reports whether pages beyond the current one exist.
func (s Snapshot) HasMore() bool {
	return s.PageSize > 0 && s.Page*s.PageSize < s.TotalCount
}

// TotalPages returns ceil(TotalCount / PageSize). The boolean is false when the
// page size is unknown (zero).
func (s Snapshot) TotalPages() (int, bool) {
	if s.PageSize <= 0 {
		return 0, false
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize, true
}
