// Package search owns the query, debounce and paging state of a book search and
// reconciles the two upstream list envelopes into one paging model.
package search

import (
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

// Page is one normalized page of results.
// PageSize is the number of items actually returned, never a configured constant,
// because the search and subject endpoints page differently.
type Page struct {
	Items      []openlibrary.Book
	TotalCount int
	PageSize   int
}

// Normalize maps any upstream list response onto a Page. It never fails: a nil or
// unrecognised response yields an empty page. Subject queries always arrive as
// ShapeSubject, so the shape alone decides the mapping.
func Normalize(resp *openlibrary.Response, _ openlibrary.SearchType) Page {
	if resp == nil {
		return emptyPage()
	}

	switch resp.Shape {
	case openlibrary.ShapeSearch:
		if resp.Search == nil {
			return emptyPage()
		}
		items := resp.Search.Docs
		return withItems(Page{Items: items, TotalCount: nonNegative(resp.Search.NumFound), PageSize: len(items)})
	case openlibrary.ShapeSubject:
		if resp.Subject == nil {
			return emptyPage()
		}
		items := resp.Subject.Works
		return withItems(Page{Items: items, TotalCount: nonNegative(resp.Subject.WorkCount), PageSize: len(items)})
	default:
		return emptyPage()
	}
}

func emptyPage() Page {
	return Page{Items: []openlibrary.Book{}}
}

func withItems(p Page) Page {
	if p.Items == nil {
		p.Items = []openlibrary.Book{}
	}
	return p
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
