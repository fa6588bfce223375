package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	olerrors "github.com/lepinkainen/bookfinder/internal/errors"
)

// SubjectPageSize is the fixed page size requested from the subjects endpoint.
const SubjectPageSize = 50

// SearchType selects which upstream query form a search uses.
type SearchType string

const (
	// SearchTitle filters search.json by title. It is the default.
	SearchTitle SearchType = "title"
	// SearchAuthor filters search.json by author.
	SearchAuthor SearchType = "author"
	// SearchSubject lists works from the subjects endpoint.
	SearchSubject SearchType = "subject"
)

// SearchTypes lists the selectable search types in display order.
var SearchTypes = []SearchType{SearchTitle, SearchAuthor, SearchSubject}

// ParseSearchType converts user input into a SearchType. The empty string maps to SearchTitle.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(strings.ToLower(strings.TrimSpace(s))) {
	case "", SearchTitle:
		return SearchTitle, nil
	case SearchAuthor:
		return SearchAuthor, nil
	case SearchSubject:
		return SearchSubject, nil
	default:
		return "", fmt.Errorf("invalid search type %q (valid: title, author, subject)", s)
	}
}

// Next returns the following search type, wrapping around.
func (t SearchType) Next() SearchType {
	for i, st := range SearchTypes {
		if st == t {
			return SearchTypes[(i+1)%len(SearchTypes)]
		}
	}
	return SearchTitle
}

// SubjectOffset converts a 1-based page number into the subjects endpoint offset.
func SubjectOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * SubjectPageSize
}

// SearchURL builds the request URL for a search of the given type.
func SearchURL(base, text string, page int, typ SearchType) string {
	if page < 1 {
		page = 1
	}
	base = strings.TrimSuffix(base, "/")
	q := norm.NFC.String(text)

	switch typ {
	case SearchAuthor:
		return fmt.Sprintf("%s/search.json?author=%s&page=%d", base, url.QueryEscape(q), page)
	case SearchSubject:
		return fmt.Sprintf("%s/subjects/%s.json?limit=%d&offset=%d", base, url.PathEscape(q), SubjectPageSize, SubjectOffset(page))
	default:
		return fmt.Sprintf("%s/search.json?title=%s&page=%d", base, url.QueryEscape(q), page)
	}
}

// Search runs one search request. An empty text returns an empty docs-shaped
// response without a network call.
func (c *Client) Search(ctx context.Context, text string, page int, typ SearchType) (*Response, error) {
	if text == "" {
		return EmptySearchResponse(), nil
	}

	endpoint := SearchURL(c.baseURL, text, page, typ)
	body, err := c.fetch(ctx, "search", endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse(body)
	if err != nil {
		return nil, olerrors.NewDecodeError("search", err)
	}
	return resp, nil
}

// Subject fetches the subject summary without paging parameters.
func (c *Client) Subject(ctx context.Context, name string) (*SubjectInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}
	endpoint := fmt.Sprintf("%s/subjects/%s.json", c.baseURL, url.PathEscape(norm.NFC.String(name)))

	var info SubjectInfo
	if err := c.getJSON(ctx, "subject", endpoint, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
