package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Work fetches one work record. workID may be bare ("OL45883W") or a key ("/works/OL45883W").
func (c *Client) Work(ctx context.Context, workID string) (*Work, error) {
	id := strings.TrimPrefix(workID, "/works/")
	if id == "" {
		return nil, fmt.Errorf("work id is required")
	}
	endpoint := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(id))

	var work Work
	if err := c.getJSON(ctx, "work", endpoint, &work); err != nil {
		return nil, err
	}
	return &work, nil
}

// Author fetches one author record. authorID may be bare or an "/authors/" key.
func (c *Client) Author(ctx context.Context, authorID string) (*Author, error) {
	id := strings.TrimPrefix(authorID, "/authors/")
	if id == "" {
		return nil, fmt.Errorf("author id is required")
	}
	endpoint := fmt.Sprintf("%s/authors/%s.json", c.baseURL, url.PathEscape(id))

	var author Author
	if err := c.getJSON(ctx, "author", endpoint, &author); err != nil {
		return nil, err
	}
	return &author, nil
}
