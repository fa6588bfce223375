// Package search implements the one-shot search command.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lepinkainen/bookfinder/internal/cmdutil"
	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/lepinkainen/bookfinder/internal/favorites"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	booksearch "github.com/lepinkainen/bookfinder/internal/search"
)

// SearchCmd runs a single search and prints the results.
type SearchCmd struct {
	Query string `arg:"" help:"Search text (a subject name for --type subject)"`
	Type  string `short:"t" help:"Search type: title, author or subject (defaults to search.type)"`
	Page  int    `short:"p" help:"Page to show" default:"1"`
	More  int    `short:"m" help:"Additional pages to load and append" default:"0"`
	JSON  bool   `help:"Print results as JSON"`
	Info  bool   `help:"Print the subject summary before the works (subject searches only)"`
}

// Client is the part of the Open Library client the command uses.
type Client interface {
	booksearch.Fetcher
	Subject(ctx context.Context, name string) (*openlibrary.SubjectInfo, error)
}

var (
	NewClient           = func() Client { return cmdutil.NewClient() }
	Stdout    io.Writer = os.Stdout
)

// Result is the JSON form of a search.
type Result struct {
	Query      string            `json:"query"`
	Type       string            `json:"type"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages,omitempty"`
	TotalCount int               `json:"total_count"`
	Error      string            `json:"error,omitempty"`
	Subject    *SubjectSummary   `json:"subject,omitempty"`
	Items      []favorites.Entry `json:"items"`
}

// SubjectSummary is the JSON form of the subject details.
type SubjectSummary struct {
	Name      string `json:"name"`
	WorkCount int    `json:"work_count"`
}

func (c *SearchCmd) Run() error {
	text := strings.TrimSpace(c.Query)
	if text == "" {
		return fmt.Errorf("search text is required")
	}

	typeName := c.Type
	if typeName == "" {
		typeName = config.SearchType
	}
	typ, err := openlibrary.ParseSearchType(typeName)
	if err != nil {
		return err
	}
	if c.More < 0 {
		return fmt.Errorf("--more must not be negative")
	}

	client := NewClient()
	result := Result{Query: text, Type: string(typ)}

	if c.Info && typ == openlibrary.SearchSubject {
		info, err := client.Subject(context.Background(), text)
		if err != nil {
			return fmt.Errorf("failed to fetch subject: %w", err)
		}
		result.Subject = &SubjectSummary{Name: info.Name, WorkCount: info.WorkCount}
	}

	snap := run(client, booksearch.Query{Text: text, Type: typ}, c.Page, c.More)
	if snap.Err != "" && len(snap.Items) == 0 {
		return errors.New(snap.Err)
	}
	if snap.Err != "" {
		slog.Warn("Loading more results failed", "error", snap.Err)
	}

	result.Page = snap.Page
	result.TotalCount = snap.TotalCount
	result.Error = snap.Err
	if pages, ok := snap.TotalPages(); ok {
		result.TotalPages = pages
	}
	result.Items = favorites.Entries(snap.Items)

	if c.JSON {
		return cmdutil.WriteJSON(Stdout, result)
	}
	return writeText(Stdout, result)
}

// run drives a state machine through one search plus more load-more steps and
// returns the settled state.
func run(f booksearch.Fetcher, q booksearch.Query, page, more int) booksearch.Snapshot {
	m := booksearch.New(f, booksearch.WithQuery(q), booksearch.WithDebounce(0))
	defer m.Close()

	if page > 1 {
		m.GotoPage(page)
	} else {
		m.Submit()
	}
	m.Wait()

	for i := 0; i < more; i++ {
		if m.Snapshot().Err != "" || !m.LoadMore() {
			break
		}
		m.Wait()
	}
	return m.Snapshot()
}

func writeText(w io.Writer, r Result) error {
	var b strings.Builder
	if r.Subject != nil {
		fmt.Fprintf(&b, "Subject: %s (%d works)\n\n", r.Subject.Name, r.Subject.WorkCount)
	}

	if len(r.Items) == 0 {
		b.WriteString("No books found\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if r.TotalPages > 0 {
		fmt.Fprintf(&b, "Page %d of %d | %d results\n", r.Page, r.TotalPages, r.TotalCount)
	} else {
		fmt.Fprintf(&b, "%d results\n", len(r.Items))
	}
	for i, e := range r.Items {
		fmt.Fprintf(&b, "%3d. %s", i+1, e.Title)
		if e.Year > 0 {
			fmt.Fprintf(&b, " (%d)", e.Year)
		}
		if len(e.Authors) > 0 {
			b.WriteString(" by " + strings.Join(e.Authors, ", "))
		}
		if e.Key != "" {
			b.WriteString(" [" + e.Key + "]")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
