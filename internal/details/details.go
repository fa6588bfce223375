// Package details loads the extended record shown when a work is opened.
package details

import (
	"context"
	"log/slog"

	olerrors "github.com/lepinkainen/bookfinder/internal/errors"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

// Fetcher reads work and author records.
type Fetcher interface {
	Work(ctx context.Context, workID string) (*openlibrary.Work, error)
	Author(ctx context.Context, authorID string) (*openlibrary.Author, error)
}

// Record is the state of one detail view. Author may be nil after a successful
// load; Err is set only when the work itself could not be fetched.
type Record struct {
	WorkID  string
	Loading bool
	Work    *openlibrary.Work
	Author  *openlibrary.Author
	Err     string
}

// Settled reports whether the load has finished, successfully or not.
func (r Record) Settled() bool {
	return !r.Loading && (r.Work != nil || r.Err != "")
}

// Load fetches the work and, best-effort, its first author.
func Load(ctx context.Context, f Fetcher, workID string) Record {
	work, err := f.Work(ctx, workID)
	if err != nil {
		slog.Warn("Failed to load work", "work", workID, "error", err)
		return Record{WorkID: workID, Err: olerrors.Message(err)}
	}

	rec := Record{WorkID: workID, Work: work}
	if authorID := work.FirstAuthorID(); authorID != "" {
		author, err := f.Author(ctx, authorID)
		if err != nil {
			slog.Debug("Author lookup failed, continuing without it", "work", workID, "author", authorID, "error", err)
		} else {
			rec.Author = author
		}
	}
	return rec
}

// AuthorName is one author line in the detail view.
type AuthorName struct {
	Name string
	Key  string
}

// AuthorNames lists the authors to display: the fetched author record first,
// then the names embedded in the work under either {name} or {author:{name}}.
// Entries are deduplicated by name and key.
func AuthorNames(work *openlibrary.Work, author *openlibrary.Author) []AuthorName {
	if work == nil {
		return nil
	}

	var names []AuthorName
	seen := make(map[string]struct{})
	add := func(name, key string) {
		if name == "" {
			return
		}
		id := name + "::" + key
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		names = append(names, AuthorName{Name: name, Key: key})
	}

	if author != nil {
		add(author.Name, author.Key)
	}
	for _, entry := range work.Authors {
		switch {
		case entry.Name != "":
			add(entry.Name, entry.Key)
		case entry.Author != nil:
			add(entry.Author.Name, entry.Author.Key)
		}
	}
	return names
}

// Subjects returns up to limit subjects of the work.
func Subjects(work *openlibrary.Work, limit int) []string {
	if work == nil {
		return nil
	}
	if limit <= 0 || len(work.Subjects) <= limit {
		return work.Subjects
	}
	return work.Subjects[:limit]
}
