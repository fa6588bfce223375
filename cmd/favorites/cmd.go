// Package favorites implements the favorites commands.
package favorites

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lepinkainen/bookfinder/internal/cmdutil"
	workdetails "github.com/lepinkainen/bookfinder/internal/details"
	favstore "github.com/lepinkainen/bookfinder/internal/favorites"
	"github.com/lepinkainen/bookfinder/internal/fileutil"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/storage"
)

// FavoritesCmd groups the favorites subcommands.
type FavoritesCmd struct {
	List   ListCmd   `cmd:"" default:"1" help:"List saved favorites"`
	Toggle ToggleCmd `cmd:"" help:"Add or remove a work from favorites"`
	Export ExportCmd `cmd:"" help:"Export favorites as JSON or YAML"`
	Clear  ClearCmd  `cmd:"" help:"Remove all favorites"`
}

// ListCmd prints the favorites, most recent first.
type ListCmd struct {
	JSON bool `help:"Print favorites as JSON"`
}

// ToggleCmd adds a work to favorites, or removes it when already saved.
type ToggleCmd struct {
	WorkID string `arg:"" help:"Work identifier, e.g. OL45804W"`
}

// ExportCmd writes the favorites to a file or stdout.
type ExportCmd struct {
	Format string `short:"f" help:"Export format: json or yaml" default:"json"`
	Output string `short:"o" help:"Output file (default stdout)"`
	Force  bool   `help:"Overwrite an existing output file"`
}

// ClearCmd deletes the stored favorites.
type ClearCmd struct{}

var (
	OpenStorage           = cmdutil.OpenStorage
	NewClient             = func() workdetails.Fetcher { return cmdutil.NewClient() }
	Stdout      io.Writer = os.Stdout
)

func withStore(fn func(db *storage.DB, store *favstore.Store) error) error {
	db, err := OpenStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(db, favstore.Open(db))
}

func (c *ListCmd) Run() error {
	return withStore(func(_ *storage.DB, store *favstore.Store) error {
		items := store.Items()
		if c.JSON {
			return cmdutil.WriteJSON(Stdout, favstore.Entries(items))
		}
		if len(items) == 0 {
			_, err := fmt.Fprintln(Stdout, "No favorites yet")
			return err
		}

		var b strings.Builder
		for i, e := range favstore.Entries(items) {
			fmt.Fprintf(&b, "%3d. %s", i+1, e.Title)
			if len(e.Authors) > 0 {
				b.WriteString(" by " + strings.Join(e.Authors, ", "))
			}
			b.WriteString(" [" + e.Key + "]\n")
		}
		_, err := io.WriteString(Stdout, b.String())
		return err
	})
}

func (c *ToggleCmd) Run() error {
	raw := strings.TrimSpace(c.WorkID)
	id := openlibrary.Book{Key: raw}.WorkID()
	if id == "" {
		return fmt.Errorf("work id is required")
	}

	return withStore(func(_ *storage.DB, store *favstore.Store) error {
		book, saved := find(store, raw, "/works/"+id, "/books/"+id, id)
		if !saved {
			rec := workdetails.Load(context.Background(), NewClient(), id)
			if rec.Err != "" {
				return errors.New(rec.Err)
			}
			book = BookFromRecord(rec)
		}

		added, err := store.Toggle(book)
		if err != nil {
			return err
		}
		verb := "Removed from"
		if added {
			verb = "Added to"
		}
		_, err = fmt.Fprintf(Stdout, "%s favorites: %s\n", verb, book.DisplayTitle())
		return err
	})
}

func (c *ExportCmd) Run() error {
	format, err := favstore.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	return withStore(func(_ *storage.DB, store *favstore.Store) error {
		if c.Output == "" || c.Output == "-" {
			return favstore.Export(Stdout, store.Items(), format)
		}

		var buf bytes.Buffer
		if err := favstore.Export(&buf, store.Items(), format); err != nil {
			return err
		}
		written, err := fileutil.WriteFileWithOverwrite(c.Output, buf.Bytes(), 0o644, c.Force)
		if err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		if !written {
			return fmt.Errorf("%s already exists (use --force to overwrite)", c.Output)
		}
		_, err = fmt.Fprintf(Stdout, "Exported %d favorites to %s\n", store.Len(), c.Output)
		return err
	})
}

func (c *ClearCmd) Run() error {
	return withStore(func(db *storage.DB, store *favstore.Store) error {
		n := store.Len()
		if _, err := db.Delete(favstore.StorageKey); err != nil {
			return fmt.Errorf("failed to clear favorites: %w", err)
		}
		_, err := fmt.Fprintf(Stdout, "Removed %d favorites\n", n)
		return err
	})
}

// find returns the first favorite matching any of the candidate identities.
// Edition-keyed and id-keyed favorites match the bare argument.
func find(store *favstore.Store, identities ...string) (openlibrary.Book, bool) {
	for _, identity := range identities {
		if b, ok := store.Find(identity); ok {
			return b, true
		}
	}
	return openlibrary.Book{}, false
}

// BookFromRecord builds the list item saved for a work loaded by id.
func BookFromRecord(rec workdetails.Record) openlibrary.Book {
	w := rec.Work
	if w == nil {
		return openlibrary.Book{}
	}

	b := openlibrary.Book{
		Key:         w.Key,
		Title:       w.Title,
		Subtitle:    w.Subtitle,
		CoverI:      w.Cover(),
		Description: w.Description,
	}
	if b.Key == "" {
		b.Key = "/works/" + rec.WorkID
	}
	for _, a := range workdetails.AuthorNames(w, rec.Author) {
		b.AuthorName = append(b.AuthorName, a.Name)
	}
	return b
}
