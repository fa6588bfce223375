// Package details implements the work details command.
package details

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lepinkainen/bookfinder/internal/cmdutil"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	workdetails "github.com/lepinkainen/bookfinder/internal/details"
)

// DetailsCmd prints the extended record of one work.
type DetailsCmd struct {
	WorkID string `arg:"" help:"Work identifier, e.g. OL45804W or /works/OL45804W"`
	JSON   bool   `help:"Print the record as JSON"`
}

var (
	NewClient           = func() workdetails.Fetcher { return cmdutil.NewClient() }
	Stdout    io.Writer = os.Stdout
)

// View is the JSON form of a work record.
type View struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Authors          []string `json:"authors,omitempty"`
	Lifespan         string   `json:"author_lifespan,omitempty"`
	AuthorBio        string   `json:"author_bio,omitempty"`
	FirstPublishDate string   `json:"first_publish_date,omitempty"`
	Description      string   `json:"description,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	CoverURL         string   `json:"cover_url,omitempty"`
	URL              string   `json:"url,omitempty"`
}

const subjectLimit = 12

func (c *DetailsCmd) Run() error {
	id := NormalizeWorkID(c.WorkID)
	if id == "" {
		return fmt.Errorf("work id is required")
	}

	rec := workdetails.Load(context.Background(), NewClient(), id)
	if rec.Err != "" {
		return errors.New(rec.Err)
	}

	view := NewView(rec)
	if c.JSON {
		return cmdutil.WriteJSON(Stdout, view)
	}
	return writeText(Stdout, view)
}

// NormalizeWorkID strips surrounding space and any /works/ or /books/ prefix.
func NormalizeWorkID(id string) string {
	return openlibrary.Book{Key: strings.TrimSpace(id)}.WorkID()
}

// NewView flattens a loaded record.
func NewView(rec workdetails.Record) View {
	w := rec.Work
	if w == nil {
		return View{}
	}

	v := View{
		Key:              w.Key,
		Title:            w.Title,
		Subtitle:         w.Subtitle,
		FirstPublishDate: w.FirstPublishDate,
		Description:      w.Description.String(),
		Subjects:         workdetails.Subjects(w, subjectLimit),
		URL:              w.URL(),
		Lifespan:         rec.Author.Lifespan(),
	}
	for _, a := range workdetails.AuthorNames(w, rec.Author) {
		v.Authors = append(v.Authors, a.Name)
	}
	if rec.Author != nil {
		v.AuthorBio = rec.Author.Bio.String()
	}
	if id := w.Cover(); id > 0 {
		v.CoverURL = openlibrary.CoverURL(id, openlibrary.CoverLarge)
	}
	return v
}

func writeText(w io.Writer, v View) error {
	var b strings.Builder
	b.WriteString(v.Title + "\n")
	if v.Subtitle != "" {
		b.WriteString(v.Subtitle + "\n")
	}
	if len(v.Authors) > 0 {
		b.WriteString("by " + strings.Join(v.Authors, ", "))
		if v.Lifespan != "" {
			b.WriteString(" (" + v.Lifespan + ")")
		}
		b.WriteString("\n")
	}
	if v.FirstPublishDate != "" {
		b.WriteString("First published: " + v.FirstPublishDate + "\n")
	}
	if v.Description != "" {
		b.WriteString("\n" + v.Description + "\n")
	}
	if v.AuthorBio != "" {
		b.WriteString("\nAbout the author:\n" + v.AuthorBio + "\n")
	}
	if len(v.Subjects) > 0 {
		b.WriteString("\nSubjects: " + strings.Join(v.Subjects, ", ") + "\n")
	}
	if v.CoverURL != "" {
		b.WriteString("Cover: " + v.CoverURL + "\n")
	}
	if v.URL != "" {
		b.WriteString("Open Library: " + v.URL + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
