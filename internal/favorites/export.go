package favorites

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an export format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid export format %q (valid: json, yaml)", s)
	}
}

// Entry is the exported form of one favorite.
type Entry struct {
	Key      string   `json:"key" yaml:"key"`
	Title    string   `json:"title" yaml:"title"`
	Authors  []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year     int      `json:"year,omitempty" yaml:"year,omitempty"`
	CoverURL string   `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Entries converts books to export entries, preserving order.
func Entries(books []openlibrary.Book) []Entry {
	entries := make([]Entry, 0, len(books))
	for _, b := range books {
		e := Entry{
			Key:     b.Identity(),
			Title:   b.DisplayTitle(),
			Authors: b.AuthorNames(),
			Year:    b.Year(),
		}
		if id := b.Cover(); id > 0 {
			e.CoverURL = openlibrary.CoverURL(id, openlibrary.CoverMedium)
		}
		if strings.HasPrefix(b.Key, "/") {
			e.URL = openlibrary.DefaultBaseURL + b.Key
		}
		entries = append(entries, e)
	}
	return entries
}

// Export writes books to w in the given format.
func Export(w io.Writer, books []openlibrary.Book, format Format) error {
	entries := Entries(books)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode favorites as YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode favorites as JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
