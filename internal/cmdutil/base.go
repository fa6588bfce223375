// Package cmdutil holds the wiring shared by the CLI commands.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/ratelimit"
	"github.com/lepinkainen/bookfinder/internal/storage"
)

// NewClient builds an Open Library client from the global configuration.
func NewClient() *openlibrary.Client {
	opts := []openlibrary.Option{
		openlibrary.WithBaseURL(config.BaseURL),
		openlibrary.WithCoversURL(config.CoversURL),
		openlibrary.WithUserAgent(config.UserAgent),
		openlibrary.WithRateLimiter(ratelimit.New("OpenLibrary", config.RateLimit)),
	}
	if config.Timeout > 0 {
		opts = append(opts, openlibrary.WithHTTPClient(&http.Client{Timeout: config.Timeout}))
	}
	return openlibrary.NewClient(opts...)
}

// OpenStorage opens the local storage database named by config.DBFile.
func OpenStorage() (*storage.DB, error) {
	if config.DBFile == "" {
		return nil, fmt.Errorf("favorites database path is not configured")
	}
	db, err := storage.Open(config.DBFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites database: %w", err)
	}
	return db, nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
