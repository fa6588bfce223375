// Package browse implements the interactive book browser command.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/humanlog"

	"github.com/lepinkainen/bookfinder/internal/cmdutil"
	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/lepinkainen/bookfinder/internal/details"
	"github.com/lepinkainen/bookfinder/internal/favorites"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/search"
	"github.com/lepinkainen/bookfinder/internal/tui"
)

// BrowseCmd opens the terminal book browser.
type BrowseCmd struct {
	Query []string `arg:"" optional:"" help:"Initial search text"`
	Type  string   `short:"t" help:"Search type: title, author or subject (defaults to search.type)"`
}

var (
	RunBrowser    = tui.Run
	RandomSubject = search.RandomSubject
)

func (c *BrowseCmd) Run() error {
	initial, err := c.initialQuery()
	if err != nil {
		return err
	}

	restore, err := redirectLogs(config.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	db, err := cmdutil.OpenStorage()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	client := cmdutil.NewClient()
	machine := search.New(client, search.WithDebounce(config.Debounce), search.WithQuery(initial))
	defer machine.Close()
	loader := details.NewLoader(client)
	defer loader.Close()

	browser := tui.NewBrowser(tui.Deps{
		Search:    machine,
		Details:   loader,
		Favorites: favorites.Open(db),
		CoverURL:  client.CoverURL,
	})

	slog.Info("Starting browser", "query", initial.Text, "type", initial.Type)
	return RunBrowser(browser)
}

// initialQuery resolves the first query: the arguments, else a random starter
// subject when enabled, else nothing.
func (c *BrowseCmd) initialQuery() (search.Query, error) {
	typeName := c.Type
	if typeName == "" {
		typeName = config.SearchType
	}
	typ, err := openlibrary.ParseSearchType(typeName)
	if err != nil {
		return search.Query{}, err
	}

	text := strings.TrimSpace(strings.Join(c.Query, " "))
	if text == "" && config.RandomSubject {
		return search.Query{Text: RandomSubject(), Type: openlibrary.SearchSubject}, nil
	}
	return search.Query{Text: text, Type: typ}, nil
}

// redirectLogs sends the default logger to path while the alt screen owns the
// terminal. The returned func restores the previous logger.
func redirectLogs(path string) (func(), error) {
	prev := slog.Default()
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() { slog.SetDefault(prev) }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if prev.Enabled(context.Background(), slog.LevelDebug) {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(humanlog.NewHandler(f, &humanlog.Options{
		Level:        level,
		DisableColor: true,
	})))

	return func() {
		slog.SetDefault(prev)
		_ = f.Close()
	}, nil
}
