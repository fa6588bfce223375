package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/bookfinder/cmd/browse"
	"github.com/lepinkainen/bookfinder/cmd/cover"
	"github.com/lepinkainen/bookfinder/cmd/details"
	"github.com/lepinkainen/bookfinder/cmd/favorites"
	"github.com/lepinkainen/bookfinder/cmd/search"
	"github.com/lepinkainen/bookfinder/internal/config"
)

// CLI represents the complete command structure for the bookfinder application
type CLI struct {
	// Global flags
	DB       string `help:"Path to the favorites SQLite database (overrides favorites.dbfile)"`
	BaseURL  string `help:"Open Library API root (overrides openlibrary.base_url)"`
	Debounce string `help:"Delay after typing before a search runs, e.g. 300ms (overrides search.debounce)"`
	Verbose  bool   `short:"v" help:"Enable debug logging"`

	Browse    browse.BrowseCmd       `cmd:"" default:"withargs" help:"Search and browse books interactively"`
	Search    search.SearchCmd       `cmd:"" help:"Search books and print the results"`
	Details   details.DetailsCmd     `cmd:"" help:"Show the full record of a work"`
	Favorites favorites.FavoritesCmd `cmd:"" help:"Manage favorite books"`
	Cover     cover.CoverCmd         `cmd:"" help:"Print or download a cover image"`
}

const description = "Search the Open Library catalogue and keep a list of favorite books."

// configPath is the directory searched for config.yaml.
var configPath = "."

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookfinder"),
		kong.Description(description),
		kong.UsageOnError(),
	)

	initLogging(cli.Verbose)

	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	if err := updateGlobalConfig(&cli); err != nil {
		slog.Error("Invalid flags", "error", err)
		os.Exit(1)
	}

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() error {
	config.SetDefaults()

	// Enable environment variable support, e.g. BOOKFINDER_OPENLIBRARY_RATE_LIMIT
	viper.SetEnvPrefix("bookfinder")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		slog.Info("Config file not found, writing default config file")
		if err := viper.SafeWriteConfigAs(configPath + string(os.PathSeparator) + "config.yaml"); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}

	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) error {
	if cli.DB != "" {
		viper.Set("favorites.dbfile", cli.DB)
	}
	if cli.BaseURL != "" {
		viper.Set("openlibrary.base_url", cli.BaseURL)
	}

	config.InitConfig()

	if cli.Debounce != "" {
		d, err := time.ParseDuration(cli.Debounce)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid --debounce %q", cli.Debounce)
		}
		config.SetDebounce(d)
	}
	return nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if env := os.Getenv("BOOKFINDER_LOG_LEVEL"); env != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(env)); err == nil {
			level = parsed
		}
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
