package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// BaseURL is the Open Library API root
	BaseURL string
	// CoversURL is the Open Library covers host
	CoversURL string
	// UserAgent is sent with every upstream request
	UserAgent string
	// Timeout bounds a single upstream request
	Timeout time.Duration
	// RateLimit is the client-side request pacing in requests per second; 0 disables it
	RateLimit int
	// Debounce is the quiet period after typing before a search runs
	Debounce time.Duration
	// SearchType is the initial search type (title, author or subject)
	SearchType string
	// DBFile is the SQLite file holding local storage (favorites)
	DBFile string
	// CoversDir is where downloaded cover images are written
	CoversDir string
	// RandomSubject opens the browser on a random starter subject when no query is given
	RandomSubject bool
	// LogFile receives log output while the terminal UI is running
	LogFile string
)

// SetDefaults registers the default value of every setting with viper.
func SetDefaults() {
	viper.SetDefault("openlibrary.base_url", "https://openlibrary.org")
	viper.SetDefault("openlibrary.covers_url", "https://covers.openlibrary.org")
	viper.SetDefault("openlibrary.user_agent", "bookfinder/1.0 (+https://github.com/lepinkainen/bookfinder)")
	viper.SetDefault("openlibrary.timeout", "10s")
	viper.SetDefault("openlibrary.rate_limit", 5)
	viper.SetDefault("search.debounce", "500ms")
	viper.SetDefault("search.type", "title")
	viper.SetDefault("favorites.dbfile", "./bookfinder.db")
	viper.SetDefault("covers.dir", "./covers")
	viper.SetDefault("tui.random_subject", true)
	viper.SetDefault("tui.logfile", "./bookfinder.log")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	BaseURL = viper.GetString("openlibrary.base_url")
	CoversURL = viper.GetString("openlibrary.covers_url")
	UserAgent = viper.GetString("openlibrary.user_agent")
	Timeout = viper.GetDuration("openlibrary.timeout")
	RateLimit = viper.GetInt("openlibrary.rate_limit")
	Debounce = viper.GetDuration("search.debounce")
	SearchType = viper.GetString("search.type")
	DBFile = viper.GetString("favorites.dbfile")
	CoversDir = viper.GetString("covers.dir")
	RandomSubject = viper.GetBool("tui.random_subject")
	LogFile = viper.GetString("tui.logfile")
}

// SetDebounce overrides the debounce delay
func SetDebounce(d time.Duration) {
	if d >= 0 {
		Debounce = d
	}
}
