package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	BaseURL       string
	CoversURL     string
	UserAgent     string
	Timeout       time.Duration
	Debounce      time.Duration
	RateLimit     int
	SearchType    string
	DBFile        string
	CoversDir     string
	RandomSubject bool
	LogFile       string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		BaseURL:       config.BaseURL,
		CoversURL:     config.CoversURL,
		UserAgent:     config.UserAgent,
		Timeout:       config.Timeout,
		Debounce:      config.Debounce,
		RateLimit:     config.RateLimit,
		SearchType:    config.SearchType,
		DBFile:        config.DBFile,
		CoversDir:     config.CoversDir,
		RandomSubject: config.RandomSubject,
		LogFile:       config.LogFile,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.BaseURL = state.BaseURL
	config.CoversURL = state.CoversURL
	config.UserAgent = state.UserAgent
	config.Timeout = state.Timeout
	config.Debounce = state.Debounce
	config.RateLimit = state.RateLimit
	config.SearchType = state.SearchType
	config.DBFile = state.DBFile
	config.CoversDir = state.CoversDir
	config.RandomSubject = state.RandomSubject
	config.LogFile = state.LogFile
}

// SetTestConfig points the configuration at baseURL with pacing and debounce
// disabled and storage inside env. Everything is restored when the test completes.
func SetTestConfig(t *testing.T, env *TestEnv, baseURL string) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	config.BaseURL = baseURL
	config.CoversURL = baseURL
	config.Timeout = 5 * time.Second
	config.Debounce = 0
	config.RateLimit = 0
	config.SearchType = "title"
	config.DBFile = env.Path("bookfinder.db")
	config.CoversDir = env.Path("covers")
	config.RandomSubject = false
	config.LogFile = env.Path("bookfinder.log")

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value for the duration of the test.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)
	viper.Set(key, value)

	t.Cleanup(func() {
		// viper has no Unset; an unset key is left holding the test value.
		if hadValue {
			viper.Set(key, oldValue)
		}
	})
}
