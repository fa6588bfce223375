package browse

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/search"
	"github.com/lepinkainen/bookfinder/internal/testutil"
	"github.com/lepinkainen/bookfinder/internal/tui"
)

func stubRunner(t *testing.T) *[]*tui.Browser {
	t.Helper()
	orig := RunBrowser
	t.Cleanup(func() { RunBrowser = orig })

	var started []*tui.Browser
	RunBrowser = func(b *tui.Browser) error {
		started = append(started, b)
		slog.Info("browser running")
		return nil
	}
	return &started
}

func TestInitialQuery(t *testing.T) {
	env := testutil.NewTestEnv(t)
	testutil.SetTestConfig(t, env, "")

	origRandom := RandomSubject
	t.Cleanup(func() { RandomSubject = origRandom })
	RandomSubject = func() string { return "fantasy" }

	tests := []struct {
		name   string
		cmd    BrowseCmd
		random bool
		want   search.Query
	}{
		{name: "args joined", cmd: BrowseCmd{Query: []string{"the", "hobbit"}}, want: search.Query{Text: "the hobbit", Type: openlibrary.SearchTitle}},
		{name: "explicit type", cmd: BrowseCmd{Query: []string{"tolkien"}, Type: "author"}, want: search.Query{Text: "tolkien", Type: openlibrary.SearchAuthor}},
		{name: "empty without random", cmd: BrowseCmd{}, want: search.Query{Type: openlibrary.SearchTitle}},
		{name: "random subject", cmd: BrowseCmd{}, random: true, want: search.Query{Text: "fantasy", Type: openlibrary.SearchSubject}},
		{name: "args win over random", cmd: BrowseCmd{Query: []string{"dune"}}, random: true, want: search.Query{Text: "dune", Type: openlibrary.SearchTitle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.RandomSubject = tt.random
			got, err := tt.cmd.initialQuery()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&BrowseCmd{Type: "isbn"}).initialQuery()
	require.Error(t, err)
}

func TestBrowseRunsAndLogsToFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[],"numFound":0}`))
	}))
	t.Cleanup(srv.Close)
	testutil.SetTestConfig(t, env, srv.URL)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	started := stubRunner(t)
	require.NoError(t, (&BrowseCmd{Query: []string{"dune"}}).Run())

	require.Len(t, *started, 1)
	assert.Same(t, prev, slog.Default(), "logger is restored after the browser exits")
	env.RequireFileExists("bookfinder.log")
	assert.Contains(t, env.ReadFileString("bookfinder.log"), "browser running")
	env.RequireFileExists("bookfinder.db")
}

func TestRedirectLogsWithoutFile(t *testing.T) {
	prev := slog.Default()
	restore, err := redirectLogs("")
	require.NoError(t, err)
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelError))
	restore()
	assert.Same(t, prev, slog.Default())
}
