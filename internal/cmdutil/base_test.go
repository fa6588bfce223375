package cmdutil

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/testutil"
)

func TestNewClientUsesConfig(t *testing.T) {
	env := testutil.NewTestEnv(t)

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = fmt.Fprint(w, `{"docs":[{"key":"/works/OL1W","title":"Dune"}],"numFound":1}`)
	}))
	t.Cleanup(srv.Close)

	testutil.SetTestConfig(t, env, srv.URL)
	config.UserAgent = "bookfinder-test"

	client := NewClient()
	assert.Equal(t, srv.URL, client.BaseURL())

	resp, err := client.Search(t.Context(), "dune", 1, openlibrary.SearchTitle)
	require.NoError(t, err)
	require.NotNil(t, resp.Search)
	assert.Equal(t, 1, resp.Search.NumFound)
	assert.Equal(t, "bookfinder-test", gotUA)
}

func TestOpenStorage(t *testing.T) {
	env := testutil.NewTestEnv(t)
	testutil.SetTestConfig(t, env, "")

	db, err := OpenStorage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, config.DBFile, db.Path())

	config.DBFile = ""
	_, err = OpenStorage()
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
