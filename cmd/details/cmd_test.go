package details

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookfinder/internal/cmdutil"
	workdetails "github.com/lepinkainen/bookfinder/internal/details"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/testutil"
)

const duneWork = `{
	"key": "/works/OL893415W",
	"title": "Dune",
	"description": {"type": "/type/text", "value": "A desert planet."},
	"covers": [11481354],
	"subjects": ["Science fiction", "Deserts"],
	"authors": [{"author": {"key": "/authors/OL79034A"}, "type": {"key": "/type/author_role"}}],
	"first_publish_date": "1965"
}`

const herbert = `{
	"key": "/authors/OL79034A",
	"name": "Frank Herbert",
	"birth_date": "8 October 1920",
	"death_date": "11 February 1986",
	"bio": "American science fiction author."
}`

func newServer(t *testing.T, authorStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/works/OL893415W.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, duneWork)
	})
	mux.HandleFunc("/authors/OL79034A.json", func(w http.ResponseWriter, r *http.Request) {
		if authorStatus != http.StatusOK {
			w.WriteHeader(authorStatus)
			return
		}
		_, _ = fmt.Fprint(w, herbert)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T, authorStatus int) *bytes.Buffer {
	t.Helper()
	env := testutil.NewTestEnv(t)
	srv := newServer(t, authorStatus)
	testutil.SetTestConfig(t, env, srv.URL)

	origClient, origStdout := NewClient, Stdout
	t.Cleanup(func() {
		NewClient = origClient
		Stdout = origStdout
	})

	var out bytes.Buffer
	NewClient = func() workdetails.Fetcher { return cmdutil.NewClient() }
	Stdout = &out
	return &out
}

func TestDetailsCmdText(t *testing.T) {
	out := setup(t, http.StatusOK)

	cmd := &DetailsCmd{WorkID: "/works/OL893415W"}
	require.NoError(t, cmd.Run())

	text := out.String()
	assert.Contains(t, text, "Dune\n")
	assert.Contains(t, text, "by Frank Herbert (8 October 1920 - 11 February 1986)\n")
	assert.Contains(t, text, "First published: 1965\n")
	assert.Contains(t, text, "A desert planet.\n")
	assert.Contains(t, text, "About the author:\nAmerican science fiction author.\n")
	assert.Contains(t, text, "Subjects: Science fiction, Deserts\n")
	assert.Contains(t, text, "Cover: https://covers.openlibrary.org/b/id/11481354-L.jpg\n")
	assert.Contains(t, text, "Open Library: https://openlibrary.org/works/OL893415W\n")
}

func TestDetailsCmdJSONWithoutAuthor(t *testing.T) {
	out := setup(t, http.StatusInternalServerError)

	cmd := &DetailsCmd{WorkID: "OL893415W", JSON: true}
	require.NoError(t, cmd.Run())

	var v View
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, "Dune", v.Title)
	assert.Empty(t, v.Authors)
	assert.Empty(t, v.AuthorBio)
	assert.Equal(t, []string{"Science fiction", "Deserts"}, v.Subjects)
}

func TestDetailsCmdMissingWork(t *testing.T) {
	setup(t, http.StatusOK)

	cmd := &DetailsCmd{WorkID: "OL1W"}
	err := cmd.Run()
	require.Error(t, err)
}

func TestDetailsCmdRequiresID(t *testing.T) {
	cmd := &DetailsCmd{WorkID: "  "}
	require.EqualError(t, cmd.Run(), "work id is required")
}

func TestNormalizeWorkID(t *testing.T) {
	assert.Equal(t, "OL1W", NormalizeWorkID(" /works/OL1W "))
	assert.Equal(t, "OL2M", NormalizeWorkID("/books/OL2M"))
	assert.Equal(t, "OL3W", NormalizeWorkID("OL3W"))
}

func TestNewViewWithoutWork(t *testing.T) {
	assert.Equal(t, View{}, NewView(workdetails.Record{WorkID: "OL1W"}))
}

func TestNewViewLimitsSubjects(t *testing.T) {
	subjects := make([]string, 20)
	for i := range subjects {
		subjects[i] = fmt.Sprintf("s%d", i)
	}
	v := NewView(workdetails.Record{Work: &openlibrary.Work{Key: "/works/OL1W", Title: "T", Subjects: subjects}})
	assert.Len(t, v.Subjects, subjectLimit)
}
