package fileutil

import (
	"os"
	"testing"

	"github.com/lepinkainen/bookfinder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "normal text", input: "Dune", expected: "Dune"},
		{name: "text with colon", input: "Dune: Messiah", expected: "Dune - Messiah"},
		{name: "text with slash", input: "Either/Or", expected: "Either-Or"},
		{name: "text with backslash", input: "A\\B", expected: "A-B"},
		{name: "surrounding whitespace", input: "  Emma ", expected: "Emma"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("present.txt", "x")
	env.MkdirAll("dir")

	assert.True(t, FileExists(env.Path("present.txt")))
	assert.False(t, FileExists(env.Path("missing.txt")))
	assert.False(t, FileExists(env.Path("dir")), "directories are not files")
}

func TestWriteFileWithOverwrite(t *testing.T) {
	testCases := []struct {
		name          string
		overwrite     bool
		existing      string
		expectWritten bool
		expectContent string
	}{
		{name: "new file", expectWritten: true, expectContent: "new content"},
		{name: "existing file with overwrite", overwrite: true, existing: "old content", expectWritten: true, expectContent: "new content"},
		{name: "existing file without overwrite", existing: "old content", expectWritten: false, expectContent: "old content"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := testutil.NewTestEnv(t)
			path := env.Path("out", "favorites.json")
			if tc.existing != "" {
				env.WriteFileString("out/favorites.json", tc.existing)
			}

			written, err := WriteFileWithOverwrite(path, []byte("new content"), 0o644, tc.overwrite)
			require.NoError(t, err)
			assert.Equal(t, tc.expectWritten, written)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expectContent, string(data))
		})
	}
}
