package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBook(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"SUMMARY.md":        "* [Intro](intro.md)\n",
		"README.md":         "# Book\n",
		"intro.md":          "# Intro\n",
		"notes.txt":         "not markdown\n",
		"part1/chapter.md":  "# Chapter\n",
		".hidden/secret.md": "# Secret\n",
		"drafts/wip.md":     "# WIP\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestEnumerate_DirectoryDefaultsToTopLevel(t *testing.T) {
	dir := setupTestBook(t)

	ws, err := NewSource("SUMMARY.md", nil, nil).Enumerate(dir)
	require.NoError(t, err)

	assert.False(t, ws.SingleFile)
	assert.Equal(t, []string{"README.md", "SUMMARY.md", "intro.md"}, ws.Names())
	for _, d := range ws.Documents {
		assert.True(t, filepath.IsAbs(d.Path), "paths are fully qualified")
		assert.False(t, d.ModTime.IsZero())
	}
}

func TestEnumerate_RecursiveWithExcludes(t *testing.T) {
	dir := setupTestBook(t)

	src := NewSource("SUMMARY.md", []string{"**/*.md"}, []string{"drafts/**"})
	ws, err := src.Enumerate(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "SUMMARY.md", "intro.md", "part1/chapter.md"}, ws.Names())
}

func TestEnumerate_SingleFile(t *testing.T) {
	dir := setupTestBook(t)

	ws, err := NewSource("SUMMARY.md", nil, nil).Enumerate(filepath.Join(dir, "intro.md"))
	require.NoError(t, err)

	assert.True(t, ws.SingleFile)
	assert.Equal(t, []string{"intro.md"}, ws.Names())
	assert.Equal(t, filepath.Join(dir, "intro.md"), ws.Documents[0].Path)
}

func TestEnumerate_SingleFileNestedInBook(t *testing.T) {
	dir := setupTestBook(t)

	ws, err := NewSource("SUMMARY.md", []string{"**/*.md"}, nil).Enumerate(filepath.Join(dir, "part1", "chapter.md"))
	require.NoError(t, err)

	assert.True(t, ws.SingleFile)
	assert.Equal(t, dir, ws.Dir, "the book root is the directory holding the toctree")
	assert.Equal(t, []string{"part1/chapter.md"}, ws.Names())
}

func TestEnumerate_SingleFileOutsideAnyBook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loose.md")
	require.NoError(t, os.WriteFile(path, []byte("# Loose\n"), 0644))

	ws, err := NewSource("SUMMARY-nowhere.md", nil, nil).Enumerate(path)
	require.NoError(t, err)

	assert.Equal(t, dir, ws.Dir)
	assert.Equal(t, []string{"loose.md"}, ws.Names())
}

func TestEnumerate_ToctreeMeansItsDirectory(t *testing.T) {
	dir := setupTestBook(t)

	ws, err := NewSource("SUMMARY.md", nil, nil).Enumerate(filepath.Join(dir, "SUMMARY.md"))
	require.NoError(t, err)

	assert.False(t, ws.SingleFile)
	assert.Len(t, ws.Documents, 3)
}

func TestEnumerate_MissingRoot(t *testing.T) {
	_, err := NewSource("SUMMARY.md", nil, nil).Enumerate(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEnumerate_BadPattern(t *testing.T) {
	dir := setupTestBook(t)

	_, err := NewSource("SUMMARY.md", []string{"[*.md"}, nil).Enumerate(dir)
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\r\n\nbody\n"), 0644))

	lines, err := NewSource("SUMMARY.md", nil, nil).ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"# Title", "", "body"}, lines)
}

func TestReadLines_Missing(t *testing.T) {
	_, err := NewSource("SUMMARY.md", nil, nil).ReadLines(filepath.Join(t.TempDir(), "none.md"))
	assert.Error(t, err)
}
