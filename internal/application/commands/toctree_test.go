package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdlint/internal/adapters/sqlite"
	"mdlint/internal/domain"
)

func seededStore(t *testing.T, names ...string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "mdlint.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	tx, err := s.BeginTx()
	require.NoError(t, err)
	for _, name := range names {
		_, err := tx.EnsureFile(name)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())
	return s
}

func entries(names ...string) []domain.TocEntry {
	out := make([]domain.TocEntry, len(names))
	for i, n := range names {
		out[i] = domain.TocEntry{Filename: n, Line: i + 1}
	}
	return out
}

func TestValidateToc_DuplicatesAreAllButFirst(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    []string
	}{
		{name: "none", entries: []string{"a.md", "b.md"}, want: nil},
		{name: "twice", entries: []string{"a.md", "a.md", "b.md"}, want: []string{"a.md"}},
		{name: "four times", entries: []string{"a.md", "b.md", "a.md", "a.md", "a.md"}, want: []string{"a.md", "a.md", "a.md"}},
		{name: "interleaved", entries: []string{"a.md", "b.md", "b.md", "a.md"}, want: []string{"b.md", "a.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(t, "SUMMARY.md", "a.md", "b.md")
			report, err := NewValidateTocCommand(s, nil, nil, "", "SUMMARY.md", "").Validate(entries(tt.entries...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Duplicates)
			assert.Empty(t, report.Orphans)
		})
	}
}

func TestValidateToc_ResetsBetweenRuns(t *testing.T) {
	s := seededStore(t, "SUMMARY.md", "README.md", "a.md", "b.md")
	cmd := NewValidateTocCommand(s, nil, nil, "", "SUMMARY.md", "README.md")

	report, err := cmd.Validate(entries("a.md", "a.md", "b.md"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, report.Duplicates)

	// b.md dropped from the toctree, duplicate fixed
	report, err = cmd.Validate(entries("a.md"))
	require.NoError(t, err)
	assert.Empty(t, report.Duplicates)
	assert.Equal(t, []string{"b.md"}, report.Orphans)

	a, err := s.GetFile("a.md")
	require.NoError(t, err)
	assert.False(t, a.Duplicate, "duplicate flag must clear once fixed")
}

func TestValidateToc_RootExemption(t *testing.T) {
	s := seededStore(t, "SUMMARY.md", "README.md", "index.md")

	report, err := NewValidateTocCommand(s, nil, nil, "", "SUMMARY.md", "").Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "index.md"}, report.Orphans)

	report, err = NewValidateTocCommand(s, nil, nil, "", "SUMMARY.md", "index.md").Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, report.Orphans, "the configured root is exempt, not a hardcoded name")
}
