package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mdlint/internal/adapters/filesystem"
	"mdlint/internal/adapters/sqlite"
	"mdlint/internal/ports"
)

func benchLint(b *testing.B, book, dbPath string, force bool) {
	b.Helper()
	open := func(rebuild bool) (ports.GraphStore, error) {
		return sqlite.Open(dbPath, rebuild)
	}
	cmd := NewLintCommand(filesystem.NewSource("SUMMARY.md", nil, nil), open, nil, LintOptions{
		SourcePath: book,
		StorePath:  dbPath,
		Toctree:    "SUMMARY.md",
		RootDoc:    "README.md",
		Force:      force,
	})
	if _, err := cmd.Execute(context.Background()); err != nil {
		b.Fatalf("lint failed: %v", err)
	}
}

// BenchmarkLintCold benchmarks a full rebuild: every file parsed and validated
func BenchmarkLintCold(b *testing.B) {
	book := os.Getenv("BOOK_PATH")
	if book == "" {
		b.Skip("BOOK_PATH not set")
	}
	dbPath := filepath.Join(b.TempDir(), "mdlint.db")

	b.ResetTimer()
	for b.Loop() {
		benchLint(b, book, dbPath, true)
	}
}

// BenchmarkLintWarm benchmarks an incremental run with nothing changed
func BenchmarkLintWarm(b *testing.B) {
	book := os.Getenv("BOOK_PATH")
	if book == "" {
		b.Skip("BOOK_PATH not set")
	}
	dbPath := filepath.Join(b.TempDir(), "mdlint.db")
	benchLint(b, book, dbPath, true)

	b.ResetTimer()
	for b.Loop() {
		benchLint(b, book, dbPath, false)
	}
}
