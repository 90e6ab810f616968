package mcp

import (
	"context"
	"log"
	"sync"

	"mdlint/internal/application"
	"mdlint/internal/application/commands"
	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// Backend is the lint environment shared by every tool.
// Tool calls may arrive concurrently; the store is single-writer, so calls are serialized.
type Backend struct {
	Source    ports.DocumentSource
	Open      commands.StoreOpener
	Logger    *log.Logger
	Book      string // Default book root
	StorePath string
	Toctree   string
	Root      string

	mu     sync.Mutex
	linted bool              // A lint ran in this session
	toc    *domain.TocReport // Toctree report of that run, nil without a toctree
}

// lint runs a full pass over book, or the default book when empty
func (b *Backend) lint(ctx context.Context, book string, force bool) (*application.LintResult, error) {
	if book == "" {
		book = b.Book
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cmd := commands.NewLintCommand(b.Source, b.Open, b.Logger, commands.LintOptions{
		SourcePath: book,
		StorePath:  b.StorePath,
		Toctree:    b.Toctree,
		RootDoc:    b.Root,
		Force:      force,
	})
	result, err := cmd.Execute(ctx)
	if err != nil {
		return nil, err
	}
	b.linted = true
	b.toc = result.Toc
	return result, nil
}

// lastToc returns the toctree report of this session's last lint, if any
func (b *Backend) lastToc() (*domain.TocReport, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.toc, b.linted
}

// withStore opens the store for a read and closes it afterwards
func (b *Backend) withStore(fn func(ports.GraphStore) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	store, err := b.Open(false)
	if err != nil {
		return &application.StoreInitError{Path: b.StorePath, Err: err}
	}
	defer store.Close()

	return fn(store)
}

func (b *Backend) exempt() []string {
	if b.Root == "" {
		return []string{b.Toctree}
	}
	return []string{b.Toctree, b.Root}
}
