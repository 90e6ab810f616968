package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// ValidateTocCommand marks files referenced from the toctree and reports
// duplicates, orphans and entries pointing nowhere
type ValidateTocCommand struct {
	store   ports.GraphStore
	source  ports.DocumentSource
	logger  *log.Logger
	Dir     string
	Toctree string
	Root    string
}

// NewValidateTocCommand creates a new ValidateTocCommand
func NewValidateTocCommand(store ports.GraphStore, source ports.DocumentSource, logger *log.Logger, dir, toctree, root string) *ValidateTocCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ValidateTocCommand{
		store:   store,
		source:  source,
		logger:  logger,
		Dir:     dir,
		Toctree: toctree,
		Root:    root,
	}
}

// Execute runs the pass. A book without a known toctree yields a nil report.
func (c *ValidateTocCommand) Execute(ctx context.Context) (*domain.TocReport, error) {
	toc, err := c.store.GetFile(c.Toctree)
	if err != nil {
		return nil, err
	}
	if toc == nil {
		c.logger.Printf("no %s in store, skipping toctree validation", c.Toctree)
		return nil, nil
	}

	lines, err := c.source.ReadLines(filepath.Join(c.Dir, filepath.FromSlash(c.Toctree)))
	if err != nil {
		c.logger.Printf("cannot read %s: %v", c.Toctree, err)
		return nil, nil
	}

	return c.Validate(domain.ParseTocEntries(c.Toctree, lines))
}

// Validate applies a sequence of toctree entries to the store
func (c *ValidateTocCommand) Validate(entries []domain.TocEntry) (*domain.TocReport, error) {
	report := &domain.TocReport{}

	tx, err := c.store.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.ResetTocFlags(c.exempt()...); err != nil {
		return nil, fmt.Errorf("failed to reset toctree flags: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	missing := make(map[string]bool)

	for _, e := range entries {
		found, err := tx.MarkReferenced(e.Filename)
		if err != nil {
			return nil, err
		}
		if !found && !missing[e.Filename] {
			missing[e.Filename] = true
			report.Missing = append(report.Missing, e.Filename)
		}

		if seen[e.Filename] {
			if err := tx.MarkDuplicate(e.Filename); err != nil {
				return nil, err
			}
			report.Duplicates = append(report.Duplicates, e.Filename)
		}
		seen[e.Filename] = true
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	orphans, err := c.store.Orphans(c.exempt()...)
	if err != nil {
		return nil, err
	}
	report.Orphans = orphans

	return report, nil
}

func (c *ValidateTocCommand) exempt() []string {
	if c.Root == "" {
		return []string{c.Toctree}
	}
	return []string{c.Toctree, c.Root}
}
