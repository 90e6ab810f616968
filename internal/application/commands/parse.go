package commands

import (
	"context"
	"fmt"
	"io"
	"log"

	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// ParseStats summarizes a parse pass
type ParseStats struct {
	Parsed        int
	Headings      int
	InternalLinks int
	ExternalLinks int
	Skipped       []string // Unreadable files, left for the next run
}

// ParseFilesCommand re-parses documents and replaces their derived rows.
// Each file commits in its own transaction together with its timestamp.
type ParseFilesCommand struct {
	store     ports.GraphStore
	source    ports.DocumentSource
	logger    *log.Logger
	Documents []domain.Document
}

// NewParseFilesCommand creates a new ParseFilesCommand
func NewParseFilesCommand(store ports.GraphStore, source ports.DocumentSource, logger *log.Logger, docs []domain.Document) *ParseFilesCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ParseFilesCommand{
		store:     store,
		source:    source,
		logger:    logger,
		Documents: docs,
	}
}

// Execute parses every document in order
func (c *ParseFilesCommand) Execute(ctx context.Context) (*ParseStats, error) {
	stats := &ParseStats{}

	for _, doc := range c.Documents {
		lines, err := c.source.ReadLines(doc.Path)
		if err != nil {
			c.logger.Printf("skipping %s: %v", doc.Name, err)
			stats.Skipped = append(stats.Skipped, doc.Name)
			continue
		}

		parsed := domain.ParseDocument(doc.Name, lines)
		if err := c.commit(doc, parsed); err != nil {
			return stats, fmt.Errorf("failed to store %s: %w", doc.Name, err)
		}

		stats.Parsed++
		stats.Headings += len(parsed.Headings)
		stats.InternalLinks += len(parsed.InternalLinks)
		stats.ExternalLinks += len(parsed.ExternalLinks)
	}

	return stats, nil
}

// commit writes the timestamp and the replacement rows atomically
func (c *ParseFilesCommand) commit(doc domain.Document, parsed *domain.ParsedDocument) error {
	tx, err := c.store.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fileID, err := tx.UpsertFile(doc.Name, doc.ModTime.UnixNano())
	if err != nil {
		return err
	}

	resolved := make(map[string]*int64)
	for i := range parsed.InternalLinks {
		l := &parsed.InternalLinks[i]
		l.SourceFileID = fileID

		id, ok := resolved[l.Target]
		if !ok {
			target, err := tx.LookupFile(l.Target)
			if err != nil {
				return err
			}
			if target != nil {
				id = &target.ID
			}
			resolved[l.Target] = id
		}
		l.TargetFileID = id
		if id == nil {
			l.Valid = false
		}
	}

	if err := tx.ReplaceHeadings(fileID, parsed.Headings); err != nil {
		return err
	}
	if err := tx.ReplaceInternalLinks(fileID, parsed.InternalLinks); err != nil {
		return err
	}
	if err := tx.ReplaceExternalLinks(fileID, parsed.ExternalLinks); err != nil {
		return err
	}

	c.logger.Printf("parsed %s: %d headings, %d internal links, %d external links",
		doc.Name, len(parsed.Headings), len(parsed.InternalLinks), len(parsed.ExternalLinks))

	return tx.Commit()
}
