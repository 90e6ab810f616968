package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"mdlint/internal/application"
	"mdlint/internal/ports"
)

// StoreOpener opens the graph store; rebuild recreates every table empty
type StoreOpener func(rebuild bool) (ports.GraphStore, error)

// LintOptions configures a lint run
type LintOptions struct {
	SourcePath string
	StorePath  string // Only used in error messages
	Toctree    string
	RootDoc    string
	Force      bool // Treat every file as changed and start from an empty store
	Verbose    bool
}

// LintCommand runs a full pass: discover, track, parse, validate toctree, validate links
type LintCommand struct {
	source ports.DocumentSource
	open   StoreOpener
	logger *log.Logger
	LintOptions
}

// NewLintCommand creates a new LintCommand
func NewLintCommand(source ports.DocumentSource, open StoreOpener, logger *log.Logger, opts LintOptions) *LintCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LintCommand{
		source:      source,
		open:        open,
		logger:      logger,
		LintOptions: opts,
	}
}

// Validate checks the options before anything is touched
func (c *LintCommand) Validate() error {
	if err := application.ValidateRequired("sourcePath", c.SourcePath); err != nil {
		return err
	}
	if err := application.ValidateMarkdownName("toctree", c.Toctree); err != nil {
		return err
	}
	if c.RootDoc != "" {
		if err := application.ValidateMarkdownName("rootDoc", c.RootDoc); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the lint. The only errors it returns wrap a DiscoveryError,
// a StoreInitError, a ValidationError, or a store failure mid-run.
func (c *LintCommand) Execute(ctx context.Context) (*application.LintResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	c.logger.Printf("run %s: linting %s", runID, c.SourcePath)

	ws, err := c.source.Enumerate(c.SourcePath)
	if err != nil {
		c.logger.Printf("run %s: unable to identify source files: %v", runID, err)
		return nil, &application.DiscoveryError{Path: c.SourcePath, Err: err}
	}

	store, err := c.open(c.Force)
	if err != nil {
		return nil, &application.StoreInitError{Path: c.StorePath, Err: err}
	}
	defer store.Close()

	result := &application.LintResult{RunID: runID}
	result.Stats.FilesScanned = len(ws.Documents)

	changes, err := NewTrackChangesCommand(store, ws, c.Force).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("change tracking failed: %w", err)
	}
	result.Stats.FilesDeleted = len(changes.Deleted)
	c.debugf("run %s: %d changed, %d deleted of %d files", runID, len(changes.Changed), len(changes.Deleted), len(ws.Documents))

	parsed, err := NewParseFilesCommand(store, c.source, c.debugLogger(), changes.Changed).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	for _, name := range parsed.Skipped {
		c.logger.Printf("run %s: could not read %s, will retry next run", runID, name)
	}
	result.Stats.FilesParsed = parsed.Parsed
	result.Stats.HeadingsAdded = parsed.Headings
	result.Stats.LinksAdded = parsed.InternalLinks
	result.Stats.ExternalLinks = parsed.ExternalLinks

	toc, err := NewValidateTocCommand(store, c.source, c.logger, ws.Dir, c.Toctree, c.RootDoc).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("toctree validation failed: %w", err)
	}
	result.Toc = toc

	links, err := NewValidateLinksCommand(store, c.Toctree).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("link validation failed: %w", err)
	}
	result.InvalidLinks = links.Invalid
	result.Stats.LinksChecked = links.Checked
	for _, fl := range links.Invalid {
		result.Stats.LinksInvalid += len(fl.Links)
	}

	tx, err := store.BeginTx()
	if err != nil {
		return nil, err
	}
	if err := tx.TouchRun(runID, time.Now()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result.Stats.Duration = time.Since(start)
	c.logger.Printf("run %s: %d parsed, %d links checked, %d invalid in %s",
		runID, result.Stats.FilesParsed, result.Stats.LinksChecked, result.Stats.LinksInvalid, result.Stats.Duration)

	return result, nil
}

func (c *LintCommand) debugf(format string, args ...any) {
	if c.Verbose {
		c.logger.Printf(format, args...)
	}
}

// debugLogger returns the logger for per-file chatter, silent unless verbose
func (c *LintCommand) debugLogger() *log.Logger {
	if c.Verbose {
		return c.logger
	}
	return log.New(io.Discard, "", 0)
}
