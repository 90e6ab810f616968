package commands

import (
	"context"
	"fmt"

	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// TrackChangesCommand decides which documents need re-parsing and which
// store entries belong to files that are gone
type TrackChangesCommand struct {
	store     ports.GraphStore
	Workspace *domain.Workspace
	Force     bool
}

// NewTrackChangesCommand creates a new TrackChangesCommand
func NewTrackChangesCommand(store ports.GraphStore, ws *domain.Workspace, force bool) *TrackChangesCommand {
	return &TrackChangesCommand{
		store:     store,
		Workspace: ws,
		Force:     force,
	}
}

// Execute compares on-disk mtimes with the stored ones.
//
// New files are registered with a zero timestamp so links can resolve to them;
// the real timestamp is only written together with the parse results.
// Deleted files are pruned, but only when the whole directory was enumerated.
func (c *TrackChangesCommand) Execute(ctx context.Context) (*domain.ChangeSet, error) {
	known, err := c.store.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	byName := make(map[string]domain.File, len(known))
	for _, f := range known {
		byName[f.Filename] = f
	}

	cs := &domain.ChangeSet{}
	var fresh []string
	present := make(map[string]bool, len(c.Workspace.Documents))

	for _, doc := range c.Workspace.Documents {
		present[doc.Name] = true

		f, ok := byName[doc.Name]
		if !ok {
			fresh = append(fresh, doc.Name)
		}
		if c.Force || !ok || f.LastUpdate < doc.ModTime.UnixNano() {
			cs.Changed = append(cs.Changed, doc)
		}
	}

	if !c.Workspace.SingleFile {
		for _, f := range known {
			if !present[f.Filename] {
				cs.Deleted = append(cs.Deleted, f.Filename)
			}
		}
	}

	if len(fresh) == 0 && len(cs.Deleted) == 0 {
		return cs, nil
	}

	tx, err := c.store.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, name := range fresh {
		if _, err := tx.EnsureFile(name); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	for _, name := range cs.Deleted {
		if err := tx.DeleteFile(name); err != nil {
			return nil, fmt.Errorf("failed to prune %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cs, nil
}
