package commands

import (
	"context"
	"fmt"

	"mdlint/internal/application"
	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// LinkReport is the outcome of a link validation pass
type LinkReport struct {
	Checked int
	Invalid []application.FileLinks
}

// ValidateLinksCommand recomputes the validity of every internal link.
// It must run after all files of the scan are parsed.
type ValidateLinksCommand struct {
	store   ports.GraphStore
	Toctree string
}

// NewValidateLinksCommand creates a new ValidateLinksCommand
func NewValidateLinksCommand(store ports.GraphStore, toctree string) *ValidateLinksCommand {
	return &ValidateLinksCommand{
		store:   store,
		Toctree: toctree,
	}
}

type anchorKey struct {
	fileID int64
	anchor string
}

type linkUpdate struct {
	id       int64
	targetID *int64
	valid    bool
}

// Execute reads the whole graph first, then writes every link state in one transaction
func (c *ValidateLinksCommand) Execute(ctx context.Context) (*LinkReport, error) {
	files, err := c.store.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	ids := make(map[string]int64, len(files))
	for _, f := range files {
		ids[f.Filename] = f.ID
	}

	anchors := make(map[anchorKey]bool)
	hasAnchor := func(fileID int64, anchor string) (bool, error) {
		key := anchorKey{fileID, anchor}
		if ok, cached := anchors[key]; cached {
			return ok, nil
		}
		ok, err := c.store.HasAnchor(fileID, anchor)
		if err != nil {
			return false, err
		}
		anchors[key] = ok
		return ok, nil
	}

	report := &LinkReport{}
	var updates []linkUpdate

	for _, f := range files {
		if f.Filename == c.Toctree {
			continue
		}

		links, err := c.store.InternalLinks(f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load links of %s: %w", f.Filename, err)
		}

		var invalid []domain.InternalLink
		for _, l := range links {
			l.TargetFileID = nil
			if id, ok := ids[l.Target]; ok {
				l.TargetFileID = &id
			}

			valid, err := c.check(l, hasAnchor)
			if err != nil {
				return nil, err
			}
			l.Valid = valid

			updates = append(updates, linkUpdate{id: l.ID, targetID: l.TargetFileID, valid: valid})
			report.Checked++
			if !valid {
				invalid = append(invalid, l)
			}
		}

		if len(invalid) > 0 {
			report.Invalid = append(report.Invalid, application.FileLinks{Filename: f.Filename, Links: invalid})
		}
	}

	if err := c.apply(updates); err != nil {
		return nil, err
	}

	application.SortFileLinks(report.Invalid)
	return report, nil
}

// check applies the validity rule to a link whose target is already resolved
func (c *ValidateLinksCommand) check(l domain.InternalLink, hasAnchor func(int64, string) (bool, error)) (bool, error) {
	switch {
	case l.Malformed:
		return false, nil
	case l.TargetFileID == nil:
		return false, nil
	case !l.HasAnchor():
		return true, nil
	default:
		return hasAnchor(*l.TargetFileID, l.AnchorString())
	}
}

func (c *ValidateLinksCommand) apply(updates []linkUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := c.store.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range updates {
		if err := tx.SetLinkState(u.id, u.targetID, u.valid); err != nil {
			return fmt.Errorf("failed to update link %d: %w", u.id, err)
		}
	}

	return tx.Commit()
}
