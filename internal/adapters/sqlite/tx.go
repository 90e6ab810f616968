package sqlite

import (
	"database/sql"
	"time"

	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// storeTx implements ports.StoreTx
type storeTx struct {
	tx *sql.Tx
}

// Ensure storeTx implements StoreTx
var _ ports.StoreTx = (*storeTx)(nil)

func (t *storeTx) fileID(filename string) (int64, error) {
	var id int64
	err := t.tx.QueryRow(`SELECT id FROM files WHERE filename = ?`, filename).Scan(&id)
	return id, err
}

// EnsureFile registers a file without touching its timestamp
func (t *storeTx) EnsureFile(filename string) (int64, error) {
	_, err := t.tx.Exec(`
		INSERT INTO files (filename) VALUES (?)
		ON CONFLICT(filename) DO NOTHING
	`, filename)
	if err != nil {
		return 0, err
	}
	return t.fileID(filename)
}

// UpsertFile records the mtime of a successful parse, keeping the id stable
func (t *storeTx) UpsertFile(filename string, lastUpdate int64) (int64, error) {
	_, err := t.tx.Exec(`
		INSERT INTO files (filename, last_update) VALUES (?, ?)
		ON CONFLICT(filename) DO UPDATE SET last_update = excluded.last_update
	`, filename, lastUpdate)
	if err != nil {
		return 0, err
	}
	return t.fileID(filename)
}

// DeleteFile removes a file; its headings and links cascade
func (t *storeTx) DeleteFile(filename string) error {
	_, err := t.tx.Exec(`DELETE FROM files WHERE filename = ?`, filename)
	return err
}

// LookupFile retrieves a file inside the transaction, nil when unknown
func (t *storeTx) LookupFile(filename string) (*domain.File, error) {
	f, err := scanFile(t.tx.QueryRow(`SELECT `+fileColumns+` FROM files WHERE filename = ?`, filename))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

// ReplaceHeadings swaps a file's heading set for a new one
func (t *storeTx) ReplaceHeadings(fileID int64, headings []domain.Heading) error {
	if _, err := t.tx.Exec(`DELETE FROM headings WHERE file_id = ?`, fileID); err != nil {
		return err
	}

	stmt, err := t.tx.Prepare(`INSERT INTO headings (anchor, file_id, line) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range headings {
		if _, err := stmt.Exec(h.Anchor, fileID, h.Line); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceInternalLinks swaps a file's internal links for a new set
func (t *storeTx) ReplaceInternalLinks(fileID int64, links []domain.InternalLink) error {
	if _, err := t.tx.Exec(`DELETE FROM inlinks WHERE source_file_id = ?`, fileID); err != nil {
		return err
	}

	stmt, err := t.tx.Prepare(`
		INSERT INTO inlinks (source_file_id, target_file_id, target, valid, malformed, line, link_text, anchor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range links {
		_, err := stmt.Exec(fileID, nullInt(l.TargetFileID), l.Target, l.Valid, l.Malformed,
			l.Line, l.LinkText, nullString(l.Anchor))
		if err != nil {
			return err
		}
	}
	return nil
}

// ReplaceExternalLinks swaps a file's external links for a new set
func (t *storeTx) ReplaceExternalLinks(fileID int64, links []domain.ExternalLink) error {
	if _, err := t.tx.Exec(`DELETE FROM exlinks WHERE file_id = ?`, fileID); err != nil {
		return err
	}

	stmt, err := t.tx.Prepare(`
		INSERT INTO exlinks (href, file_id, line, valid, last_check)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range links {
		var lastCheck any
		if l.LastCheck != nil {
			lastCheck = l.LastCheck.UTC().Format(time.RFC3339Nano)
		}
		if _, err := stmt.Exec(l.Href, fileID, l.Line, l.Valid, lastCheck); err != nil {
			return err
		}
	}
	return nil
}

// ResetTocFlags sets orphan=1, duplicate=0 everywhere except the exempt files,
// which are never orphans
func (t *storeTx) ResetTocFlags(exempt ...string) error {
	if len(exempt) == 0 {
		_, err := t.tx.Exec(`UPDATE files SET orphan = 1, duplicate = 0`)
		return err
	}

	args := make([]any, len(exempt))
	for i, name := range exempt {
		args[i] = name
	}
	in := placeholders(len(exempt))

	if _, err := t.tx.Exec(`UPDATE files SET orphan = 1, duplicate = 0 WHERE filename NOT IN (`+in+`)`, args...); err != nil {
		return err
	}
	_, err := t.tx.Exec(`UPDATE files SET orphan = 0, duplicate = 0 WHERE filename IN (`+in+`)`, args...)
	return err
}

// MarkReferenced clears the orphan flag; false when no such file exists
func (t *storeTx) MarkReferenced(filename string) (bool, error) {
	res, err := t.tx.Exec(`UPDATE files SET orphan = 0 WHERE filename = ?`, filename)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkDuplicate flags a file referenced more than once in the toctree
func (t *storeTx) MarkDuplicate(filename string) error {
	_, err := t.tx.Exec(`UPDATE files SET duplicate = 1 WHERE filename = ?`, filename)
	return err
}

// SetLinkState records a link's resolved target and validity
func (t *storeTx) SetLinkState(linkID int64, targetFileID *int64, valid bool) error {
	_, err := t.tx.Exec(`UPDATE inlinks SET target_file_id = ?, valid = ? WHERE id = ?`,
		nullInt(targetFileID), valid, linkID)
	return err
}

// TouchRun stamps the run id and last update time
func (t *storeTx) TouchRun(runID string, at time.Time) error {
	clock := at.UTC().Format(time.RFC3339Nano)
	if _, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('db_last_update', ?)`, clock); err != nil {
		return err
	}
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_run_id', ?)`, runID)
	return err
}

// Commit commits the transaction
func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *storeTx) Rollback() error {
	return t.tx.Rollback()
}

// nullInt returns nil for absent ids (for nullable columns)
func nullInt(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// nullString returns nil for absent strings (for nullable columns)
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
