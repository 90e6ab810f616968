package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mdlint/internal/domain"
	"mdlint/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// DefaultPath is the store file created in the working directory
const DefaultPath = "mdlint.db"

// Child tables first so drops never trip a foreign key
var tables = []string{"exlinks", "inlinks", "headings", "files", "meta"}

const schema = `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		last_update INTEGER NOT NULL DEFAULT 0,
		orphan INTEGER NOT NULL DEFAULT 1,
		duplicate INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS headings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		anchor TEXT NOT NULL,
		file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		line INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS inlinks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		target_file_id INTEGER REFERENCES files(id) ON DELETE SET NULL,
		target TEXT NOT NULL,
		valid INTEGER NOT NULL,
		malformed INTEGER NOT NULL DEFAULT 0,
		line INTEGER NOT NULL,
		link_text TEXT NOT NULL,
		anchor TEXT
	);
	CREATE TABLE IF NOT EXISTS exlinks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		href TEXT NOT NULL,
		file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		line INTEGER NOT NULL,
		valid INTEGER NOT NULL DEFAULT 0,
		last_check TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_headings_file_anchor ON headings(file_id, anchor);
	CREATE INDEX IF NOT EXISTS idx_inlinks_source ON inlinks(source_file_id);
	CREATE INDEX IF NOT EXISTS idx_inlinks_target ON inlinks(target_file_id);
	CREATE INDEX IF NOT EXISTS idx_exlinks_file ON exlinks(file_id);
`

// Store implements ports.GraphStore using SQLite
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Ensure Store implements GraphStore
var _ ports.GraphStore = (*Store)(nil)

// Open opens (creating if needed) the store at path.
// With rebuild set, every table is dropped and recreated empty.
func Open(path string, rebuild bool) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One run, one thread of control: a single connection keeps
	// transactions and reads on the same view of the data.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}

	if rebuild {
		if err := s.dropAll(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to drop tables: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if err := s.initMeta(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return s, nil
}

// Path returns the store file location
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) dropAll() error {
	for _, table := range tables {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return err
		}
	}
	return nil
}

// initMeta records creation once; the last update only moves when a run completes
func (s *Store) initMeta() error {
	clock := s.now().UTC().Format(time.RFC3339Nano)

	if _, err := s.db.Exec(`INSERT OR IGNORE INTO meta (key, value) VALUES ('db_created', ?)`, clock); err != nil {
		return err
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO meta (key, value) VALUES ('db_last_update', ?)`, clock); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// Metadata returns the run bookkeeping
func (s *Store) Metadata() (*domain.RunMetadata, error) {
	rows, err := s.db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := &domain.RunMetadata{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		var err error
		switch key {
		case "db_created":
			meta.Created, err = time.Parse(time.RFC3339Nano, value)
		case "db_last_update":
			meta.LastUpdate, err = time.Parse(time.RFC3339Nano, value)
		case "last_run_id":
			meta.LastRunID = value
		}
		if err != nil {
			return nil, fmt.Errorf("corrupt meta %s: %w", key, err)
		}
	}

	return meta, rows.Err()
}

const fileColumns = `id, filename, last_update, orphan, duplicate`

func scanFile(row interface{ Scan(...any) error }) (*domain.File, error) {
	var f domain.File
	if err := row.Scan(&f.ID, &f.Filename, &f.LastUpdate, &f.Orphan, &f.Duplicate); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFiles returns every known file ordered by filename
func (s *Store) ListFiles() ([]domain.File, error) {
	rows, err := s.db.Query(`SELECT ` + fileColumns + ` FROM files ORDER BY filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}

	return files, rows.Err()
}

// GetFile retrieves a file by filename, nil when unknown
func (s *Store) GetFile(filename string) (*domain.File, error) {
	f, err := scanFile(s.db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE filename = ?`, filename))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

// GetFileByID retrieves a file by id, nil when unknown
func (s *Store) GetFileByID(id int64) (*domain.File, error) {
	f, err := scanFile(s.db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

// Orphans returns the filenames still flagged orphan, ordered by filename
func (s *Store) Orphans(exempt ...string) ([]string, error) {
	query := `SELECT filename FROM files WHERE orphan = 1`
	args := make([]any, 0, len(exempt))
	if len(exempt) > 0 {
		query += ` AND filename NOT IN (` + placeholders(len(exempt)) + `)`
		for _, name := range exempt {
			args = append(args, name)
		}
	}
	query += ` ORDER BY filename`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Headings returns a file's headings in line order
func (s *Store) Headings(fileID int64) ([]domain.Heading, error) {
	rows, err := s.db.Query(`
		SELECT id, anchor, file_id, line
		FROM headings WHERE file_id = ?
		ORDER BY line, id
	`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headings []domain.Heading
	for rows.Next() {
		var h domain.Heading
		if err := rows.Scan(&h.ID, &h.Anchor, &h.FileID, &h.Line); err != nil {
			return nil, err
		}
		headings = append(headings, h)
	}

	return headings, rows.Err()
}

// HasAnchor reports whether a file has a heading with the given anchor
func (s *Store) HasAnchor(fileID int64, anchor string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM headings WHERE file_id = ? AND anchor = ?)
	`, fileID, strings.ToLower(anchor)).Scan(&exists)
	return exists, err
}

const linkColumns = `id, source_file_id, target_file_id, target, valid, malformed, line, link_text, anchor`

func (s *Store) queryLinks(query string, args ...any) ([]domain.InternalLink, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.InternalLink
	for rows.Next() {
		var l domain.InternalLink
		var targetID sql.NullInt64
		var anchor sql.NullString
		if err := rows.Scan(&l.ID, &l.SourceFileID, &targetID, &l.Target, &l.Valid, &l.Malformed, &l.Line, &l.LinkText, &anchor); err != nil {
			return nil, err
		}
		if targetID.Valid {
			id := targetID.Int64
			l.TargetFileID = &id
		}
		if anchor.Valid {
			a := anchor.String
			l.Anchor = &a
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// InternalLinks returns every internal link recorded for a source file
func (s *Store) InternalLinks(sourceFileID int64) ([]domain.InternalLink, error) {
	return s.queryLinks(`
		SELECT `+linkColumns+`
		FROM inlinks WHERE source_file_id = ?
		ORDER BY line, id
	`, sourceFileID)
}

// InvalidLinks returns the links of a source file that failed validation
func (s *Store) InvalidLinks(sourceFileID int64) ([]domain.InternalLink, error) {
	return s.queryLinks(`
		SELECT `+linkColumns+`
		FROM inlinks WHERE source_file_id = ? AND valid = 0
		ORDER BY line, id
	`, sourceFileID)
}

// ExternalLinks returns every external link recorded for a file
func (s *Store) ExternalLinks(fileID int64) ([]domain.ExternalLink, error) {
	rows, err := s.db.Query(`
		SELECT id, href, file_id, line, valid, last_check
		FROM exlinks WHERE file_id = ?
		ORDER BY line, id
	`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.ExternalLink
	for rows.Next() {
		var l domain.ExternalLink
		var lastCheck sql.NullString
		if err := rows.Scan(&l.ID, &l.Href, &l.FileID, &l.Line, &l.Valid, &lastCheck); err != nil {
			return nil, err
		}
		if lastCheck.Valid {
			if t, err := time.Parse(time.RFC3339Nano, lastCheck.String); err == nil {
				l.LastCheck = &t
			}
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// BeginTx starts a new transaction
func (s *Store) BeginTx() (ports.StoreTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

// placeholders returns "?, ?, ..." for n parameters
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
