package ports

import (
	"time"

	"mdlint/internal/domain"
)

// GraphStore provides persisted access to the file/heading/link graph.
// Reads go straight to the store; every mutation goes through a StoreTx.
type GraphStore interface {
	// Lifecycle
	Close() error
	Metadata() (*domain.RunMetadata, error)

	// File queries
	ListFiles() ([]domain.File, error)
	GetFile(filename string) (*domain.File, error)
	GetFileByID(id int64) (*domain.File, error)
	Orphans(exempt ...string) ([]string, error)

	// Heading queries
	Headings(fileID int64) ([]domain.Heading, error)
	HasAnchor(fileID int64, anchor string) (bool, error)

	// Link queries
	InternalLinks(sourceFileID int64) ([]domain.InternalLink, error)
	InvalidLinks(sourceFileID int64) ([]domain.InternalLink, error)
	ExternalLinks(fileID int64) ([]domain.ExternalLink, error)

	// Batch updates
	BeginTx() (StoreTx, error)
}

// StoreTx represents a transaction for atomic graph updates
type StoreTx interface {
	// File operations
	EnsureFile(filename string) (int64, error)
	UpsertFile(filename string, lastUpdate int64) (int64, error)
	DeleteFile(filename string) error
	LookupFile(filename string) (*domain.File, error)

	// Derived rows, replaced wholesale on every re-parse
	ReplaceHeadings(fileID int64, headings []domain.Heading) error
	ReplaceInternalLinks(fileID int64, links []domain.InternalLink) error
	ReplaceExternalLinks(fileID int64, links []domain.ExternalLink) error

	// Toctree flags
	ResetTocFlags(exempt ...string) error
	MarkReferenced(filename string) (bool, error)
	MarkDuplicate(filename string) error

	// Link validation
	SetLinkState(linkID int64, targetFileID *int64, valid bool) error

	// Run bookkeeping
	TouchRun(runID string, at time.Time) error

	// Transaction control
	Commit() error
	Rollback() error
}
