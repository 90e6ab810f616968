package ports

import "mdlint/internal/domain"

// DocumentSource enumerates markdown files and reads their text
type DocumentSource interface {
	// Enumerate resolves a root path (file or directory) into the working set
	Enumerate(root string) (*domain.Workspace, error)

	// ReadLines returns the file's lines in order; the handle is released before returning
	ReadLines(path string) ([]string, error)
}
