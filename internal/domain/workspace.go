package domain

import "time"

// Document is a markdown file discovered on disk
type Document struct {
	Name    string // Store key: slash-separated path relative to Workspace.Dir
	Path    string // Fully-qualified path on disk
	ModTime time.Time
}

// Workspace is the enumerated set of documents for one run
type Workspace struct {
	Dir        string
	Documents  []Document
	SingleFile bool // Root named a single file; absence of others means nothing
}

// Names returns the store keys of all documents in order
func (w *Workspace) Names() []string {
	names := make([]string, len(w.Documents))
	for i, d := range w.Documents {
		names[i] = d.Name
	}
	return names
}

// ChangeSet is what the change tracker decided for a workspace
type ChangeSet struct {
	Changed []Document
	Deleted []string
}
