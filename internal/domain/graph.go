package domain

import "time"

// File is a markdown document known to the graph store
type File struct {
	ID         int64
	Filename   string // Slash-separated path relative to the book root (unique)
	LastUpdate int64  // Source mtime (unix nanoseconds) at last successful parse
	Orphan     bool
	Duplicate  bool
}

// Heading is an ATX heading reduced to its anchor slug
type Heading struct {
	ID     int64
	Anchor string
	FileID int64
	Line   int
}

// InternalLink is a link whose target is not an absolute http(s) URL
type InternalLink struct {
	ID           int64
	SourceFileID int64
	TargetFileID *int64 // nil when the target filename is unknown
	Target       string // Resolved target filename, empty for same-file anchors
	Valid        bool
	Malformed    bool // Target contained a quote or backslash
	Line         int
	LinkText     string
	Anchor       *string // nil when the link has no #fragment
}

// HasAnchor reports whether the link addresses a section
func (l InternalLink) HasAnchor() bool {
	return l.Anchor != nil
}

// AnchorString returns the anchor or "" when absent
func (l InternalLink) AnchorString() string {
	if l.Anchor == nil {
		return ""
	}
	return *l.Anchor
}

// ExternalLink is an absolute http(s) link. It is recorded, never fetched.
type ExternalLink struct {
	ID        int64
	Href      string
	FileID    int64
	Line      int
	Valid     bool
	LastCheck *time.Time
}

// RunMetadata is bookkeeping for the whole repository scan
type RunMetadata struct {
	Created    time.Time
	LastUpdate time.Time
	LastRunID  string
}

// TocReport is the outcome of a table-of-contents pass
type TocReport struct {
	Duplicates []string // Second and later occurrences, in document order
	Orphans    []string // Files never referenced, ordered by filename
	Missing    []string // Toctree targets that match no known file
}

// Clean reports whether the toctree pass found nothing to fix
func (r *TocReport) Clean() bool {
	return r == nil || (len(r.Duplicates) == 0 && len(r.Orphans) == 0 && len(r.Missing) == 0)
}

// RunStats holds statistics from a lint run
type RunStats struct {
	FilesScanned  int
	FilesParsed   int
	FilesDeleted  int
	HeadingsAdded int
	LinksAdded    int
	ExternalLinks int
	LinksChecked  int
	LinksInvalid  int
	Duration      time.Duration
}
