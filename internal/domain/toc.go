package domain

import (
	"strconv"
	"strings"
)

// TocEntry is one file reference in the toctree, in document order
type TocEntry struct {
	Filename string
	Title    string
	Line     int
}

// ParseTocEntries extracts the file references of a toctree.
// Blank lines and headings are ignored, as are external and same-file links.
func ParseTocEntries(tocName string, lines []string) []TocEntry {
	var entries []TocEntry

	for i, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, m := range ParseLinks(line, i+1) {
			target := SplitTarget(m.Target)
			if target.External || target.File == "" {
				continue
			}
			entries = append(entries, TocEntry{
				Filename: ResolveTarget(tocName, target.File),
				Title:    m.Title,
				Line:     m.Line,
			})
		}
	}

	return entries
}

// Finding kinds surfaced to reviewers
const (
	FindingDuplicate  = "duplicate"
	FindingOrphan     = "orphan"
	FindingMissing    = "missing"
	FindingBrokenLink = "broken-link"
)

// Finding is a single defect, flattened for listing
type Finding struct {
	Kind     string
	Filename string
	Line     int
	Detail   string
}

// Location returns "file:line", or just the file when the line is unknown
func (f Finding) Location() string {
	if f.Line <= 0 {
		return f.Filename
	}
	return f.Filename + ":" + strconv.Itoa(f.Line)
}
