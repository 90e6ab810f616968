package application

import (
	"sort"

	"mdlint/internal/domain"
)

// Re-export domain types for use by adapters
type (
	File         = domain.File
	InternalLink = domain.InternalLink
	TocReport    = domain.TocReport
	Finding      = domain.Finding
	RunStats     = domain.RunStats
)

// FileLinks groups the invalid links of one source file
type FileLinks struct {
	Filename string
	Links    []domain.InternalLink
}

// LintResult is everything a run produced for the report renderer
type LintResult struct {
	RunID        string
	Toc          *domain.TocReport // nil when the book has no toctree
	InvalidLinks []FileLinks       // Ordered by filename, only files with problems
	Stats        domain.RunStats
}

// Clean reports whether the run found no defects at all
func (r *LintResult) Clean() bool {
	return r.Toc.Clean() && len(r.InvalidLinks) == 0
}

// Findings flattens the result into one list: toctree problems first, then links
func (r *LintResult) Findings() []domain.Finding {
	var findings []domain.Finding

	if r.Toc != nil {
		for _, name := range r.Toc.Duplicates {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingDuplicate,
				Filename: name,
				Detail:   "listed more than once in the toctree",
			})
		}
		for _, name := range r.Toc.Missing {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingMissing,
				Filename: name,
				Detail:   "toctree entry points at a missing file",
			})
		}
		for _, name := range r.Toc.Orphans {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingOrphan,
				Filename: name,
				Detail:   "not referenced from the toctree",
			})
		}
	}

	for _, fl := range r.InvalidLinks {
		for _, l := range fl.Links {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingBrokenLink,
				Filename: fl.Filename,
				Line:     l.Line,
				Detail:   DescribeLink(l),
			})
		}
	}

	return findings
}

// DescribeLink renders a link's target the way it was written, with a reason
func DescribeLink(l domain.InternalLink) string {
	target := l.Target
	if l.HasAnchor() {
		target += "#" + l.AnchorString()
	}

	reason := "target file not found"
	switch {
	case l.Malformed:
		reason = "malformed target"
	case l.TargetFileID != nil && l.HasAnchor():
		reason = "anchor not found"
	}

	return "[" + l.LinkText + "](" + target + "): " + reason
}

// SortFileLinks orders grouped links by filename
func SortFileLinks(groups []FileLinks) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Filename < groups[j].Filename
	})
}
