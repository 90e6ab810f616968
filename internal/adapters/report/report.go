package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mdlint/internal/application"
)

// Width of a section header line
const width = 75

const tocShort = `
Report on errors found in %[1]s.  Currently, MDLint is able to identify
two categories of errors in the GitBook toctree: duplicates and orphans.
`

const tocLong = `
Entries that it identifies as DUPLICATION indicates that there are two or more
instances of this file in the table of contents.  This is a problem because GitBook
only parses the first instance of a file in the toctree and ignores both all other
instances and any files nested under all other instances, which can indicate that a
significant body of the project is not rendering to output.

Meanwhile, files identified as ORPHANS are files present in the source repository,
but absent in the table of contents.  These files do not appear in the output at all.
`

const tocMissing = `
No %[1]s was found in the repository, so the toctree was not checked.
`

const linksText = `
Report on internal links whose target file or anchor could not be found.
Anchors are derived from headings: lower-cased, spaces become hyphens.
`

// Renderer writes the human-readable report
type Renderer struct {
	out     io.Writer
	toctree string

	header  lipgloss.Style
	section lipgloss.Style
	problem lipgloss.Style
	muted   lipgloss.Style
}

// New creates a renderer; color is only emitted when out is a terminal
func New(out io.Writer, toctree string) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:     out,
		toctree: toctree,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		section: r.NewStyle().Bold(true),
		problem: r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Render writes the full report: toctree section, then broken links
func (r *Renderer) Render(result *application.LintResult) error {
	var b strings.Builder
	r.writeToc(&b, result)
	b.WriteString("\n")
	r.writeLinks(&b, result)
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Summary writes a single line with the defect counts
func (r *Renderer) Summary(result *application.LintResult) error {
	var dup, orph, missing int
	if result.Toc != nil {
		dup, orph, missing = len(result.Toc.Duplicates), len(result.Toc.Orphans), len(result.Toc.Missing)
	}

	line := fmt.Sprintf("%d files, %d parsed, %d links checked: %d broken, %d duplicates, %d orphans",
		result.Stats.FilesScanned, result.Stats.FilesParsed, result.Stats.LinksChecked,
		result.Stats.LinksInvalid, dup, orph)
	if missing > 0 {
		line += fmt.Sprintf(", %d missing", missing)
	}

	style := r.muted
	if !result.Clean() {
		style = r.problem
	}
	_, err := fmt.Fprintln(r.out, style.Render(line))
	return err
}

func (r *Renderer) writeToc(b *strings.Builder, result *application.LintResult) {
	toc := result.Toc
	if toc == nil {
		r.writeHeading(b, r.toctree, fmt.Sprintf(tocMissing, r.toctree))
		return
	}

	text := fmt.Sprintf(tocShort, r.toctree)
	if len(toc.Duplicates) > 0 || len(toc.Orphans) > 0 {
		text += tocLong
	}
	r.writeHeading(b, r.toctree, text)

	r.writeList(b, "DUPLICATES:", toc.Duplicates, "No duplicate files found.")
	b.WriteString("\n")
	r.writeList(b, "ORPHANS:", toc.Orphans, "No orphan files found.")
	if len(toc.Missing) > 0 {
		b.WriteString("\n")
		r.writeList(b, "MISSING:", toc.Missing, "")
	}
}

func (r *Renderer) writeLinks(b *strings.Builder, result *application.LintResult) {
	r.writeHeading(b, "Internal links", linksText)
	b.WriteString("  " + r.section.Render("BROKEN LINKS:") + "\n")

	if len(result.InvalidLinks) == 0 {
		b.WriteString("   No broken links found.\n")
		return
	}

	for _, fl := range result.InvalidLinks {
		b.WriteString("   " + fl.Filename + "\n")
		for _, l := range fl.Links {
			fmt.Fprintf(b, "     - line %d: %s\n", l.Line, r.problem.Render(application.DescribeLink(l)))
		}
	}
}

// writeHeading writes "title  -----" padded to width, then the indented text
func (r *Renderer) writeHeading(b *strings.Builder, title, text string) {
	rule := width - (len(title) + 10)
	if rule < 0 {
		rule = 0
	}
	b.WriteString(r.header.Render(title) + "  " + r.muted.Render(strings.Repeat("-", rule)) + "\n")

	for _, line := range strings.Split(text, "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func (r *Renderer) writeList(b *strings.Builder, title string, names []string, fallback string) {
	b.WriteString("  " + r.section.Render(title) + "\n")
	if len(names) == 0 {
		b.WriteString("   " + fallback + "\n")
		return
	}
	for _, name := range names {
		b.WriteString("    - " + r.problem.Render(name) + "\n")
	}
}
