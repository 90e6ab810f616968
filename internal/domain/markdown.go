package domain

import (
	"path"
	"strings"
)

// slugPipeline is applied in order; " - " must collapse before spaces become hyphens
var slugPipeline = []struct {
	old, new string
}{
	{"`", ""},
	{" - ", "--"},
	{`"`, ""},
	{"'", ""},
	{" ", "-"},
}

// Slug converts raw heading text into its anchor
func Slug(text string) string {
	for _, sub := range slugPipeline {
		text = strings.ReplaceAll(text, sub.old, sub.new)
	}
	return strings.ToLower(text)
}

// ParseHeading returns the anchor of an ATX heading line.
// The marker is one or more '#' followed by a space; an empty heading yields false.
func ParseHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	rest := strings.TrimLeft(line, "#")
	if !strings.HasPrefix(rest, " ") {
		return "", false
	}
	text := strings.TrimSpace(rest)
	if text == "" {
		return "", false
	}
	return Slug(text), true
}

// LinkMatch is an inline link as it appears in the text
type LinkMatch struct {
	Title     string
	Target    string
	Line      int
	Malformed bool
}

// ParseLinks extracts every [title](target) on a line, left to right.
// Images are skipped. An unterminated target is returned as malformed.
func ParseLinks(line string, lineNo int) []LinkMatch {
	var links []LinkMatch

	i := 0
	for i < len(line) {
		open := strings.IndexByte(line[i:], '[')
		if open < 0 {
			break
		}
		open += i

		closing := strings.IndexByte(line[open+1:], ']')
		if closing < 0 {
			break
		}
		closing += open + 1

		if closing+1 >= len(line) || line[closing+1] != '(' {
			i = open + 1
			continue
		}

		start := closing + 2
		end := matchParen(line, start)
		image := open > 0 && line[open-1] == '!'

		if end < 0 {
			if !image {
				links = append(links, LinkMatch{
					Title:     line[open+1 : closing],
					Target:    line[start:],
					Line:      lineNo,
					Malformed: true,
				})
			}
			break
		}

		if !image {
			target := line[start:end]
			links = append(links, LinkMatch{
				Title:     line[open+1 : closing],
				Target:    target,
				Line:      lineNo,
				Malformed: strings.ContainsAny(target, `"\`),
			})
		}
		i = end + 1
	}

	return links
}

// matchParen returns the index of the ')' closing a '(' that ends just before start
func matchParen(line string, start int) int {
	depth := 1
	for j := start; j < len(line); j++ {
		switch line[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// LinkTarget is a link target split into its parts
type LinkTarget struct {
	External bool
	File     string  // File part as written, empty for same-file anchors
	Anchor   *string // Lower-cased fragment, nil when absent
	SameFile bool    // Target began with '#'
}

// IsExternal reports whether target is an absolute http(s) URL
func IsExternal(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// SplitTarget classifies a raw link target
func SplitTarget(target string) LinkTarget {
	if IsExternal(target) {
		return LinkTarget{External: true}
	}

	file, fragment, found := strings.Cut(target, "#")
	if !found {
		return LinkTarget{File: file}
	}
	anchor := strings.ToLower(fragment)
	return LinkTarget{File: file, Anchor: &anchor, SameFile: file == ""}
}

// ResolveTarget maps a link's file part onto a store key, relative to the source file.
// An empty file part addresses the source itself.
func ResolveTarget(source, file string) string {
	if file == "" {
		return source
	}
	if strings.HasPrefix(file, "/") {
		return path.Clean(strings.TrimPrefix(file, "/"))
	}
	return path.Join(path.Dir(source), file)
}

// ParsedDocument holds everything the parser derives from one file
type ParsedDocument struct {
	Headings      []Heading
	InternalLinks []InternalLink
	ExternalLinks []ExternalLink
}

// ParseDocument runs heading and link extraction over a file's lines.
// IDs and file references are left for the store to fill in.
func ParseDocument(name string, lines []string) *ParsedDocument {
	doc := &ParsedDocument{}

	for i, line := range lines {
		lineNo := i + 1

		if anchor, ok := ParseHeading(line); ok {
			doc.Headings = append(doc.Headings, Heading{Anchor: anchor, Line: lineNo})
		}

		for _, m := range ParseLinks(line, lineNo) {
			target := SplitTarget(m.Target)
			if target.External {
				doc.ExternalLinks = append(doc.ExternalLinks, ExternalLink{
					Href: m.Target,
					Line: lineNo,
				})
				continue
			}

			// an empty target names no file and never resolves
			resolved := ""
			if target.SameFile || target.File != "" {
				resolved = ResolveTarget(name, target.File)
			}

			doc.InternalLinks = append(doc.InternalLinks, InternalLink{
				Target:    resolved,
				Valid:     !m.Malformed,
				Malformed: m.Malformed,
				Line:      lineNo,
				LinkText:  m.Title,
				Anchor:    target.Anchor,
			})
		}
	}

	return doc
}
