package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"mdlint/internal/domain"
	"mdlint/internal/ports"
)

// ErrNotDocument is returned when the root is neither a regular file nor a directory
var ErrNotDocument = errors.New("neither a file nor a directory")

const maxLineSize = 1024 * 1024

// Source implements ports.DocumentSource using the local filesystem
type Source struct {
	toctree string
	include []string
	exclude []string
}

// Ensure Source implements DocumentSource
var _ ports.DocumentSource = (*Source)(nil)

// NewSource creates a source. Include defaults to every *.md in the root directory.
func NewSource(toctree string, include, exclude []string) *Source {
	if len(include) == 0 {
		include = []string{"*.md"}
	}
	return &Source{
		toctree: toctree,
		include: include,
		exclude: exclude,
	}
}

// Enumerate resolves root into a workspace with fully-qualified paths
func (s *Source) Enumerate(root string) (*domain.Workspace, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(root, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, root[1:])
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Pointing at the toctree means "the book it describes"
	if s.toctree != "" && filepath.Base(abs) == s.toctree {
		abs = filepath.Dir(abs)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	switch {
	case info.Mode().IsRegular():
		dir := s.bookDir(filepath.Dir(abs))
		name, err := filepath.Rel(dir, abs)
		if err != nil {
			return nil, err
		}
		return &domain.Workspace{
			Dir: dir,
			Documents: []domain.Document{{
				Name:    filepath.ToSlash(name),
				Path:    abs,
				ModTime: info.ModTime(),
			}},
			SingleFile: true,
		}, nil

	case info.IsDir():
		docs, err := s.scanDir(abs)
		if err != nil {
			return nil, err
		}
		return &domain.Workspace{Dir: abs, Documents: docs}, nil

	default:
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDocument)
	}
}

// bookDir returns the nearest directory at or above dir holding the toctree,
// or dir itself when there is none
func (s *Source) bookDir(dir string) string {
	if s.toctree == "" {
		return dir
	}
	for cur := dir; ; {
		if info, err := os.Stat(filepath.Join(cur, filepath.FromSlash(s.toctree))); err == nil && info.Mode().IsRegular() {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

func (s *Source) scanDir(dir string) ([]domain.Document, error) {
	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var docs []domain.Document

	for _, pattern := range s.include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("bad include pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad include pattern %q: %w", pattern, err)
		}

		for _, name := range matches {
			if seen[name] || isHidden(name) || s.excluded(name) {
				continue
			}
			seen[name] = true

			info, err := fs.Stat(fsys, name)
			if err != nil {
				continue // Vanished between glob and stat
			}

			docs = append(docs, domain.Document{
				Name:    name,
				Path:    filepath.Join(dir, filepath.FromSlash(name)),
				ModTime: info.ModTime(),
			})
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})

	return docs, nil
}

func (s *Source) excluded(name string) bool {
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// isHidden reports whether any path segment is a dotfile or dot-directory
func isHidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// ReadLines returns a file's lines; the handle is closed before returning
func (s *Source) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return lines, nil
}
