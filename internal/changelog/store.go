package changelog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/logs"
)

const (
	// Dir is the folder, relative to the repository root, holding changelogs.
	Dir = "changelog"
	// Ext marks a changelog as a YAML document.
	Ext = ".yml"
)

// Store reads and writes changelogs below Root/Dir. An empty Root means the
// current directory.
type Store struct {
	Root string

	// Editor opens a file for interactive editing. Required by Edit only.
	Editor Editor
	// VCS stages and commits the edited file. Required by Edit only.
	VCS Stager
	// LockDir holds the lock files taken during an edit session.
	LockDir string
}

// NewStore returns a store rooted at root.
func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Folder returns the directory holding every changelog.
func (s *Store) Folder() string {
	return filepath.Join(s.Root, Dir)
}

// Resolve maps a branch name (or tag) to its changelog path.
func (s *Store) Resolve(name string) string {
	return filepath.Join(s.Folder(), filepath.FromSlash(name)) + Ext
}

// CreateStub writes the default document for name, replacing any existing one.
func (s *Store) CreateStub(name string) (string, error) {
	path := s.Resolve(name)
	if err := save(path, NewStub()); err != nil {
		return "", err
	}
	logs.Debug("Created stub changelog %s", path)
	return path, nil
}

// CreateWithMessage writes a document whose only note is msg.
func (s *Store) CreateWithMessage(name, msg string) (string, error) {
	path := s.Resolve(name)
	if err := save(path, NewWithMessage(msg)); err != nil {
		return "", err
	}
	logs.Debug("Created changelog %s from message", path)
	return path, nil
}

// Verify validates the changelog belonging to name.
func (s *Store) Verify(name string) (bool, error) {
	return Validate(s.Resolve(name))
}

// ReadFormatted renders the changelog belonging to name.
func (s *Store) ReadFormatted(name string) (string, error) {
	return ReadFormatted(s.Resolve(name))
}

// Validate rejects a changelog containing tabs or non-ASCII bytes, then
// reports whether it has any entries. A document without entries is not an
// error here; callers decide whether that is fatal.
func Validate(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, apperr.Validation("changelog '%s' does not exist, run 'git-me changelog edit' first", path)
		}
		return false, fmt.Errorf("unable to read changelog '%s' for validation: %w", path, err)
	}

	if bytes.IndexByte(content, '\t') >= 0 {
		return false, apperr.Validation("changelog '%s' contains tabs", path)
	}
	for _, c := range content {
		if c > 0x7f {
			return false, apperr.Validation("changelog '%s' contains non ascii characters", path)
		}
	}

	doc, err := parse(content)
	if err != nil {
		return false, apperr.Validation("changelog '%s' is malformed: %v", path, err)
	}
	return doc.ContainsEntries(), nil
}

// ReadFormatted renders a changelog as Markdown, artists first. A section is
// left out when its first line is empty.
func ReadFormatted(path string) (string, error) {
	doc, err := load(path)
	if err != nil {
		return "", err
	}
	return Format(doc), nil
}

// Format renders doc as Markdown.
func Format(doc Document) string {
	var b strings.Builder
	b.WriteString("## Artists\n")
	formatWork(&b, doc.Artists)
	b.WriteString("## Technical\n")
	formatWork(&b, doc.Technical)
	return b.String()
}

func formatWork(b *strings.Builder, w Work) {
	for _, title := range sortedTitles(w) {
		lines := w[title]
		if len(lines) == 0 || lines[0] == "" {
			continue
		}
		b.WriteString("### ")
		b.WriteString(title)
		b.WriteString("\n\n")
		for _, line := range lines {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n\n")
		}
	}
}

func sortedTitles(w Work) []string {
	titles := make([]string, 0, len(w))
	for title := range w {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
