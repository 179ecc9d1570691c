package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultSection is the section a new changelog starts with, and where a
// message taken from a commit is filed.
const DefaultSection = "General"

// Work maps a section title to its note lines.
type Work map[string][]string

// Document is one changelog: notes for artists and notes for engineers.
type Document struct {
	Artists   Work `yaml:"Artists"`
	Technical Work `yaml:"Technical"`
}

// NewStub returns the document written when a branch has no changelog yet.
// It holds one empty line under DefaultSection in both categories, which
// gives the editor something to fill in but never counts as content.
func NewStub() Document {
	return Document{
		Artists:   Work{DefaultSection: {""}},
		Technical: Work{DefaultSection: {""}},
	}
}

// NewWithMessage files msg as the only artists note.
func NewWithMessage(msg string) Document {
	return Document{
		Artists:   Work{DefaultSection: {msg}},
		Technical: Work{},
	}
}

func newEmpty() Document {
	return Document{Artists: Work{}, Technical: Work{}}
}

// ContainsEntries reports whether any line in either category has a
// non-whitespace character.
func (d Document) ContainsEntries() bool {
	return d.Artists.containsEntries() || d.Technical.containsEntries()
}

// IsStub reports whether the document was never filled in.
func (d Document) IsStub() bool {
	return !d.ContainsEntries()
}

// Sections counts the sections of both categories.
func (d Document) Sections() int {
	return len(d.Artists) + len(d.Technical)
}

func (w Work) containsEntries() bool {
	for _, lines := range w {
		if containsSomething(lines) {
			return true
		}
	}
	return false
}

func containsSomething(lines []string) bool {
	for _, line := range lines {
		for _, c := range line {
			if !unicode.IsSpace(c) {
				return true
			}
		}
	}
	return false
}

func parse(content []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Document{}, err
	}
	if doc.Artists == nil {
		doc.Artists = Work{}
	}
	if doc.Technical == nil {
		doc.Technical = Work{}
	}
	return doc, nil
}

func load(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("unable to read changelog file '%s': %w", path, err)
	}
	doc, err := parse(content)
	if err != nil {
		return Document{}, fmt.Errorf("unable to parse changelog '%s': %w", path, err)
	}
	return doc, nil
}

func save(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create changelog folder: %w", err)
	}
	if doc.Artists == nil {
		doc.Artists = Work{}
	}
	if doc.Technical == nil {
		doc.Technical = Work{}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("unable to encode changelog: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("unable to write changelog '%s': %w", path, err)
	}
	return nil
}
