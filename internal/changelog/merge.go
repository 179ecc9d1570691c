package changelog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/ui"
)

// NormalizeTitle turns a section title into title case words, so "bugfix",
// "Bugfix" and "BUGFIX" all become "Bugfix" and "ui_tweaks" becomes
// "Ui Tweaks". Digits stay with their word: "v2 fixes" is "V2 Fixes". Every
// key of an aggregate goes through here.
func NormalizeTitle(title string) string {
	lower := cases.Lower(language.Und)
	words := splitWords(title)
	for i, w := range words {
		rs := []rune(lower.String(w))
		rs[0] = unicode.ToTitle(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

// splitWords breaks s on spaces, '_' and '-', and where a lower case letter
// or digit is followed by an upper case one. A run of capitals followed by a
// lower case letter gives up its last capital, so "HTTPServer" is "HTTP" and
// "Server".
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// mergeWork appends every non-blank section of rhs to lhs under its
// normalized title. Blank sections are dropped.
func mergeWork(lhs, rhs Work) {
	for _, title := range sortedTitles(rhs) {
		lines := rhs[title]
		if !containsSomething(lines) {
			continue
		}
		key := NormalizeTitle(title)
		lhs[key] = append(lhs[key], lines...)
	}
}

// Merge folds doc into the aggregate a.
func (a *Document) Merge(doc Document) {
	mergeWork(a.Artists, doc.Artists)
	mergeWork(a.Technical, doc.Technical)
}

// ReleasePrefixes selects the changelogs of feature and hotfix branches.
var ReleasePrefixes = []string{"feature", "hotfix"}

// AggregateResult describes one aggregation run.
type AggregateResult struct {
	Path     string
	Document Document
	// Sources lists the changelogs merged in, in processing order.
	Sources []string
	// Skipped lists changelogs that were never filled in.
	Skipped []string
}

// Empty reports whether the release has no recorded changes.
func (r AggregateResult) Empty() bool {
	return !r.Document.ContainsEntries()
}

// Collect merges every changelog whose path below the changelog folder
// starts with one of prefixes. Files are processed in lexical order.
func (s *Store) Collect(prefixes []string) (AggregateResult, error) {
	files, err := s.matching(prefixes)
	if err != nil {
		return AggregateResult{}, err
	}

	result := AggregateResult{Document: newEmpty()}
	for _, file := range files {
		doc, err := load(file)
		if err != nil {
			return AggregateResult{}, err
		}
		if doc.IsStub() {
			logs.Debug("Skipping unedited changelog %s", file)
			result.Skipped = append(result.Skipped, file)
			continue
		}
		result.Document.Merge(doc)
		result.Sources = append(result.Sources, file)
	}
	return result, nil
}

// Aggregate merges the matching changelogs into a single document for tag and
// writes it next to them, even when it is empty.
func (s *Store) Aggregate(tag string, prefixes []string) (AggregateResult, error) {
	if tag == "" {
		return AggregateResult{}, fmt.Errorf("a tag is required to aggregate changelogs")
	}
	result, err := s.Collect(prefixes)
	if err != nil {
		return AggregateResult{}, err
	}

	if result.Empty() {
		logs.Warn("There are no changes in the changelog for release %s", tag)
		ui.Warn("there are no changes in the changelog for %s", tag)
	}

	result.Path = s.Resolve(tag)
	if err := save(result.Path, result.Document); err != nil {
		return AggregateResult{}, fmt.Errorf("unable to write the aggregate changelog: %w", err)
	}
	logs.Info("Aggregated %d changelog(s) into %s", len(result.Sources), result.Path)
	return result, nil
}

func (s *Store) matching(prefixes []string) ([]string, error) {
	root := s.Folder()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, p := range prefixes {
			if strings.HasPrefix(rel, p) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to list changelogs in '%s': %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
