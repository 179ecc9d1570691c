package changelog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarflabs/git-me/internal/apperr"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolve(t *testing.T) {
	s := NewStore("/repo")
	assert.Equal(t, filepath.FromSlash("/repo/changelog/feature/a.yml"), s.Resolve("feature/a"))
	assert.Equal(t, filepath.FromSlash("changelog/hotfix/b.yml"), NewStore("").Resolve("hotfix/b"))
}

func TestStubIsNeverValid(t *testing.T) {
	s := NewStore(t.TempDir())
	path, err := s.CreateStub("feature/a")
	require.NoError(t, err)

	ok, err := Validate(path)
	require.NoError(t, err)
	assert.False(t, ok)

	doc, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, NewStub(), doc)
	assert.True(t, doc.IsStub())
}

func TestCreateWithMessageIsValid(t *testing.T) {
	s := NewStore(t.TempDir())
	path, err := s.CreateWithMessage("feature/a", "did a thing")
	require.NoError(t, err)

	ok, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, ok)

	doc, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, Work{DefaultSection: {"did a thing"}}, doc.Artists)
	assert.Empty(t, doc.Technical)
}

func TestValidateRejectsTabs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabbed.yml")
	writeFile(t, path, "Artists:\n  General:\n    - \"fixed\tthing\"\nTechnical: {}\n")

	ok, err := Validate(path)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "tabs")
}

func TestValidateRejectsNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accent.yml")
	writeFile(t, path, "Artists:\n  General:\n    - café\nTechnical: {}\n")

	_, err := Validate(path)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "non ascii")
}

func TestValidateWhitespaceOnlyHasNoEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.yml")
	writeFile(t, path, "Artists:\n  General:\n    - '   '\nTechnical:\n  Other:\n    - ''\n")

	ok, err := Validate(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "nope.yml"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestReadFormatted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yml")
	writeFile(t, path, `Artists:
  General:
    - fix X
    - tweak Y
  Skipped:
    - ""
    - not shown
Technical:
  Build:
    - faster builds
  Empty: []
`)

	out, err := ReadFormatted(path)
	require.NoError(t, err)
	assert.Equal(t, "## Artists\n"+
		"### General\n\n- fix X\n\n- tweak Y\n\n"+
		"## Technical\n"+
		"### Build\n\n- faster builds\n\n", out)
}

func TestReadFormattedStubHasOnlyHeadings(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.CreateStub("feature/a")
	require.NoError(t, err)

	out, err := s.ReadFormatted("feature/a")
	require.NoError(t, err)
	assert.Equal(t, "## Artists\n## Technical\n", out)
}
