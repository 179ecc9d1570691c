package changelog

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarflabs/git-me/internal/apperr"
)

type fakeEditor struct {
	content string
	err     error
	calls   int
}

func (f *fakeEditor) Edit(path string) error {
	f.calls++
	if f.content != "" {
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return err
		}
	}
	return f.err
}

type fakeStager struct {
	added   []string
	commits []string
}

func (f *fakeStager) Add(path string) error {
	f.added = append(f.added, path)
	return nil
}

func (f *fakeStager) Commit(message string) error {
	f.commits = append(f.commits, message)
	return nil
}

func newEditStore(t *testing.T, editor Editor) (*Store, *fakeStager) {
	t.Helper()
	stager := &fakeStager{}
	s := &Store{Root: t.TempDir(), Editor: editor, VCS: stager, LockDir: t.TempDir()}
	return s, stager
}

func TestEditWithMessageStagesAndCommits(t *testing.T) {
	editor := &fakeEditor{}
	s, stager := newEditStore(t, editor)

	msg := "did a thing"
	path, err := s.Edit("feature/a", true, &msg)
	require.NoError(t, err)

	assert.Zero(t, editor.calls, "a message skips the editor")
	assert.Equal(t, []string{path}, stager.added)
	assert.Equal(t, []string{"update changelog for feature/a"}, stager.commits)

	ok, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEditOpensEditorOnStub(t *testing.T) {
	editor := &fakeEditor{content: "Artists: {}\nTechnical:\n  General:\n    - refactor Y\n"}
	s, stager := newEditStore(t, editor)

	path, err := s.Edit("hotfix/b", false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, editor.calls)
	assert.Equal(t, []string{path}, stager.added)
	assert.Empty(t, stager.commits)
}

func TestEditRejectsUntouchedStub(t *testing.T) {
	s, stager := newEditStore(t, &fakeEditor{})

	_, err := s.Edit("feature/a", true, nil)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Empty(t, stager.added, "an invalid changelog is never staged")
	assert.FileExists(t, s.Resolve("feature/a"))
}

func TestEditRejectsTabsWrittenByEditor(t *testing.T) {
	s, _ := newEditStore(t, &fakeEditor{content: "Artists:\n  General:\n    - \"a\tb\"\nTechnical: {}\n"})

	_, err := s.Edit("feature/a", false, nil)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestEditReportsEditorFailure(t *testing.T) {
	s, stager := newEditStore(t, &fakeEditor{err: errors.New("exit status 1")})

	_, err := s.Edit("feature/a", false, nil)
	assert.True(t, errors.Is(err, apperr.ErrEditor))
	assert.Empty(t, stager.added)
}

func TestEditReleasesLockOnFailure(t *testing.T) {
	s, _ := newEditStore(t, &fakeEditor{})

	_, err := s.Edit("feature/a", false, nil)
	require.Error(t, err)

	msg := "second attempt"
	_, err = s.Edit("feature/a", false, &msg)
	assert.NoError(t, err)
}

func TestEditWithEmptyMessageKeepsMessageMode(t *testing.T) {
	editor := &fakeEditor{content: "Artists: {}\nTechnical:\n  General:\n    - from the editor\n"}
	s, stager := newEditStore(t, editor)

	msg := ""
	_, err := s.Edit("feature/a", false, &msg)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Zero(t, editor.calls, "an empty message never falls back to the editor")
	assert.Empty(t, stager.added)
}
