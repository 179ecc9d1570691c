package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarflabs/git-me/internal/apperr"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := Open(t.TempDir(), "origin")
	for _, args := range [][]string{
		{"init", "-q", "-b", "develop"},
		{"config", "user.email", "dev@example.com"},
		{"config", "user.name", "Dev"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := r.run(args...)
		require.NoError(t, err)
	}
	commitFile(t, r, "README", "hello\n", "initial\n\nwith body")
	return r
}

func commitFile(t *testing.T, r *Repo, name, content, msg string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o644))
	require.NoError(t, r.Add(name))
	require.NoError(t, r.Commit(msg))
}

func TestEnsureClean(t *testing.T) {
	r := newRepo(t)
	require.NoError(t, r.EnsureClean())

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, "dirty"), []byte("x"), 0o644))
	err := r.EnsureClean()
	assert.True(t, errors.Is(err, apperr.ErrPrecondition))
}

func TestBranchLifecycle(t *testing.T) {
	r := newRepo(t)
	assert.False(t, r.BranchExists("feature/a"))
	require.NoError(t, r.CheckoutNewBranch("feature/a"))
	assert.True(t, r.BranchExists("feature/a"))

	cur, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature/a", cur)
}

func TestLastCommitMessageIsSingleLine(t *testing.T) {
	r := newRepo(t)
	msg, err := r.LastCommitMessage()
	require.NoError(t, err)
	assert.Equal(t, "initial with body", msg)
}

func TestContains(t *testing.T) {
	r := newRepo(t)
	base, err := r.run("rev-parse", "HEAD")
	require.NoError(t, err)

	require.NoError(t, r.CheckoutNewBranch("feature/a"))
	commitFile(t, r, "a", "a\n", "a")
	tip, err := r.run("rev-parse", "HEAD")
	require.NoError(t, err)

	ok, err := r.Contains("feature/a", base)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Contains("develop", tip)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGitDirIsAbsolute(t *testing.T) {
	r := newRepo(t)
	dir, err := r.GitDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.DirExists(t, dir)
}
