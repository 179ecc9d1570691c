package locks

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockFileIsExclusiveUntilReleased(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "changelog", "feature", "a.yml")

	unlock, err := LockFile(dir, target)
	require.NoError(t, err)

	_, err = LockFile(dir, target)
	assert.Error(t, err, "second lock on the same file must fail")

	other, err := LockFile(dir, target+".other")
	require.NoError(t, err, "locks on different files are independent")
	other()

	unlock()
	again, err := LockFile(dir, target)
	require.NoError(t, err)
	again()
}

func TestLockRepo(t *testing.T) {
	gitDir := t.TempDir()
	unlock, err := LockRepo(gitDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(gitDir, "git-me", "repo.lock"))

	_, err = LockRepo(gitDir)
	assert.Error(t, err)
	unlock()
}
