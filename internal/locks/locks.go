package locks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/dwarflabs/git-me/internal/logs"
)

// Lock files live outside the working tree so holding one never makes the
// tree look dirty. One operator, one invocation: a held lock is an error,
// not something to wait for.

// LockRepo takes the repository-wide lock inside gitDir.
func LockRepo(gitDir string) (func(), error) {
	return acquire(filepath.Join(gitDir, "git-me", "repo.lock"), "repository")
}

// LockFile takes an exclusive lock for target, keyed by its path, inside dir.
func LockFile(dir, target string) (func(), error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(abs)
	return acquire(filepath.Join(dir, name+".lock"), target)
}

func acquire(path, what string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	logs.Debug("Acquiring lock %s...", path)
	start := time.Now()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", what, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s is locked by another git-me invocation (%s)", what, path)
	}
	logs.Debug("Lock %s acquired (waited %v).", path, time.Since(start))

	return func() {
		if err := fl.Unlock(); err != nil {
			logs.Warn("Failed to release lock %s: %v", path, err)
			return
		}
		logs.Debug("Lock %s released.", path)
	}, nil
}
