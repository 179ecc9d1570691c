package changelog

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/locks"
	"github.com/dwarflabs/git-me/internal/logs"
)

// Editor hands a file to the operator and returns once they are done.
type Editor interface {
	Edit(path string) error
}

// Stager records an edited changelog in version control.
type Stager interface {
	Add(path string) error
	Commit(message string) error
}

// ExecEditor runs an external editor program, e.g. "vi".
type ExecEditor struct {
	Program string
}

// Edit runs the editor attached to the terminal. Interrupts are left to the
// editor while it runs so the caller always gets control back.
func (e ExecEditor) Edit(path string) error {
	program := e.Program
	if program == "" {
		program = "vi"
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	cmd := exec.Command(program, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to execute %s: %w", program, err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("failed to wait on %s: %w", program, err)
	}
	return nil
}

// Edit updates the changelog for name. With a message the document is
// replaced by one holding just that message, even an empty one, otherwise
// the editor is opened on it. The result must contain entries; it is then staged and, if
// commit is set, committed.
func (s *Store) Edit(name string, commit bool, message *string) (string, error) {
	path := s.Resolve(name)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := s.CreateStub(name); err != nil {
			return "", err
		}
	}

	if err := s.session(path, func() error {
		if message != nil {
			_, err := s.CreateWithMessage(name, *message)
			return err
		}
		if s.Editor == nil {
			return apperr.Editor(fmt.Errorf("no editor configured"), "cannot edit '%s'", path)
		}
		if err := s.Editor.Edit(path); err != nil {
			return apperr.Editor(err, "editing '%s' failed", path)
		}
		return nil
	}); err != nil {
		return "", err
	}

	if s.VCS == nil {
		return path, nil
	}
	if err := s.VCS.Add(path); err != nil {
		return "", err
	}
	if commit {
		if err := s.VCS.Commit("update changelog for " + name); err != nil {
			return "", err
		}
	}
	return path, nil
}

// session holds the lock on path while change runs and validates the file
// on the way out, whether change succeeded or not.
func (s *Store) session(path string, change func() error) (err error) {
	unlock, err := locks.LockFile(s.lockDir(), path)
	if err != nil {
		return err
	}
	defer unlock()

	defer func() {
		ok, verr := Validate(path)
		switch {
		case err != nil:
			if verr != nil || !ok {
				logs.Warn("Changelog %s is not valid after a failed edit", path)
			}
		case verr != nil:
			err = verr
		case !ok:
			err = apperr.Validation("changelog '%s' not valid: it has no entries", path)
		}
	}()

	return change()
}

func (s *Store) lockDir() string {
	if s.LockDir != "" {
		return s.LockDir
	}
	return filepath.Join(os.TempDir(), "git-me-locks")
}
