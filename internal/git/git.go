package git

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/ui"
)

// Repo wraps the git binary for one working tree.
type Repo struct {
	Dir    string
	Remote string
	// Prompt drives the manual conflict loop during a rebase.
	Prompt ui.Chooser
}

// Open returns a Repo rooted at dir using the given remote.
func Open(dir, remote string) *Repo {
	if remote == "" {
		remote = "origin"
	}
	return &Repo{Dir: dir, Remote: remote, Prompt: ui.Choose}
}

func (r *Repo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	logs.Debug("git %s", strings.Join(args, " "))
	if err != nil {
		return string(out), fmt.Errorf("git %s failed: %v\n%s", args[0], err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// EnsureClean fails with a precondition error when the tree has pending changes.
func (r *Repo) EnsureClean() error {
	out, err := r.run("status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}
	if out != "" {
		return apperr.Precondition("working tree not clean; commit or stash changes first:\n%s", out)
	}
	return nil
}

func (r *Repo) BranchExists(branch string) bool {
	_, err := r.run("rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

func (r *Repo) CheckoutNewBranch(branch string) error {
	_, err := r.run("checkout", "-b", branch)
	return err
}

func (r *Repo) Checkout(branch string) error {
	if _, err := r.run("checkout", branch); err != nil {
		return fmt.Errorf("checkout branch '%s' error: %w", branch, err)
	}
	return nil
}

// Push pushes branch to the remote without touching its upstream.
func (r *Repo) Push(branch string) error {
	_, err := r.run("push", r.Remote, branch)
	return err
}

// ForcePush replaces the remote branch after a rebase, refusing to clobber
// commits pushed by someone else in the meantime.
func (r *Repo) ForcePush(branch string) error {
	_, err := r.run("push", "--force-with-lease", r.Remote, branch)
	return err
}

// SetUpstream pushes branch and records the remote branch as its upstream.
func (r *Repo) SetUpstream(branch string) error {
	_, err := r.run("push", "--set-upstream", r.Remote, branch)
	return err
}

func (r *Repo) Add(path string) error {
	_, err := r.run("add", path)
	return err
}

func (r *Repo) Commit(message string) error {
	_, err := r.run("commit", "-m", message)
	return err
}

func (r *Repo) CurrentBranch() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "HEAD")
}

// TopLevel returns the absolute root of the working tree.
func (r *Repo) TopLevel() (string, error) {
	return r.run("rev-parse", "--show-toplevel")
}

// GitDir returns the absolute path of the .git directory.
func (r *Repo) GitDir() (string, error) {
	out, err := r.run("rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to find .git directory: %w", err)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(r.Dir, out)
	}
	return filepath.Abs(out)
}

func (r *Repo) RemoteURL() (string, error) {
	return r.run("remote", "get-url", r.Remote)
}

// LastCommitMessage returns the subject and body of HEAD on a single line.
func (r *Repo) LastCommitMessage() (string, error) {
	out, err := r.run("log", "-1", "--pretty=%B")
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(out, "\n", " ")), " "), nil
}

func (r *Repo) Fetch(branch string) error {
	_, err := r.run("fetch", r.Remote, branch)
	return err
}

// Contains reports whether commit is an ancestor of ref.
func (r *Repo) Contains(ref, commit string) (bool, error) {
	cmd := exec.Command("git", "merge-base", "--is-ancestor", commit, ref)
	cmd.Dir = r.Dir
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("git merge-base failed: %w", err)
}

// Rebase rebases branch onto the remote copy of onto. Conflicts are handed to
// the operator, who resolves them by hand and then continues or aborts.
func (r *Repo) Rebase(branch, onto string) error {
	if err := r.EnsureClean(); err != nil {
		return err
	}
	if err := r.Checkout(branch); err != nil {
		return err
	}
	upstream := r.Remote + "/" + onto
	out, err := r.run("rebase", upstream)
	if err == nil {
		return nil
	}
	if !strings.Contains(out, "CONFLICT") {
		_, _ = r.run("rebase", "--abort")
		return apperr.Precondition("rebase %s onto %s failed:\n%s", branch, upstream, out)
	}
	return r.resolveConflicts()
}

func (r *Repo) resolveConflicts() error {
	ui.Warn("Rebase conflict detected. Resolve the conflicts in your editor and stage them.")
	for {
		choice, err := r.Prompt("Conflicts resolved?", []string{"continue", "abort"})
		if err != nil || choice == "abort" {
			_, _ = r.run("rebase", "--abort")
			return apperr.Precondition("rebase aborted by operator")
		}
		out, err := r.run("-c", "core.editor=true", "rebase", "--continue")
		if err == nil {
			return nil
		}
		if strings.Contains(out, "CONFLICT") || strings.Contains(out, "unmerged") {
			ui.Warn("Conflicts remain. Resolve them and continue again.")
			continue
		}
		return fmt.Errorf("rebase --continue failed: %w", err)
	}
}
