package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/model"
)

// JournalFileName is kept inside the .git directory so it never shows up as a
// working tree change.
const JournalFileName = "journal.yaml"

// Journal persists per-branch lifecycle progress.
type Journal struct {
	path string
}

// NewJournal returns the journal kept under gitDir.
func NewJournal(gitDir string) *Journal {
	return &Journal{path: filepath.Join(gitDir, "git-me", JournalFileName)}
}

// Path returns the file backing the journal.
func (j *Journal) Path() string {
	return j.path
}

// Load reads the journal from disk. A missing file is an empty journal.
func (j *Journal) Load() (model.Journal, error) {
	if _, err := os.Stat(j.path); os.IsNotExist(err) {
		logs.Debug("No journal found at %s. Starting a new one.", j.path)
		return model.Journal{}, nil
	}
	content, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	var jr model.Journal
	if err := yaml.Unmarshal(content, &jr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal: %w", err)
	}
	if jr == nil {
		jr = model.Journal{}
	}
	return jr, nil
}

// Save writes the journal to disk.
func (j *Journal) Save(jr model.Journal) error {
	out, err := yaml.Marshal(jr)
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	if err := os.WriteFile(j.path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// Get returns the record for branch, or nil.
func (j *Journal) Get(branch string) (*model.BranchRecord, error) {
	jr, err := j.Load()
	if err != nil {
		return nil, err
	}
	return jr[branch], nil
}

// Reset replaces the record for branch with an empty one under a new run ID,
// forgetting every recorded step.
func (j *Journal) Reset(branch string) error {
	jr, err := j.Load()
	if err != nil {
		return err
	}
	delete(jr, branch)
	if err := j.Save(jr); err != nil {
		return err
	}
	return j.Update(branch, func(*model.BranchRecord) {})
}

// Update applies fn to the record for branch, creating it first if needed,
// and saves the journal.
func (j *Journal) Update(branch string, fn func(*model.BranchRecord)) error {
	jr, err := j.Load()
	if err != nil {
		return err
	}
	rec, ok := jr[branch]
	if !ok {
		now := time.Now()
		rec = &model.BranchRecord{
			Branch:    branch,
			RunID:     uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		jr[branch] = rec
	}
	fn(rec)
	return j.Save(jr)
}
