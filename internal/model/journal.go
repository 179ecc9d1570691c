package model

import "time"

// Step names a side effect of the branch lifecycle that has completed.
type Step string

const (
	StepBranch       Step = "branch"
	StepPush         Step = "push"
	StepUpstream     Step = "upstream"
	StepMergeRequest Step = "merge_request"
	StepReview       Step = "review"
	StepFinished     Step = "finished"
	StepNotified     Step = "notified"
)

// BranchRecord tracks how far a branch got through its lifecycle so a rerun
// after a failure can tell which side effects already happened.
type BranchRecord struct {
	Branch       string    `yaml:"branch"`
	Kind         string    `yaml:"kind"`
	Base         string    `yaml:"base"`
	ProjectID    int       `yaml:"project_id,omitempty"`
	MergeRequest int       `yaml:"merge_request,omitempty"`
	Steps        []Step    `yaml:"steps,omitempty"`
	RunID        string    `yaml:"run_id,omitempty"`
	CreatedBy    string    `yaml:"created_by,omitempty"`
	CreatedAt    time.Time `yaml:"created_at,omitempty"`
	UpdatedAt    time.Time `yaml:"updated_at,omitempty"`
}

// Done reports whether step has been recorded.
func (r *BranchRecord) Done(step Step) bool {
	for _, s := range r.Steps {
		if s == step {
			return true
		}
	}
	return false
}

// Mark records step once.
func (r *BranchRecord) Mark(step Step) {
	if !r.Done(step) {
		r.Steps = append(r.Steps, step)
	}
	r.UpdatedAt = time.Now()
}

// Journal maps branch names to their records.
type Journal map[string]*BranchRecord
