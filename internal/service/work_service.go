package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/branch"
	"github.com/dwarflabs/git-me/internal/changelog"
	"github.com/dwarflabs/git-me/internal/hooks"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/model"
	"github.com/dwarflabs/git-me/internal/notify"
	"github.com/dwarflabs/git-me/internal/store"
	"github.com/dwarflabs/git-me/internal/ui"
)

// VCS is the local repository.
type VCS interface {
	EnsureClean() error
	BranchExists(branch string) bool
	CheckoutNewBranch(branch string) error
	Checkout(branch string) error
	Push(branch string) error
	ForcePush(branch string) error
	SetUpstream(branch string) error
	CurrentBranch() (string, error)
	RemoteURL() (string, error)
	Fetch(branch string) error
	Contains(ref, commit string) (bool, error)
	Rebase(branch, onto string) error
}

// Remote is the code-hosting server.
type Remote interface {
	Project(ctx context.Context, url string) (model.Project, error)
	User(ctx context.Context, username string) (model.User, error)
	HeadCommit(ctx context.Context, projectID int, branch string) (string, error)
	CreateMergeRequest(ctx context.Context, projectID int, source, target, title string) (model.MergeRequest, error)
	FindMergeRequest(ctx context.Context, projectID int, branch string) (model.MergeRequest, error)
	UpdateMergeRequest(ctx context.Context, projectID, iid int, u model.MergeRequestUpdate) (model.MergeRequest, error)
}

// WorkService drives a feature or hotfix branch from start to review.
type WorkService struct {
	VCS       VCS
	Remote    Remote
	Changelog *changelog.Store
	Sink      notify.Sink
	// Journal is optional. Without it reruns still work, they just redo the
	// idempotent steps.
	Journal  *store.Journal
	Bases    branch.Bases
	Operator func() (string, error)
	Hooks    func(ctx context.Context, event, arg string)
}

// WIPPrefix marks a merge request that is not ready for review.
const WIPPrefix = "WIP: "

// ReviewRequest lists reviewers in priority order. The first one becomes the
// assignee. An empty list just pushes the work.
type ReviewRequest struct {
	Reviewers []string
}

func (r ReviewRequest) Finished() bool {
	return len(r.Reviewers) > 0
}

// Start creates branch kind/name, pushes it and opens a WIP merge request
// into the kind's base. Rerunning Start for the same branch reuses whatever
// already exists.
func (s *WorkService) Start(ctx context.Context, kind branch.Kind, name string) (model.MergeRequest, error) {
	ui.Step("Start %s", kind)
	ui.SubStep("Check nothing to commit")
	if err := s.VCS.EnsureClean(); err != nil {
		return model.MergeRequest{}, err
	}

	ui.SubStep("Check name '%s' is well formed", name)
	if !branch.WellFormed(name) {
		return model.MergeRequest{}, apperr.Validation("your branch name has invalid characters in it '%s'; use lowercase letters, digits, '-' and '_'", name)
	}

	remoteURL, err := s.VCS.RemoteURL()
	if err != nil {
		return model.MergeRequest{}, err
	}
	project, err := s.Remote.Project(ctx, remoteURL)
	if err != nil {
		return model.MergeRequest{}, err
	}

	br := branch.Resolve(kind, name)
	base := s.Bases.Base(kind)
	exists := s.VCS.BranchExists(br)
	if !exists {
		// A recreated branch starts a new run.
		s.resetRecord(br)
	}
	rec := s.record(br)
	s.journal(br, func(r *model.BranchRecord) {
		r.Kind = kind.String()
		r.Base = base
		r.ProjectID = project.ID
		if r.CreatedBy == "" && s.Operator != nil {
			r.CreatedBy, _ = s.Operator()
		}
	})

	ui.SubStep("%s", br)
	if exists {
		logs.Info("Branch '%s' already exists, reusing it", br)
		if err := s.VCS.Checkout(br); err != nil {
			return model.MergeRequest{}, err
		}
	} else if err := s.VCS.CheckoutNewBranch(br); err != nil {
		return model.MergeRequest{}, err
	}
	s.mark(br, model.StepBranch)

	if !rec.Done(model.StepPush) {
		ui.SubStep("push")
		if err := s.VCS.Push(br); err != nil {
			return model.MergeRequest{}, err
		}
		s.mark(br, model.StepPush)
	}

	if !rec.Done(model.StepUpstream) {
		ui.SubStep("set upstream")
		if err := s.VCS.SetUpstream(br); err != nil {
			return model.MergeRequest{}, err
		}
		s.mark(br, model.StepUpstream)
	}

	ui.SubStep("wip merge request")
	mr, err := s.Remote.FindMergeRequest(ctx, project.ID, br)
	switch {
	case err == nil && mr.State == model.MergeRequestOpened:
		logs.Info("Reusing merge request !%d for '%s'", mr.IID, br)
	case err == nil || errors.Is(err, apperr.ErrNotFound):
		mr, err = s.Remote.CreateMergeRequest(ctx, project.ID, br, base, WIPPrefix+br)
		if err != nil {
			return model.MergeRequest{}, err
		}
	default:
		return model.MergeRequest{}, err
	}
	s.journal(br, func(r *model.BranchRecord) {
		r.MergeRequest = mr.IID
		r.Mark(model.StepMergeRequest)
	})

	s.runHooks(ctx, hooks.EventStart, br)
	logs.Info("Started '%s' with merge request !%d", br, mr.IID)
	return mr, nil
}

// Review brings the current branch up to date with its base and pushes it.
// With reviewers it also hands the merge request over for final review and
// announces it on the team channel.
func (s *WorkService) Review(ctx context.Context, req ReviewRequest) error {
	br, kind, err := s.currentWork()
	if err != nil {
		return err
	}

	ui.Step("Review %s", br)
	ui.SubStep("Check outstanding changes")
	if err := s.VCS.EnsureClean(); err != nil {
		return err
	}

	ui.SubStep("Check rebased")
	remoteURL, err := s.VCS.RemoteURL()
	if err != nil {
		return err
	}
	project, err := s.Remote.Project(ctx, remoteURL)
	if err != nil {
		return err
	}
	rebased, err := s.catchUp(ctx, project, br, s.Bases.Base(kind))
	if err != nil {
		return err
	}

	ui.SubStep("Push")
	push := s.VCS.Push
	if rebased {
		push = s.VCS.ForcePush
	}
	if err := push(br); err != nil {
		return err
	}
	s.mark(br, model.StepReview)

	if !req.Finished() {
		s.runHooks(ctx, hooks.EventReview, br)
		logs.Info("Pushed '%s' for review; merge request stays WIP", br)
		return nil
	}

	ui.SubStep("Finished")
	mr, err := s.finish(ctx, project, br, req.Reviewers)
	if err != nil {
		return err
	}
	s.runHooks(ctx, hooks.EventFinished, br)
	logs.Info("Merge request !%d for '%s' handed over for review", mr.IID, br)
	return nil
}

func (s *WorkService) finish(ctx context.Context, project model.Project, br string, reviewers []string) (model.MergeRequest, error) {
	ui.Detail("Check changelog")
	ok, err := s.Changelog.Verify(br)
	if err != nil {
		return model.MergeRequest{}, err
	}
	if !ok {
		return model.MergeRequest{}, apperr.Validation("you've not filled in your changelog for '%s'; run 'git-me changelog edit'", br)
	}

	users := make([]model.User, 0, len(reviewers))
	for _, r := range reviewers {
		ui.Detail("Check %s exists", r)
		u, err := s.Remote.User(ctx, r)
		if err != nil {
			return model.MergeRequest{}, err
		}
		users = append(users, u)
	}

	login, err := s.Operator()
	if err != nil {
		return model.MergeRequest{}, err
	}
	dev, err := s.Remote.User(ctx, login)
	if err != nil {
		return model.MergeRequest{}, err
	}

	description, err := s.Changelog.ReadFormatted(br)
	if err != nil {
		return model.MergeRequest{}, err
	}

	ui.Detail("Remove WIP")
	mr, err := s.Remote.FindMergeRequest(ctx, project.ID, br)
	if err != nil {
		return model.MergeRequest{}, err
	}
	mr, err = s.Remote.UpdateMergeRequest(ctx, project.ID, mr.IID, model.MergeRequestUpdate{
		Title:       br,
		AssigneeID:  users[0].ID,
		Description: description,
		Reopen:      true,
	})
	if err != nil {
		return model.MergeRequest{}, err
	}
	s.journal(br, func(r *model.BranchRecord) {
		r.MergeRequest = mr.IID
		r.Mark(model.StepFinished)
	})

	ui.Detail("Sending merge request to the team channel")
	msg := notify.Message{Title: br, Text: ReviewText(s.Sink, users, mr.WebURL, dev, description)}
	if err := s.Sink.Send(ctx, msg); err != nil {
		return model.MergeRequest{}, err
	}
	s.mark(br, model.StepNotified)
	return mr, nil
}

// ReviewText composes the announcement: one mention per reviewer, the merge
// request URL, the developer's name in italics, a rule, then the changelog.
func ReviewText(sink notify.Sink, reviewers []model.User, url string, dev model.User, description string) string {
	parts := make([]string, 0, len(reviewers)+4)
	for _, r := range reviewers {
		parts = append(parts, sink.Mention(r))
	}
	name := dev.Name
	if name == "" {
		name = dev.Username
	}
	parts = append(parts, url, "_"+name+"_", "---", description)
	return strings.Join(parts, "\n\n")
}

// Rebase rebases the current branch onto the latest base for kind.
func (s *WorkService) Rebase(ctx context.Context, kind branch.Kind) error {
	br, err := s.VCS.CurrentBranch()
	if err != nil {
		return err
	}
	base := s.Bases.Base(kind)
	ui.SubStep("Rebasing '%s' onto '%s'", br, base)
	if err := s.VCS.Fetch(base); err != nil {
		return err
	}
	return s.VCS.Rebase(br, base)
}

func (s *WorkService) currentWork() (string, branch.Kind, error) {
	br, err := s.VCS.CurrentBranch()
	if err != nil {
		return "", 0, err
	}
	kind, ok := branch.KindOf(br)
	if !ok {
		return "", 0, apperr.Precondition("unable to determine branch type of '%s', must be hotfix or feature", br)
	}
	return br, kind, nil
}

// catchUp rebases br when it does not yet contain the remote head of base.
func (s *WorkService) catchUp(ctx context.Context, project model.Project, br, base string) (bool, error) {
	head, err := s.Remote.HeadCommit(ctx, project.ID, base)
	if err != nil {
		return false, err
	}
	if err := s.VCS.Fetch(base); err != nil {
		return false, err
	}
	upToDate, err := s.VCS.Contains(br, head)
	if err != nil {
		return false, err
	}
	if upToDate {
		return false, nil
	}
	ui.Detail("Rebasing")
	if err := s.VCS.Rebase(br, base); err != nil {
		return false, fmt.Errorf("'%s' is behind '%s': %w", br, base, err)
	}
	return true, nil
}

func (s *WorkService) record(br string) *model.BranchRecord {
	if s.Journal == nil {
		return &model.BranchRecord{Branch: br}
	}
	rec, err := s.Journal.Get(br)
	if err != nil {
		logs.Warn("Failed to read journal: %v", err)
	}
	if rec == nil {
		return &model.BranchRecord{Branch: br}
	}
	return rec
}

func (s *WorkService) resetRecord(br string) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.Reset(br); err != nil {
		logs.Warn("Failed to reset journal for '%s': %v", br, err)
	}
}

func (s *WorkService) journal(br string, fn func(*model.BranchRecord)) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.Update(br, fn); err != nil {
		logs.Warn("Failed to update journal for '%s': %v", br, err)
	}
}

func (s *WorkService) mark(br string, step model.Step) {
	s.journal(br, func(r *model.BranchRecord) { r.Mark(step) })
}

func (s *WorkService) runHooks(ctx context.Context, event, br string) {
	if s.Hooks != nil {
		s.Hooks(ctx, event, br)
	}
}
