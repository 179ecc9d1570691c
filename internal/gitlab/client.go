// Package gitlab adapts the GitLab REST API to the few calls the branch
// workflow needs.
package gitlab

import (
	"context"
	"errors"
	"net/http"
	"sort"

	gl "github.com/xanzy/go-gitlab"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/model"
)

const perPage = 100

// RemoteHint is appended to a missing-project diagnostic.
const RemoteHint = "If the remote is wrong, fix it with:\n    git remote set-url origin <ssh url>"

type Client struct {
	api *gl.Client
}

// NewClient connects to server (e.g. https://gitlab.example.com) with a
// personal access token.
func NewClient(server, token string, httpClient *http.Client) (*Client, error) {
	if server == "" {
		return nil, apperr.Precondition("no server configured; run 'git-me setup --server <url> --private-token <token>'")
	}
	if token == "" {
		return nil, apperr.Precondition("no private token configured; run 'git-me setup --server <url> --private-token <token>'")
	}
	opts := []gl.ClientOptionFunc{gl.WithBaseURL(server)}
	if httpClient != nil {
		opts = append(opts, gl.WithHTTPClient(httpClient))
	}
	api, err := gl.NewClient(token, opts...)
	if err != nil {
		return nil, apperr.Transport(err, "failed to create client for %s", server)
	}
	return &Client{api: api}, nil
}

// ListProjects returns every project visible to the token, ordered by path.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	opt := &gl.ListProjectsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage, Page: 1},
		Simple:      gl.Ptr(true),
	}
	var out []model.Project
	for {
		page, resp, err := c.api.Projects.ListProjects(opt, gl.WithContext(ctx))
		if err != nil {
			return nil, apperr.Transport(err, "failed to list projects")
		}
		for _, p := range page {
			out = append(out, model.Project{
				ID:                p.ID,
				PathWithNamespace: p.PathWithNamespace,
				SSHURLToRepo:      p.SSHURLToRepo,
				HTTPURLToRepo:     p.HTTPURLToRepo,
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PathWithNamespace < out[j].PathWithNamespace })
	logs.Debug("Listed %d projects", len(out))
	return out, nil
}

// Project finds the project cloned from url. A miss lists every known SSH URL.
func (c *Client) Project(ctx context.Context, url string) (model.Project, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	known := make([]string, 0, len(projects))
	for _, p := range projects {
		if p.MatchesURL(url) {
			return p, nil
		}
		known = append(known, p.SSHURLToRepo)
	}
	nf := apperr.NotFound("project", url, known)
	nf.Hint = RemoteHint
	return model.Project{}, nf
}

// ListUsers returns every user, ordered by username.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	return c.listUsers(ctx, &gl.ListUsersOptions{})
}

func (c *Client) listUsers(ctx context.Context, opt *gl.ListUsersOptions) ([]model.User, error) {
	opt.ListOptions = gl.ListOptions{PerPage: perPage, Page: 1}
	var out []model.User
	for {
		page, resp, err := c.api.Users.ListUsers(opt, gl.WithContext(ctx))
		if err != nil {
			return nil, apperr.Transport(err, "failed to list users")
		}
		for _, u := range page {
			out = append(out, model.User{ID: u.ID, Username: u.Username, Name: u.Name})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	model.SortUsers(out)
	return out, nil
}

// User resolves a username. A miss lists every known username.
func (c *Client) User(ctx context.Context, username string) (model.User, error) {
	matches, err := c.listUsers(ctx, &gl.ListUsersOptions{Username: gl.Ptr(username)})
	if err != nil {
		return model.User{}, err
	}
	for _, u := range matches {
		if u.Username == username {
			return u, nil
		}
	}

	all, err := c.ListUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	known := make([]string, 0, len(all))
	for _, u := range all {
		if u.Username == username {
			return u, nil
		}
		known = append(known, u.Username)
	}
	return model.User{}, apperr.NotFound("user", username, known)
}

// ListBranches returns the sorted branch names of a project.
func (c *Client) ListBranches(ctx context.Context, projectID int) ([]string, error) {
	opt := &gl.ListBranchesOptions{ListOptions: gl.ListOptions{PerPage: perPage, Page: 1}}
	var out []string
	for {
		page, resp, err := c.api.Branches.ListBranches(projectID, opt, gl.WithContext(ctx))
		if err != nil {
			return nil, apperr.Transport(err, "failed to list branches")
		}
		for _, b := range page {
			out = append(out, b.Name)
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	sort.Strings(out)
	return out, nil
}

// HeadCommit returns the id of the newest commit on branch. A miss lists the
// project's branches.
func (c *Client) HeadCommit(ctx context.Context, projectID int, branch string) (string, error) {
	b, resp, err := c.api.Branches.GetBranch(projectID, branch, gl.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			known, lerr := c.ListBranches(ctx, projectID)
			if lerr != nil {
				return "", lerr
			}
			return "", apperr.NotFound("branch", branch, known)
		}
		return "", apperr.Transport(err, "failed to get branch %s", branch)
	}
	if b.Commit == nil {
		return "", apperr.Transport(errors.New("branch has no commit"), "failed to get branch %s", branch)
	}
	return b.Commit.ID, nil
}

// CreateMergeRequest opens a merge request that deletes its source branch
// once merged.
func (c *Client) CreateMergeRequest(ctx context.Context, projectID int, source, target, title string) (model.MergeRequest, error) {
	mr, _, err := c.api.MergeRequests.CreateMergeRequest(projectID, &gl.CreateMergeRequestOptions{
		Title:              gl.Ptr(title),
		SourceBranch:       gl.Ptr(source),
		TargetBranch:       gl.Ptr(target),
		RemoveSourceBranch: gl.Ptr(true),
	}, gl.WithContext(ctx))
	if err != nil {
		return model.MergeRequest{}, apperr.Transport(err, "failed to create merge request for %s", source)
	}
	return toMergeRequest(mr.IID, mr.Title, mr.WebURL, mr.State), nil
}

// FindMergeRequest returns the newest merge request whose source is branch.
func (c *Client) FindMergeRequest(ctx context.Context, projectID int, branch string) (model.MergeRequest, error) {
	mrs, err := c.listMergeRequests(ctx, projectID, &gl.ListProjectMergeRequestsOptions{
		SourceBranch: gl.Ptr(branch),
	})
	if err != nil {
		return model.MergeRequest{}, err
	}
	for i := len(mrs) - 1; i >= 0; i-- {
		if mrs[i].State != model.MergeRequestMerged {
			return mrs[i], nil
		}
	}

	open, err := c.listMergeRequests(ctx, projectID, &gl.ListProjectMergeRequestsOptions{State: gl.Ptr("opened")})
	if err != nil {
		return model.MergeRequest{}, err
	}
	known := make([]string, 0, len(open))
	for _, mr := range open {
		known = append(known, mr.Title)
	}
	return model.MergeRequest{}, apperr.NotFound("merge request for", branch, known)
}

func (c *Client) listMergeRequests(ctx context.Context, projectID int, opt *gl.ListProjectMergeRequestsOptions) ([]model.MergeRequest, error) {
	opt.ListOptions = gl.ListOptions{PerPage: perPage, Page: 1}
	var out []model.MergeRequest
	for {
		page, resp, err := c.api.MergeRequests.ListProjectMergeRequests(projectID, opt, gl.WithContext(ctx))
		if err != nil {
			return nil, apperr.Transport(err, "failed to list merge requests")
		}
		for _, mr := range page {
			out = append(out, toMergeRequest(mr.IID, mr.Title, mr.WebURL, mr.State))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	model.SortMergeRequests(out)
	return out, nil
}

// UpdateMergeRequest applies the final-review edit to merge request iid.
func (c *Client) UpdateMergeRequest(ctx context.Context, projectID, iid int, u model.MergeRequestUpdate) (model.MergeRequest, error) {
	opt := &gl.UpdateMergeRequestOptions{
		Title:       gl.Ptr(u.Title),
		Description: gl.Ptr(u.Description),
	}
	if u.AssigneeID != 0 {
		opt.AssigneeID = gl.Ptr(u.AssigneeID)
	}
	if u.Reopen {
		opt.StateEvent = gl.Ptr("reopen")
	}
	mr, _, err := c.api.MergeRequests.UpdateMergeRequest(projectID, iid, opt, gl.WithContext(ctx))
	if err != nil {
		return model.MergeRequest{}, apperr.Transport(err, "failed to update merge request !%d", iid)
	}
	return toMergeRequest(mr.IID, mr.Title, mr.WebURL, mr.State), nil
}

func toMergeRequest(iid int, title, url, state string) model.MergeRequest {
	return model.MergeRequest{IID: iid, Title: title, WebURL: url, State: model.MergeRequestState(state)}
}
