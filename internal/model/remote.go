package model

import "sort"

// Project is a repository on the code-hosting server.
type Project struct {
	ID                int    `yaml:"id"`
	PathWithNamespace string `yaml:"path_with_namespace"`
	SSHURLToRepo      string `yaml:"ssh_url_to_repo"`
	HTTPURLToRepo     string `yaml:"http_url_to_repo"`
}

// MatchesURL reports whether url is one of the project's clone URLs.
func (p Project) MatchesURL(url string) bool {
	return url != "" && (url == p.SSHURLToRepo || url == p.HTTPURLToRepo)
}

// User is an account on the code-hosting server.
type User struct {
	ID       int    `yaml:"id"`
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
}

// SortUsers orders users by username.
func SortUsers(users []User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}

type MergeRequestState string

const (
	MergeRequestOpened MergeRequestState = "opened"
	MergeRequestMerged MergeRequestState = "merged"
	MergeRequestClosed MergeRequestState = "closed"
)

// MergeRequest is identified by its project-scoped IID.
type MergeRequest struct {
	IID    int               `yaml:"iid"`
	Title  string            `yaml:"title"`
	WebURL string            `yaml:"web_url"`
	State  MergeRequestState `yaml:"state"`
}

// SortMergeRequests orders merge requests by IID.
func SortMergeRequests(mrs []MergeRequest) {
	sort.Slice(mrs, func(i, j int) bool { return mrs[i].IID < mrs[j].IID })
}

// MergeRequestUpdate is the final-review edit applied to a WIP merge request.
type MergeRequestUpdate struct {
	Title       string
	AssigneeID  int
	Description string
	Reopen      bool
}
