package service

import (
	"context"

	"github.com/dwarflabs/git-me/internal/changelog"
	"github.com/dwarflabs/git-me/internal/config"
	"github.com/dwarflabs/git-me/internal/git"
	"github.com/dwarflabs/git-me/internal/gitlab"
	"github.com/dwarflabs/git-me/internal/hooks"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/model"
	"github.com/dwarflabs/git-me/internal/notify"
	"github.com/dwarflabs/git-me/internal/store"
	"github.com/dwarflabs/git-me/internal/utils"
)

// Workspace is the repository git-me was invoked in.
type Workspace struct {
	Repo   *git.Repo
	Root   string
	GitDir string
}

var workspace *Workspace

// GetWorkspace locates the enclosing repository and loads its config.
func GetWorkspace() (*Workspace, error) {
	if workspace != nil {
		return workspace, nil
	}
	cwd := git.Open(".", config.GetConfigValue(config.KeyRemote))
	root, err := cwd.TopLevel()
	if err != nil {
		return nil, err
	}
	if err := config.LoadRepoConfig(root); err != nil {
		return nil, err
	}
	repo := git.Open(root, config.GetConfigValue(config.KeyRemote))
	gitDir, err := repo.GitDir()
	if err != nil {
		return nil, err
	}
	workspace = &Workspace{Repo: repo, Root: root, GitDir: gitDir}
	logs.Debug("Workspace at %s (git dir %s)", root, gitDir)
	return workspace, nil
}

// ChangelogStore returns the changelog store of the workspace, wired to its
// editor and git.
func (w *Workspace) ChangelogStore() *changelog.Store {
	s := changelog.NewStore(w.Root)
	s.Editor = changelog.ExecEditor{Program: config.GetConfigValue(config.KeyEditor)}
	s.VCS = w.Repo
	return s
}

// RemoteClient connects to the configured server.
func RemoteClient() (*gitlab.Client, error) {
	return gitlab.NewClient(config.GetConfigValue(config.KeyServer), config.GetConfigValue(config.KeyPrivateToken), nil)
}

var workService *WorkService

// GetWorkService wires the branch workflow to the workspace, the configured
// server and the configured team channel. Missing server or channel settings
// only fail the operations that need them.
func GetWorkService() (*WorkService, error) {
	if workService != nil {
		return workService, nil
	}
	ws, err := GetWorkspace()
	if err != nil {
		return nil, err
	}

	var remote Remote
	if client, err := RemoteClient(); err != nil {
		remote = unconfiguredRemote{err}
	} else {
		remote = client
	}

	var sink notify.Sink
	if s, err := notify.New(config.GetConfigValue(config.KeyNotifyKind), config.GetConfigValue(config.KeyNotifyURL)); err != nil {
		sink = unconfiguredSink{err}
	} else {
		sink = s
	}

	workService = &WorkService{
		VCS:       ws.Repo,
		Remote:    remote,
		Changelog: ws.ChangelogStore(),
		Sink:      sink,
		Journal:   store.NewJournal(ws.GitDir),
		Bases:     config.Bases(),
		Operator:  utils.OperatorName,
		Hooks:     hooks.RunHooks,
	}
	return workService, nil
}

type unconfiguredRemote struct{ err error }

func (u unconfiguredRemote) Project(context.Context, string) (model.Project, error) {
	return model.Project{}, u.err
}

func (u unconfiguredRemote) User(context.Context, string) (model.User, error) {
	return model.User{}, u.err
}

func (u unconfiguredRemote) HeadCommit(context.Context, int, string) (string, error) {
	return "", u.err
}

func (u unconfiguredRemote) CreateMergeRequest(context.Context, int, string, string, string) (model.MergeRequest, error) {
	return model.MergeRequest{}, u.err
}

func (u unconfiguredRemote) FindMergeRequest(context.Context, int, string) (model.MergeRequest, error) {
	return model.MergeRequest{}, u.err
}

func (u unconfiguredRemote) UpdateMergeRequest(context.Context, int, int, model.MergeRequestUpdate) (model.MergeRequest, error) {
	return model.MergeRequest{}, u.err
}

type unconfiguredSink struct{ err error }

func (u unconfiguredSink) Mention(user model.User) string {
	return "@" + user.Username
}

func (u unconfiguredSink) Send(context.Context, notify.Message) error {
	return u.err
}
