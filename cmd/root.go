package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/branch"
	"github.com/dwarflabs/git-me/internal/config"
	"github.com/dwarflabs/git-me/internal/locks"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
	"github.com/dwarflabs/git-me/internal/ui"
)

// Version is stamped at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	verbose bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "git-me",
	Short: "git-me drives feature and hotfix branches from start to release.",
	Long: `git-me creates feature and hotfix branches with a WIP merge request,
keeps a changelog per branch, hands finished work to reviewers and
announces it on the team channel, and aggregates changelogs at release time.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logs.SetVerbose(verbose)
		if err := logs.InitLogger(); err != nil {
			return err
		}
		return config.InitializeGlobalConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logs.Close()
	},
}

// Execute is called by main.go to run the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newWorkCmd(branch.Feature),
		newWorkCmd(branch.Hotfix),
		newReviewCmd(),
		newChangelogCmd(),
		newProjectCmd(),
		newSetupCmd(),
		newInfoCmd(),
		newConfigCmd(),
		newHookCmd(),
		newMCPCmd(),
	)

	rootCmd.SetUsageTemplate(ui.ColorHeadings(rootCmd.UsageTemplate()))
}

// withRepoLock runs fn while holding the repository lock, so two git-me
// invocations never drive the same repository at once.
func withRepoLock(fn func(ws *service.Workspace) error) error {
	ws, err := service.GetWorkspace()
	if err != nil {
		return err
	}
	unlock, err := locks.LockRepo(ws.GitDir)
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ws)
}
