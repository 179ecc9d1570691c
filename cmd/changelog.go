package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/apperr"
	"github.com/dwarflabs/git-me/internal/branch"
	"github.com/dwarflabs/git-me/internal/changelog"
	"github.com/dwarflabs/git-me/internal/hooks"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
	"github.com/dwarflabs/git-me/internal/ui"
)

func newChangelogCmd() *cobra.Command {
	clCmd := &cobra.Command{
		Use:   "changelog",
		Short: "Edit, check and aggregate branch changelogs.",
	}
	clCmd.AddCommand(
		newChangelogEditCmd(),
		newChangelogAggregateCmd(),
		newChangelogValidateCmd(),
		newChangelogShowCmd(),
	)
	return clCmd
}

// workBranch returns the current branch, refusing anything that is not a
// feature or hotfix branch.
func workBranch(ws *service.Workspace) (string, error) {
	br, err := ws.Repo.CurrentBranch()
	if err != nil {
		return "", err
	}
	if _, ok := branch.KindOf(br); !ok {
		return "", apperr.Precondition("'%s' is not a feature or hotfix branch", br)
	}
	return br, nil
}

func newChangelogEditCmd() *cobra.Command {
	var commit, lastCommit bool
	cmd := &cobra.Command{
		Use:   "edit [--commit] [--last-commit]",
		Short: "Edit the changelog of the current branch.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepoLock(func(ws *service.Workspace) error {
				br, err := workBranch(ws)
				if err != nil {
					return err
				}
				var message *string
				if lastCommit {
					last, err := ws.Repo.LastCommitMessage()
					if err != nil {
						return err
					}
					message = &last
				}
				logs.Info("Editing changelog for '%s'", br)
				path, err := ws.ChangelogStore().Edit(br, commit, message)
				if err != nil {
					logs.Error("Changelog edit for '%s' failed: %v", br, err)
					return err
				}
				fmt.Printf("Changelog updated: %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&commit, "commit", "c", false, "Commit the changelog after staging it")
	cmd.Flags().BoolVarP(&lastCommit, "last-commit", "l", false, "Use the last commit message instead of opening the editor")
	return cmd
}

func newChangelogAggregateCmd() *cobra.Command {
	var tag string
	var prefixes []string
	cmd := &cobra.Command{
		Use:   "aggregate --tag <tag>",
		Short: "Merge all feature and hotfix changelogs into one for a release.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepoLock(func(ws *service.Workspace) error {
				result, err := ws.ChangelogStore().Aggregate(tag, prefixes)
				if err != nil {
					logs.Error("Aggregate for '%s' failed: %v", tag, err)
					return err
				}
				for _, s := range result.Skipped {
					ui.SubStep("skipped unedited %s", s)
				}
				hooks.RunHooks(cmd.Context(), hooks.EventAggregate, tag)
				fmt.Printf("Aggregated %d changelog(s) into %s\n", len(result.Sources), result.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Release tag naming the aggregate")
	cmd.Flags().StringSliceVar(&prefixes, "prefix", changelog.ReleasePrefixes, "Changelog path prefixes to include")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}

func newChangelogValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate --path <file>",
		Short: "Check a changelog is ASCII, tab free and filled in.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := changelog.Validate(path)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Validation("changelog '%s' has no entries", path)
			}
			fmt.Printf("Changelog '%s' is valid.\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Changelog file")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newChangelogShowCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "show [--path <file>]",
		Short: "Print a changelog as Markdown (default: the current branch's).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				ws, err := service.GetWorkspace()
				if err != nil {
					return err
				}
				br, err := workBranch(ws)
				if err != nil {
					return err
				}
				path = ws.ChangelogStore().Resolve(br)
			}
			out, err := changelog.ReadFormatted(path)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Changelog file")
	return cmd
}
