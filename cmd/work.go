package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/branch"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
)

// newWorkCmd builds "feature" or "hotfix" with its start, review and rebase
// subcommands.
func newWorkCmd(kind branch.Kind) *cobra.Command {
	workCmd := &cobra.Command{
		Use:   kind.String(),
		Short: fmt.Sprintf("Start, review or rebase a %s branch.", kind),
	}
	workCmd.AddCommand(newStartCmd(kind), newKindReviewCmd(kind), newRebaseCmd(kind))
	return workCmd
}

func newStartCmd(kind branch.Kind) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "start --name <name>",
		Short: fmt.Sprintf("Create a %s branch, push it and open a WIP merge request.", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepoLock(func(ws *service.Workspace) error {
				svc, err := service.GetWorkService()
				if err != nil {
					return err
				}
				logs.Info("Starting %s '%s'", kind, name)
				mr, err := svc.Start(cmd.Context(), kind, name)
				if err != nil {
					logs.Error("Failed to start %s '%s': %v", kind, name, err)
					return err
				}
				fmt.Printf("Started '%s'. Merge request: %s\n", branch.Resolve(kind, name), mr.WebURL)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Short branch name ([a-z0-9_-]+)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newKindReviewCmd(kind branch.Kind) *cobra.Command {
	cmd := newReviewCmd()
	cmd.Short = fmt.Sprintf("Push the current %s branch, optionally handing it to reviewers.", kind)
	return cmd
}
