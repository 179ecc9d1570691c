package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
)

func newReviewCmd() *cobra.Command {
	var finished []string
	cmd := &cobra.Command{
		Use:   "review [--finished <reviewer>]...",
		Short: "Push the current branch, optionally handing it to reviewers.",
		Long: `Bring the current feature or hotfix branch up to date with its base and
push it. Each --finished names a reviewer; the first one becomes the
assignee, the WIP marker is dropped, the changelog becomes the merge
request description and the team channel is notified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepoLock(func(ws *service.Workspace) error {
				svc, err := service.GetWorkService()
				if err != nil {
					return err
				}
				req := service.ReviewRequest{Reviewers: finished}
				if err := svc.Review(cmd.Context(), req); err != nil {
					logs.Error("Review failed: %v", err)
					return err
				}
				if req.Finished() {
					fmt.Printf("Merge request handed to %s.\n", finished[0])
				} else {
					fmt.Println("Work pushed; merge request is still WIP.")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&finished, "finished", "f", nil, "Reviewer username (repeatable, first is the assignee)")
	return cmd
}
