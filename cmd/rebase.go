package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/branch"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
)

func newRebaseCmd(kind branch.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "rebase",
		Short: fmt.Sprintf("Rebase the current branch onto the latest %s base.", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepoLock(func(ws *service.Workspace) error {
				svc, err := service.GetWorkService()
				if err != nil {
					return err
				}
				onto := svc.Bases.Base(kind)
				logs.Info("Rebasing current branch onto '%s'", onto)
				if err := svc.Rebase(cmd.Context(), kind); err != nil {
					logs.Error("Rebase onto '%s' failed: %v", onto, err)
					return err
				}
				fmt.Printf("Branch successfully rebased onto '%s'.\n", onto)
				return nil
			})
		},
	}
}
