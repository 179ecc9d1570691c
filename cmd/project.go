package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
	"github.com/dwarflabs/git-me/internal/ui"
)

func newProjectCmd() *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect projects on the server.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every project visible to your token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := service.RemoteClient()
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				logs.Error("Failed to list projects: %v", err)
				return err
			}
			fmt.Println(ui.Heading("Projects:"))
			for _, p := range projects {
				fmt.Printf("  %-40s %s\n", p.PathWithNamespace, p.SSHURLToRepo)
			}
			return nil
		},
	}

	projectCmd.AddCommand(listCmd)
	return projectCmd
}
