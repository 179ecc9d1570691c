package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/hooks"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
)

func newHookCmd() *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage scripts run on " + strings.Join(hooks.Events, ", ") + ".",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all configured hooks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := service.GetWorkspace(); err != nil {
				logs.Debug("Not inside a repository, listing global hooks only: %v", err)
			}
			hs := hooks.ListHooks()
			if len(hs) == 0 {
				fmt.Println("No hooks configured.")
				return nil
			}
			fmt.Println("Configured hooks:")
			for _, h := range hs {
				fmt.Println(" -", h)
			}
			return nil
		},
	}

	var global bool
	addCmd := &cobra.Command{
		Use:   "add <event> <script-path>",
		Short: "Add a new hook that runs on the specified event.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			add := func() error {
				event := args[0]
				script := args[1]
				if err := hooks.AddHook(event, script, global); err != nil {
					logs.Error("Failed to add hook for event '%s': %v", event, err)
					return err
				}
				fmt.Printf("Hook added for event '%s' -> script '%s'\n", event, script)
				return nil
			}
			if global {
				return add()
			}
			return withRepoLock(func(ws *service.Workspace) error { return add() })
		},
	}
	addCmd.Flags().BoolVarP(&global, "global", "g", false, "Store the hook in the global config")

	hookCmd.AddCommand(listCmd, addCmd)
	return hookCmd
}
