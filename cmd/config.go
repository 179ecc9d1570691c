package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/config"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/service"
)

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage git-me configuration (repository or global).",
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a config value (repository overrides global).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := service.GetWorkspace(); err != nil {
				logs.Debug("Not inside a repository, showing global config only: %v", err)
			}
			key := args[0]
			val := config.GetConfigValue(key)
			if key == config.KeyPrivateToken {
				val = config.MaskSecret(val)
			}
			fmt.Printf("%s = %s\n", key, val)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the repository's " + config.LocalConfigFile + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepoLock(func(ws *service.Workspace) error {
				key := args[0]
				value := args[1]
				if err := config.SetConfigValue(key, value, false); err != nil {
					logs.Error("Failed to set repository config '%s': %v", key, err)
					return err
				}
				fmt.Printf("Set repository config: %s = %s\n", key, value)
				return nil
			})
		},
	}

	setGlobalCmd := &cobra.Command{
		Use:   "set-global <key> <value>",
		Short: "Set a global config value in $XDG_CONFIG_HOME/git-me/config.yaml.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if err := config.SetConfigValue(key, value, true); err != nil {
				logs.Error("Failed to set global config '%s': %v", key, err)
				return err
			}
			fmt.Printf("Set global config: %s = %s\n", key, value)
			return nil
		},
	}

	cfgCmd.AddCommand(getCmd, setCmd, setGlobalCmd)
	return cfgCmd
}
