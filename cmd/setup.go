package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/config"
	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/ui"
)

func newSetupCmd() *cobra.Command {
	var server, token string
	cmd := &cobra.Command{
		Use:   "setup --server <url> --private-token <token>",
		Short: "Store the server address and your access token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for key, value := range map[string]string{
				config.KeyServer:       server,
				config.KeyPrivateToken: token,
			} {
				if err := config.SetConfigValue(key, value, true); err != nil {
					logs.Error("Failed to save '%s': %v", key, err)
					return err
				}
			}
			path, _ := config.GlobalConfigPath()
			fmt.Printf("Saved server settings to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "", "Server URL, e.g. https://gitlab.example.com")
	cmd.Flags().StringVarP(&token, "private-token", "t", "", "Personal access token with api scope")
	_ = cmd.MarkFlagRequired("server")
	_ = cmd.MarkFlagRequired("private-token")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the effective configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GlobalConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(ui.Heading("Config:"), path)
			for _, key := range config.Keys() {
				value := config.GetConfigValue(key)
				if key == config.KeyPrivateToken {
					value = config.MaskSecret(value)
				}
				fmt.Printf("  %-16s %s\n", key, value)
			}
			return nil
		},
	}
}
