package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dwarflabs/git-me/internal/logs"
	"github.com/dwarflabs/git-me/internal/mcptools"
	"github.com/dwarflabs/git-me/internal/ui"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve read-only changelog tools over MCP on stdio.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout belongs to the protocol.
			logs.SetVerbose(false)
			ui.Out = os.Stderr
			if err := logs.InitLogger(); err != nil {
				return err
			}
			logs.Info("Serving MCP tools on stdio")
			if err := mcptools.Serve(Version); err != nil {
				logs.Error("MCP server error: %v", err)
				return err
			}
			return nil
		},
	}
}
