package cli

import (
	"github.com/spf13/cobra"

	mcpserver "pagegrid/internal/mcp"
)

func newMCPCmd(loader configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdin/stdout",
		Long:  "Serves every page and layout operation as MCP tools so AI agents can build and rearrange pages. The file bridge and autosnapshot scheduler run alongside the server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := openSession(loader)
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Start(cmd.Context()); err != nil {
				return err
			}

			deps := mcpserver.Deps{
				Pages:  session.Pages,
				Layout: session.Layout,
			}
			if cfg.Publish != nil {
				deps.Publisher = session
			}
			return mcpserver.New(deps).ServeStdio()
		},
	}
}
