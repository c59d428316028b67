package cli

import (
	mcpadapter "github.com/driftcheck/driftcheck/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the driftcheck MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start driftcheck MCP server (stdio)",
		Long:  "Start the driftcheck MCP server using stdio transport. This lets AI coding assistants validate snapshots and search device configuration directly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpadapter.NewDriftcheckMCPServer()
			return server.ServeStdio(s)
		},
	}
}
