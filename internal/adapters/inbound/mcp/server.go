package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewDriftcheckMCPServer creates an MCP server exposing validation,
// key-mapping suggestions and snapshot search as tools, so AI assistants
// can inspect device drift directly.
func NewDriftcheckMCPServer() *server.MCPServer {
	s := server.NewMCPServer(
		"driftcheck",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s)

	return s
}
