package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/driftcheck/driftcheck/internal/adapters/outbound/catalog"
	"github.com/driftcheck/driftcheck/internal/adapters/outbound/snapshot"
	"github.com/driftcheck/driftcheck/internal/domain"
	"github.com/driftcheck/driftcheck/internal/domain/match"
)

// registerTools registers all driftcheck MCP tools on the given server.
func registerTools(s *server.MCPServer) {
	// 1. driftcheck_validate
	s.AddTool(
		mcplib.NewTool("driftcheck_validate",
			mcplib.WithDescription("Validate a device snapshot against an allowed-values catalog and return the full mismatch report as JSON"),
			mcplib.WithString("catalog",
				mcplib.Required(),
				mcplib.Description("Path to the catalog (YAML file, directory of YAML files, or XLSX)"),
			),
			mcplib.WithString("snapshot",
				mcplib.Required(),
				mcplib.Description("Path to the snapshot JSON file"),
			),
		),
		handleValidate(),
	)

	// 2. driftcheck_suggest_keys
	s.AddTool(
		mcplib.NewTool("driftcheck_suggest_keys",
			mcplib.WithDescription("Suggest snapshot key paths for catalog fields that may be spelled differently"),
			mcplib.WithString("catalog", mcplib.Required(), mcplib.Description("Path to the catalog")),
			mcplib.WithString("snapshot", mcplib.Required(), mcplib.Description("Path to the snapshot JSON file")),
		),
		handleSuggestKeys(),
	)

	// 3. driftcheck_find_matches
	s.AddTool(
		mcplib.NewTool("driftcheck_find_matches",
			mcplib.WithDescription("Search every snapshot value for fuzzy matches of a query string"),
			mcplib.WithString("snapshot", mcplib.Required(), mcplib.Description("Path to the snapshot JSON file")),
			mcplib.WithString("query", mcplib.Required(), mcplib.Description("Value to search for")),
		),
		handleFindMatches(),
	)
}

const suggestionThreshold = 0.45

func handleValidate() server.ToolHandlerFunc {
	return func(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		catalogPath, err := req.RequireString("catalog")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		snapshotPath, err := req.RequireString("snapshot")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		tree, snap, err := loadInputs(catalogPath, snapshotPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report, err := domain.Validate(tree, snap)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleSuggestKeys() server.ToolHandlerFunc {
	return func(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		catalogPath, err := req.RequireString("catalog")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		snapshotPath, err := req.RequireString("snapshot")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		tree, snap, err := loadInputs(catalogPath, snapshotPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		keys := make([]string, 0, tree.Len())
		for _, p := range tree.Pairs() {
			keys = append(keys, p.Key)
		}
		return jsonResult(match.SuggestKeys(keys, snap, suggestionThreshold))
	}
}

func handleFindMatches() server.ToolHandlerFunc {
	return func(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		snapshotPath, err := req.RequireString("snapshot")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		query, err := req.RequireString("query")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		snap, err := snapshot.New().Load(snapshotPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(match.FindMatches(snap, query, suggestionThreshold))
	}
}

func loadInputs(catalogPath, snapshotPath string) (*domain.Tree, map[string]any, error) {
	tree, err := catalog.New().Load(catalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	snap, err := snapshot.New().Load(snapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return tree, snap, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
