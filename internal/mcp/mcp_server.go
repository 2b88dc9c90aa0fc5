// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/listinglab/asoscan/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the asoscan MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Listing Audit Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: run_audit ---
	s.AddTool(mcp.NewTool("run_audit",
		mcp.WithDescription("Run a full metadata audit over an app store listing: capability extraction, keyword combo scoring and KPI aggregation."),
		mcp.WithString("title", mcp.Description("App title."), mcp.Required()),
		mcp.WithString("subtitle", mcp.Description("App subtitle.")),
		mcp.WithString("keywords", mcp.Description("Comma-separated keyword field.")),
		mcp.WithString("description", mcp.Description("Long description text.")),
		mcp.WithString("vertical", mcp.Description("App vertical for KPI weight overrides (e.g. games, education, finance).")),
		mcp.WithString("market", mcp.Description("Target market for KPI weight overrides (e.g. us, de, jp).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of combos returned.")),
	), h.handleRunAudit)

	// --- 2. Tool: score_combos ---
	s.AddTool(mcp.NewTool("score_combos",
		mcp.WithDescription("Generate and score keyword combinations from listing fields without running the full audit."),
		mcp.WithString("title", mcp.Description("App title."), mcp.Required()),
		mcp.WithString("subtitle", mcp.Description("App subtitle.")),
		mcp.WithString("keywords", mcp.Description("Comma-separated keyword field.")),
		mcp.WithNumber("min_score", mcp.Description("Drop combos scoring below this value (0-100).")),
		mcp.WithBoolean("missing_only", mcp.Description("Only return combos absent from the current listing.")),
		mcp.WithBoolean("long_tail", mcp.Description("Only return combos of three or more words.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of combos returned.")),
	), h.handleScoreCombos)

	// --- 3. Tool: extract_capabilities ---
	s.AddTool(mcp.NewTool("extract_capabilities",
		mcp.WithDescription("Extract feature, benefit and trust capabilities from description text."),
		mcp.WithString("description", mcp.Description("Description text to scan."), mcp.Required()),
	), h.handleExtractCapabilities)

	// --- 4. Tool: validate_registry ---
	s.AddTool(mcp.NewTool("validate_registry",
		mcp.WithDescription("Validate the active formula registry: weight sums, band tables and thresholds."),
	), h.handleValidateRegistry)

	return s
}

// StartMCPServer starts the asoscan MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
