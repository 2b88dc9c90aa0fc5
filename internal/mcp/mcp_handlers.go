package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/listinglab/asoscan/core"
	"github.com/listinglab/asoscan/core/capability"
	"github.com/listinglab/asoscan/core/combo"
	"github.com/listinglab/asoscan/core/formula"
	"github.com/listinglab/asoscan/core/priority"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleRunAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	bundle := schema.ListingBundle{
		Title:        request.GetString("title", ""),
		Subtitle:     request.GetString("subtitle", ""),
		KeywordField: request.GetString("keywords", ""),
		Description:  request.GetString("description", ""),
	}
	auditCtx := schema.AuditContext{
		Vertical: request.GetString("vertical", ""),
		Market:   request.GetString("market", ""),
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	result, err := core.RunAudit(ctx, &bundle, &auditCtx, cfg.Registry, cfg.EngineOptions())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit failed: %v", err)), nil
	}
	if len(result.ScoredCombos) > cfg.ResultLimit {
		result.ScoredCombos = result.ScoredCombos[:cfg.ResultLimit]
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleScoreCombos(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	bundle := schema.ListingBundle{
		Title:        request.GetString("title", ""),
		Subtitle:     request.GetString("subtitle", ""),
		KeywordField: request.GetString("keywords", ""),
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	opts := cfg.EngineOptions()
	candidates := combo.Generate(&bundle, nil, opts.Combos)
	scored := priority.ScoreAll(candidates, nil, cfg.Registry, opts.Workers)

	if min := request.GetInt("min_score", 0); min > 0 {
		scored = priority.FilterMinScore(scored, min)
	}
	if request.GetBool("missing_only", false) {
		scored = priority.FilterMissing(scored)
	}
	if request.GetBool("long_tail", false) {
		scored = priority.FilterLongTail(scored)
	}
	ranked := core.RankCombos(scored, cfg.ResultLimit)

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleExtractCapabilities(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("description", "")
	capMap := capability.Extract(text, schema.ExtractionEnabled)

	jsonData, _ := json.MarshalIndent(capMap, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleValidateRegistry(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := formula.Validate(h.baseCfg.Registry)

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
