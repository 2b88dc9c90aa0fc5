package cmd

import (
	"time"

	"github.com/listinglab/asoscan/core"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/outwriter"
	"github.com/spf13/cobra"
)

// auditCmd performs a full metadata audit over a listing.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a full metadata audit over a listing.",
	Long: `Run the complete audit pipeline over the supplied listing text.

The pipeline extracts capabilities from the description, enumerates and
scores keyword combinations across the title, subtitle and keyword
field, and aggregates per-element KPIs into one overall quality score.

A stage that cannot run is recorded and skipped rather than aborting
the audit; the result is then marked partial.

Examples:
  # Audit a listing from flags
  asoscan audit -t "Duolingo" -s "Learn Spanish & French" -k "language,lessons"

  # Read the long description from a file
  asoscan audit -t "Calm" --description-file desc.txt

  # Scope KPI weights to a vertical and market
  asoscan audit -t "Calm" --vertical games --market us

  # Export the full result as JSON
  asoscan audit -t "Calm" --output json --output-file audit.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		started := time.Now()

		runID, err := historyStore.BeginAudit(started, auditConfigParams())
		if err != nil {
			contract.LogWarn("Cannot record audit start", err)
		}

		result, err := core.RunAudit(rootCtx, &cfg.Bundle, &cfg.AuditCtx, cfg.Registry, cfg.EngineOptions())
		if err != nil {
			contract.LogFatal("Cannot run audit", err)
		}

		if runID > 0 {
			if err := historyStore.EndAudit(runID, time.Now(), float64(result.OverallScore), result.Outcome, len(result.ScoredCombos)); err != nil {
				contract.LogWarn("Cannot record audit completion", err)
			}
			if err := historyStore.RecordComboScores(runID, result.ScoredCombos); err != nil {
				contract.LogWarn("Cannot record combo scores", err)
			}
			if err := historyStore.RecordKpiScores(runID, result.KpiResult); err != nil {
				contract.LogWarn("Cannot record kpi scores", err)
			}
		}

		if err := outwriter.WriteAuditResult(result, cfg, time.Since(started)); err != nil {
			contract.LogFatal("Cannot write audit result", err)
		}
	},
}

// auditConfigParams captures the inputs worth keeping alongside a
// persisted run, for later comparison across runs.
func auditConfigParams() map[string]any {
	return map[string]any{
		"title":            cfg.Bundle.Title,
		"vertical":         cfg.AuditCtx.Vertical,
		"market":           cfg.AuditCtx.Market,
		"client":           cfg.AuditCtx.ClientID,
		"extraction":       string(cfg.Extraction),
		"workers":          cfg.Workers,
		"registry_version": cfg.Registry.Version,
	}
}
