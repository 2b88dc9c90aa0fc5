package cmd

import (
	"github.com/listinglab/asoscan/core/kpi"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/outwriter"
	"github.com/spf13/cobra"
)

// kpisCmd computes the per-element KPI breakdown for a listing.
var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Show the per-element KPI breakdown for a listing.",
	Long: `Compute every registered KPI for the supplied listing text and show
the per-family and overall scores.

KPI weights can shift by vertical and market; pass --vertical and
--market to apply the matching overrides.

Examples:
  # Full KPI breakdown
  asoscan kpis -t "Duolingo" -s "Learn Spanish & French" -k "language,lessons"

  # Apply the games vertical overrides
  asoscan kpis -t "Candy Crush" --vertical games

  # Export the breakdown as JSON
  asoscan kpis -t "Calm" --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		result := kpi.ComputeAll(&cfg.Bundle, &cfg.AuditCtx, cfg.Registry, cfg.BrandAliases, cfg.Stopwords)
		if err := outwriter.WriteKpiResults(&result, cfg); err != nil {
			contract.LogFatal("Cannot write KPI results", err)
		}
	},
}
