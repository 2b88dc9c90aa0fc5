package cmd

import (
	"time"

	"github.com/listinglab/asoscan/core"
	"github.com/listinglab/asoscan/core/combo"
	"github.com/listinglab/asoscan/core/priority"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/outwriter"
	"github.com/spf13/cobra"
)

// combosCmd generates and scores keyword combinations without running
// the full audit pipeline.
var combosCmd = &cobra.Command{
	Use:   "combos",
	Short: "Show keyword combinations ranked by priority score.",
	Long: `Enumerate keyword combinations across the title, subtitle and keyword
field, score each one, and rank them from highest to lowest priority.

Scores combine semantic relevance, length, brand-generic hybrid status,
novelty and noise confidence into one 0-100 priority score, helping you:
- Find high-value combos missing from the current listing
- Surface long-tail phrases worth testing
- Spot noise combos that waste keyword field space

Examples:
  # Rank all combos for a listing
  asoscan combos -t "Duolingo" -s "Learn Spanish & French"

  # Only combos absent from the listing today
  asoscan combos -t "Duolingo" -s "Learn Spanish" --missing-only

  # Long-tail combos above a score floor
  asoscan combos -t "Duolingo" -s "Learn Spanish" --long-tail --min-score 60

  # Export findings to Parquet for tracking
  asoscan combos -t "Duolingo" --output parquet --output-file combos.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		started := time.Now()

		opts := cfg.EngineOptions()
		candidates := combo.Generate(&cfg.Bundle, &cfg.AuditCtx, opts.Combos)
		scored := priority.ScoreAll(candidates, &cfg.AuditCtx, cfg.Registry, opts.Workers)

		if cfg.MinScore > 0 {
			scored = priority.FilterMinScore(scored, cfg.MinScore)
		}
		if cfg.MissingOnly {
			scored = priority.FilterMissing(scored)
		}
		if cfg.LongTail {
			scored = priority.FilterLongTail(scored)
		}
		ranked := core.RankCombos(scored, cfg.ResultLimit)

		if err := outwriter.WriteComboResults(ranked, cfg, time.Since(started)); err != nil {
			contract.LogFatal("Cannot write combo results", err)
		}
	},
}
