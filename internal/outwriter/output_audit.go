package outwriter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"
)

// WriteAuditResult outputs a full audit result. Text output renders a
// scorecard followed by the top combos; JSON dumps the whole result.
func WriteAuditResult(result *schema.AuditResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut, schema.ParquetOut:
		// Tabular formats carry the combo rows; the scorecard itself is
		// only meaningful as text or JSON.
		return WriteComboResults(result.ScoredCombos, cfg, duration)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAuditText(result, cfg, duration, w)
		}, "Wrote text")
	}
}

// writeAuditText renders the human-readable audit scorecard.
func writeAuditText(result *schema.AuditResult, cfg *contract.Config, duration time.Duration, w io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	header := "Listing Audit"
	if cfg.UseEmojis {
		header = "📊 " + header
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", header, strings.Repeat("=", len("Listing Audit"))); err != nil {
		return err
	}

	qualityBands := cfg.Registry.Bands[schema.OverallQualityBands]
	overallLabel := contract.GetPlainLabel(float64(result.OverallScore), qualityBands)
	if cfg.UseColors {
		overallLabel = contract.GetColorLabel(float64(result.OverallScore), qualityBands)
	}
	if _, err := fmt.Fprintf(w, "Overall score: %d/100 (%s)\n", result.OverallScore, overallLabel); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Outcome: %s\n\n", result.Outcome); err != nil {
		return err
	}

	// Stage summary, including anything skipped or failed
	if _, err := fmt.Fprintf(w, "Stages:\n"); err != nil {
		return err
	}
	for _, stage := range result.Stages {
		line := fmt.Sprintf("  %-12s %s", stage.Stage, stage.State)
		if stage.Err != "" {
			line += " (" + stage.Err + ")"
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	// KPI family breakdown
	elementBands := cfg.Registry.Bands[schema.ElementScoreBands]
	if _, err := fmt.Fprintf(w, "Score families:\n"); err != nil {
		return err
	}
	for _, family := range result.KpiResult.Families {
		label := contract.GetPlainLabel(family.Score, elementBands)
		if cfg.UseColors {
			label = contract.GetColorLabel(family.Score, elementBands)
		}
		if _, err := fmt.Fprintf(w, "  %-24s %s/100  %s  (weight %.2f)\n",
			family.Label, fmtFloat(family.Score), label, family.Weight); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	// Capability counts
	capMap := result.CapabilityMap
	if _, err := fmt.Fprintf(w, "Capabilities detected: %d (features: %d, benefits: %d, trust: %d)\n\n",
		capMap.TotalCount(), capMap.Features.Count, capMap.Benefits.Count, capMap.Trust.Count); err != nil {
		return err
	}

	// Top combos, reusing the combo table
	combos := result.ScoredCombos
	if len(combos) > cfg.ResultLimit {
		combos = combos[:cfg.ResultLimit]
	}
	if len(combos) > 0 {
		if _, err := fmt.Fprintf(w, "Top keyword opportunities:\n"); err != nil {
			return err
		}
		_, intFmt := createFormatters(cfg.Precision)
		if err := writeComboTable(combos, cfg, intFmt, duration, w); err != nil {
			return err
		}
	}
	return nil
}
