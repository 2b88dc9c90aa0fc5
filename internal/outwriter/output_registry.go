package outwriter

import (
	"fmt"
	"io"
	"sort"

	"github.com/listinglab/asoscan/core/formula"
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteRegistry outputs the active formula registry definition.
func WriteRegistry(reg *schema.FormulaRegistry, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reg)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeRegistryText(reg, cfg, w)
	}, "Wrote text")
}

func writeRegistryText(reg *schema.FormulaRegistry, cfg *contract.Config, w io.Writer) error {
	header := "Formula Registry"
	if cfg.UseEmojis {
		header = "⚖️  " + header
	}
	if _, err := fmt.Fprintf(w, "%s (version %s)\n\n", header, reg.Version); err != nil {
		return err
	}

	// Weight groups, keys sorted for stable output
	for _, group := range []schema.WeightGroup{
		schema.ComboPriorityWeights,
		schema.KpiFamilyWeights,
		schema.StabilityWeights,
		schema.OpportunityWeights,
	} {
		weights, ok := reg.Weights[group]
		if !ok {
			continue
		}
		keys := make([]string, 0, len(weights))
		for k := range weights {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if _, err := fmt.Fprintf(w, "%s:\n", group); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "  %-24s %.2f\n", k, weights[k]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	// Band tables
	for _, tableName := range []schema.BandTable{
		schema.OverallQualityBands,
		schema.ComboPriorityBands,
		schema.ElementScoreBands,
	} {
		bands, ok := reg.Bands[tableName]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", tableName); err != nil {
			return err
		}
		bandTable := tablewriter.NewWriter(w)
		bandTable.Header([]string{"Min", "Max", "Label", "Color"})
		var data [][]string
		for _, b := range bands {
			data = append(data, []string{
				fmt.Sprintf("%.0f", b.Min),
				fmt.Sprintf("%.3f", b.Max),
				b.Label,
				b.Color,
			})
		}
		if err := bandTable.Bulk(data); err != nil {
			return err
		}
		if err := bandTable.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Thresholds: high >= %.0f, medium >= %.0f\n", reg.Thresholds.High, reg.Thresholds.Medium); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Limits: max combos per audit %d, max opportunities %d\n\n", reg.Limits.MaxCombosPerAudit, reg.Limits.MaxOpportunities); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Changelog:\n"); err != nil {
		return err
	}
	for _, entry := range reg.Changelog {
		if _, err := fmt.Fprintf(w, "  %s (%s): %s\n", entry.Version, entry.Date, entry.Notes); err != nil {
			return err
		}
	}
	return nil
}

// WriteValidationResult prints registry validation findings. Valid
// registries print a single confirmation line.
func WriteValidationResult(result *formula.ValidationResult, reg *schema.FormulaRegistry, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if result.Valid {
			prefix := ""
			if cfg.UseEmojis {
				prefix = "✅ "
			}
			_, err := fmt.Fprintf(w, "%sRegistry version %s is valid\n", prefix, reg.Version)
			return err
		}
		prefix := ""
		if cfg.UseEmojis {
			prefix = "❌ "
		}
		if _, err := fmt.Fprintf(w, "%sRegistry version %s failed validation:\n", prefix, reg.Version); err != nil {
			return err
		}
		for _, msg := range result.Errors {
			if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote text")
}
