package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteKpiResults outputs the KPI engine breakdown, dispatching based
// on the output format configured.
func WriteKpiResults(result *schema.KpiEngineResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"family", "kpi", "label", "raw", "normalized", "base_weight", "effective_weight"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return writeKpiCSVRows(csvWriter, result, fmtFloat)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKpiTable(result, cfg, fmtFloat, w)
		}, "Wrote table")
	}
}

func writeKpiCSVRows(w *csv.Writer, result *schema.KpiEngineResult, fmtFloat func(float64) string) error {
	for _, family := range result.Families {
		for _, k := range family.Kpis {
			rec := []string{
				k.Family,
				k.ID,
				k.Label,
				fmtFloat(k.Raw),
				fmtFloat(k.Normalized),
				fmt.Sprintf("%.2f", k.BaseWeight),
				fmt.Sprintf("%.2f", k.EffectiveWeight),
			}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}
	return nil
}

func writeKpiTable(result *schema.KpiEngineResult, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	header := "KPI Breakdown"
	if cfg.UseEmojis {
		header = "📈 " + header
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	elementBands := cfg.Registry.Bands[schema.ElementScoreBands]
	labelFor := func(score float64) string {
		if cfg.UseColors {
			return contract.GetColorLabel(score, elementBands)
		}
		return contract.GetPlainLabel(score, elementBands)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Family", "KPI", "Score", "Label", "Weight"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, family := range result.Families {
		for _, k := range family.Kpis {
			data = append(data, []string{
				family.Label,
				k.Label,
				fmtFloat(k.Normalized),
				labelFor(k.Normalized),
				fmt.Sprintf("%.2f", k.EffectiveWeight),
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, family := range result.Families {
		if _, err := fmt.Fprintf(w, "%s: %s/100 %s (family weight %.2f)\n",
			family.Label, fmtFloat(family.Score), labelFor(family.Score), family.Weight); err != nil {
			return err
		}
	}

	qualityBands := cfg.Registry.Bands[schema.OverallQualityBands]
	overallLabel := contract.GetPlainLabel(result.Overall, qualityBands)
	if cfg.UseColors {
		overallLabel = contract.GetColorLabel(result.Overall, qualityBands)
	}
	if _, err := fmt.Fprintf(w, "Overall: %s/100 (%s)\n", fmtFloat(result.Overall), overallLabel); err != nil {
		return err
	}
	return nil
}
