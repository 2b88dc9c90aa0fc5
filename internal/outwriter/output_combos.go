package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/internal/parquet"
	"github.com/listinglab/asoscan/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComboResults outputs scored combos, dispatching based on the
// output format configured.
func WriteComboResults(combos []schema.ScoredCombo, cfg *contract.Config, duration time.Duration) error {
	_, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeComboJSONResults(combos, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeComboCSVResults(combos, cfg, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeComboParquetResults(combos, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComboTable(combos, cfg, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

func writeComboJSONResults(combos []schema.ScoredCombo, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, combos)
	}, "Wrote JSON")
}

func writeComboCSVResults(combos []schema.ScoredCombo, cfg *contract.Config, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"rank",
			"combo",
			"score",
			"label",
			"source",
			"brand_class",
			"words",
			"exists",
			"semantic",
			"length",
			"brand_hybrid",
			"novelty",
			"noise",
		}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			bands := cfg.Registry.Bands[schema.ComboPriorityBands]
			for i, c := range combos {
				rec := []string{
					strconv.Itoa(i + 1),
					c.Text,
					fmt.Sprintf(intFmt, c.TotalScore),
					contract.GetPlainLabel(float64(c.TotalScore), bands),
					string(c.Source),
					string(c.BrandClass),
					fmt.Sprintf(intFmt, c.WordCount),
					formatBool(c.Exists),
					fmt.Sprintf(intFmt, c.Factors.SemanticRelevance),
					fmt.Sprintf(intFmt, c.Factors.LengthScore),
					fmt.Sprintf(intFmt, c.Factors.BrandHybridBonus),
					fmt.Sprintf(intFmt, c.Factors.NoveltyScore),
					fmt.Sprintf(intFmt, c.Factors.NoiseConfidence),
				}
				if err := csvWriter.Write(rec); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeComboParquetResults exports combos to a Parquet file. Parquet is
// a binary format, so an explicit output file is required.
func writeComboParquetResults(combos []schema.ScoredCombo, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	records := parquet.FromScoredCombos(0, combos)
	if err := parquet.WriteCombosParquet(records, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// writeComboTable generates and writes the human-readable combo table.
func writeComboTable(combos []schema.ScoredCombo, cfg *contract.Config, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Combo", "Score", "Label", "Source", "Class", "Words", "Exists"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	bands := cfg.Registry.Bands[schema.ComboPriorityBands]
	labelFor := func(score float64) string {
		if cfg.UseColors {
			return contract.GetColorLabel(score, bands)
		}
		return contract.GetPlainLabel(score, bands)
	}

	var data [][]string
	for i, c := range combos {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(c.Text, getMaxComboWidth(cfg)),
			fmt.Sprintf(intFmt, c.TotalScore),
			labelFor(float64(c.TotalScore)),
			string(c.Source),
			string(c.BrandClass),
			fmt.Sprintf(intFmt, c.WordCount),
			formatBool(c.Exists),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Summary stats
	highValue := 0
	longTail := 0
	missing := 0
	for _, c := range combos {
		if c.IsHighValue {
			highValue++
		}
		if c.IsLongTail {
			longTail++
		}
		if !c.Exists {
			missing++
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d combos (high value: %d, long tail: %d, missing from listing: %d)\n",
		len(combos), highValue, longTail, missing); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Scoring completed in %v with %d workers. Registry version: %s\n",
		duration, cfg.Workers, cfg.Registry.Version); err != nil {
		return err
	}
	return nil
}
