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

// historyTimeFormat renders run timestamps in history listings.
const historyTimeFormat = "2006-01-02 15:04:05"

// WriteHistoryRuns outputs persisted audit runs, newest first,
// dispatching based on the output format configured.
func WriteHistoryRuns(runs []schema.AuditRun, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"run_id", "start_time", "end_time", "overall_score", "outcome", "combo_count"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return writeHistoryCSVRows(csvWriter, runs, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeHistoryParquet(runs, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(runs, cfg, fmtFloat, w)
		}, "Wrote table")
	}
}

func writeHistoryCSVRows(w *csv.Writer, runs []schema.AuditRun, fmtFloat func(float64) string) error {
	for _, run := range runs {
		endTime := ""
		if run.EndTime != nil {
			endTime = run.EndTime.Format(historyTimeFormat)
		}
		rec := []string{
			strconv.FormatInt(run.RunID, 10),
			run.StartTime.Format(historyTimeFormat),
			endTime,
			fmtFloat(run.OverallScore),
			run.Outcome,
			strconv.Itoa(run.ComboCount),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

func writeHistoryParquet(runs []schema.AuditRun, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	records := make([]parquet.AuditRunRecord, len(runs))
	for i, run := range runs {
		rec := parquet.AuditRunRecord{
			RunID:        run.RunID,
			StartTime:    run.StartTime,
			EndTime:      run.EndTime,
			OverallScore: run.OverallScore,
			Outcome:      run.Outcome,
			ComboCount:   int32(run.ComboCount),
		}
		records[i] = rec
	}
	if err := parquet.WriteAuditRunsParquet(records, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

func writeHistoryTable(runs []schema.AuditRun, cfg *contract.Config, fmtFloat func(float64) string, w io.Writer) error {
	header := "Audit History"
	if cfg.UseEmojis {
		header = "🗂️  " + header
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	qualityBands := cfg.Registry.Bands[schema.OverallQualityBands]
	labelFor := func(score float64) string {
		if cfg.UseColors {
			return contract.GetColorLabel(score, qualityBands)
		}
		return contract.GetPlainLabel(score, qualityBands)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Started", "Duration", "Score", "Label", "Outcome", "Combos"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, run := range runs {
		duration := ""
		if run.EndTime != nil {
			duration = run.EndTime.Sub(run.StartTime).Round(time.Second).String()
		}
		data = append(data, []string{
			strconv.FormatInt(run.RunID, 10),
			run.StartTime.Format(historyTimeFormat),
			duration,
			fmtFloat(run.OverallScore),
			labelFor(run.OverallScore),
			run.Outcome,
			strconv.Itoa(run.ComboCount),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d runs\n", len(runs)); err != nil {
		return err
	}
	return nil
}

// WriteHistoryStatus prints a short status summary of the history store.
func WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Backend:  %s\n", status.Backend); err != nil {
			return err
		}
		if status.Location != "" {
			if _, err := fmt.Fprintf(w, "Location: %s\n", status.Location); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Runs:     %d\n", status.RunCount); err != nil {
			return err
		}
		if status.LastRun != nil {
			if _, err := fmt.Fprintf(w, "Last run: %s\n", status.LastRun.Format(historyTimeFormat)); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote text")
}
