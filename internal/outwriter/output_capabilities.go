package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteCapabilityMap outputs the capability extraction result,
// dispatching based on the output format configured.
func WriteCapabilityMap(capMap *schema.AppCapabilityMap, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, capMap)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"class", "matched", "category", "criticality", "confidence"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return writeCapabilityCSVRows(csvWriter, capMap)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCapabilityTable(capMap, cfg, w)
		}, "Wrote table")
	}
}

func writeCapabilityCSVRows(w *csv.Writer, capMap *schema.AppCapabilityMap) error {
	for _, class := range schema.AllPatternClasses {
		bucket := capMap.Bucket(class)
		for _, item := range bucket.Items {
			rec := []string{
				string(class),
				item.Matched,
				item.Category,
				string(item.Criticality),
				fmt.Sprintf("%.1f", item.Confidence),
			}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}
	return nil
}

func writeCapabilityTable(capMap *schema.AppCapabilityMap, cfg *contract.Config, w io.Writer) error {
	header := "Capability Map"
	if cfg.UseEmojis {
		header = "🔍 " + header
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Class", "Matched", "Category", "Criticality", "Confidence"})

	var data [][]string
	for _, class := range schema.AllPatternClasses {
		bucket := capMap.Bucket(class)
		for _, item := range bucket.Items {
			data = append(data, []string{
				string(class),
				contract.TruncateText(item.Matched, getMaxComboWidth(cfg)),
				item.Category,
				string(item.Criticality),
				fmt.Sprintf("%.1f", item.Confidence),
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Per-class category summary below the table
	for _, class := range schema.AllPatternClasses {
		bucket := capMap.Bucket(class)
		if bucket.Count == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %d detections across categories [%s]\n",
			class, bucket.Count, strings.Join(bucket.Categories, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total detections: %d\n", capMap.TotalCount()); err != nil {
		return err
	}
	return nil
}
