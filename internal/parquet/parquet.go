// Package parquet provides data structures and functions for exporting
// audit data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/listinglab/asoscan/schema"
	"github.com/parquet-go/parquet-go"
)

// ComboRecord represents one scored keyword combination in a Parquet
// export. This struct mirrors the asoscan_combo_scores table.
type ComboRecord struct {
	// RunID references the parent audit run (0 for unpersisted runs)
	RunID int64 `parquet:"run_id,snappy"`

	// ComboText is the space-joined combo in canonical order
	ComboText string `parquet:"combo_text,snappy"`

	// Source names the listing field(s) the combo was drawn from
	Source string `parquet:"source,snappy"`

	// BrandClass is branded, generic or low_value
	BrandClass string `parquet:"brand_class,snappy"`

	// BrandAlias is the matched brand token (nullable)
	BrandAlias *string `parquet:"brand_alias,optional,snappy"`

	// WordCount is the number of constituent keywords
	WordCount int32 `parquet:"word_count,snappy"`

	// TotalScore is the weighted composite priority score (0-100)
	TotalScore int32 `parquet:"total_score,snappy"`

	// SemanticRelevance through NoiseConfidence are the factor scores
	SemanticRelevance int32 `parquet:"semantic_relevance,snappy"`
	LengthScore       int32 `parquet:"length_score,snappy"`
	BrandHybridBonus  int32 `parquet:"brand_hybrid_bonus,snappy"`
	NoveltyScore      int32 `parquet:"novelty_score,snappy"`
	NoiseConfidence   int32 `parquet:"noise_confidence,snappy"`

	// IsHighValue indicates a total score strictly above the high-value cutoff
	IsHighValue bool `parquet:"is_high_value,snappy"`

	// IsLongTail indicates a combo of three or more words
	IsLongTail bool `parquet:"is_long_tail,snappy"`

	// ComboExists indicates the combo already appears in the listing
	ComboExists bool `parquet:"combo_exists,snappy"`
}

// AuditRunRecord represents one audit run with metadata. This struct
// mirrors the asoscan_audit_runs table.
type AuditRunRecord struct {
	// RunID is the unique identifier for this audit run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the audit began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the audit completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// OverallScore is the 0-100 listing quality score
	OverallScore float64 `parquet:"overall_score,snappy"`

	// Outcome is ok or partial
	Outcome string `parquet:"outcome,snappy"`

	// ComboCount is the number of scored combos in this run
	ComboCount int32 `parquet:"combo_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FromScoredCombos converts scored combos into export records.
func FromScoredCombos(runID int64, combos []schema.ScoredCombo) []ComboRecord {
	records := make([]ComboRecord, len(combos))
	for i, c := range combos {
		rec := ComboRecord{
			RunID:             runID,
			ComboText:         c.Text,
			Source:            string(c.Source),
			BrandClass:        string(c.BrandClass),
			WordCount:         int32(c.WordCount),
			TotalScore:        int32(c.TotalScore),
			SemanticRelevance: int32(c.Factors.SemanticRelevance),
			LengthScore:       int32(c.Factors.LengthScore),
			BrandHybridBonus:  int32(c.Factors.BrandHybridBonus),
			NoveltyScore:      int32(c.Factors.NoveltyScore),
			NoiseConfidence:   int32(c.Factors.NoiseConfidence),
			IsHighValue:       c.IsHighValue,
			IsLongTail:        c.IsLongTail,
			ComboExists:       c.Exists,
		}
		if c.BrandAlias != "" {
			alias := c.BrandAlias
			rec.BrandAlias = &alias
		}
		records[i] = rec
	}
	return records
}

// WriteCombosParquet writes a slice of ComboRecord structs to a Parquet file.
func WriteCombosParquet(data []ComboRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ComboRecord struct tags
	writer := parquet.NewGenericWriter[ComboRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteAuditRunsParquet writes a slice of AuditRunRecord structs to a Parquet file.
func WriteAuditRunsParquet(data []AuditRunRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the AuditRunRecord struct tags
	writer := parquet.NewGenericWriter[AuditRunRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
