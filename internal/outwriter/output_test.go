package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		ResultLimit: 25,
		Workers:     4,
		Precision:   1,
		Output:      output,
		OutputFile:  filepath.Join(t.TempDir(), "out"),
		Registry:    schema.DefaultFormulaRegistry(),
	}
}

func testCombos() []schema.ScoredCombo {
	return []schema.ScoredCombo{
		{
			ClassifiedCombo: schema.ClassifiedCombo{
				Text:       "duolingo spanish",
				Source:     schema.TitleSource,
				BrandClass: schema.BrandedClass,
				BrandAlias: "duolingo",
				WordCount:  2,
				Exists:     true,
			},
			Factors: schema.ScoreFactors{
				SemanticRelevance: 80, LengthScore: 80, BrandHybridBonus: 100,
				NoveltyScore: 40, NoiseConfidence: 20,
			},
			TotalScore:  78,
			IsHighValue: true,
		},
		{
			ClassifiedCombo: schema.ClassifiedCombo{
				Text:       "learn spanish fast",
				Source:     schema.TitleSubtitleSource,
				BrandClass: schema.GenericClass,
				WordCount:  3,
			},
			TotalScore: 55,
			IsLongTail: true,
		},
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestWriteComboResultsJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, WriteComboResults(testCombos(), cfg, time.Second))

	var got []schema.ScoredCombo
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "duolingo spanish", got[0].Text)
	assert.Equal(t, 78, got[0].TotalScore)
	assert.True(t, got[1].IsLongTail)
}

func TestWriteComboResultsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	require.NoError(t, WriteComboResults(testCombos(), cfg, time.Second))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"rank", "combo", "score", "label", "source", "brand_class",
		"words", "exists", "semantic", "length", "brand_hybrid", "novelty", "noise",
	}, rows[0])
	assert.Equal(t, []string{
		"1", "duolingo spanish", "78", "High value", "title", "branded",
		"2", "yes", "80", "80", "100", "40", "20",
	}, rows[1])
	assert.Equal(t, "Worth testing", rows[2][3])
	assert.Equal(t, "no", rows[2][7])
}

func TestWriteComboResultsTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	require.NoError(t, WriteComboResults(testCombos(), cfg, 150*time.Millisecond))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "duolingo spanish")
	assert.Contains(t, out, "High value")
	assert.Contains(t, out, "Showing 2 combos (high value: 1, long tail: 1, missing from listing: 1)")
	assert.Contains(t, out, "Scoring completed in 150ms with 4 workers")
	assert.Contains(t, out, "Registry version: "+cfg.Registry.Version)
}

func TestWriteComboResultsParquet(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "combos.parquet")
	require.NoError(t, WriteComboResults(testCombos(), cfg, time.Second))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteComboResultsParquetRequiresFile(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut)
	cfg.OutputFile = ""
	err := WriteComboResults(testCombos(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet output requires --output-file")
}

func TestWriteKpiResultsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	result := &schema.KpiEngineResult{
		Families: []schema.KpiFamilyResult{
			{
				ID: "hook_strength", Label: "Hook strength", Score: 79, Weight: 0.20,
				Kpis: []schema.KpiResult{
					{
						ID: "lead_hook", Family: "hook_strength", Label: "Description lead hook",
						Raw: 2, Normalized: 100, BaseWeight: 0.40, EffectiveWeight: 0.60,
					},
				},
			},
		},
		Overall: 79,
	}
	require.NoError(t, WriteKpiResults(result, cfg))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"family", "kpi", "label", "raw", "normalized", "base_weight", "effective_weight"}, rows[0])
	assert.Equal(t, []string{"hook_strength", "lead_hook", "Description lead hook", "2.0", "100.0", "0.40", "0.60"}, rows[1])
}

func TestWriteHistoryRunsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	start := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	end := start.Add(5 * time.Second)
	runs := []schema.AuditRun{
		{RunID: 2, StartTime: start, EndTime: &end, OverallScore: 72.5, Outcome: "ok", ComboCount: 40},
		{RunID: 1, StartTime: start.Add(-time.Hour), Outcome: "partial"},
	}
	require.NoError(t, WriteHistoryRuns(runs, cfg))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"run_id", "start_time", "end_time", "overall_score", "outcome", "combo_count"}, rows[0])
	assert.Equal(t, []string{"2", "2026-08-20 10:30:00", "2026-08-20 10:30:05", "72.5", "ok", "40"}, rows[1])
	// Unfinished runs leave the end time blank.
	assert.Equal(t, "", rows[2][2])
}

func TestWriteHistoryStatusText(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	last := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	status := schema.HistoryStatus{
		Backend:  schema.SQLiteBackend,
		Location: "/tmp/history.db",
		RunCount: 12,
		LastRun:  &last,
	}
	require.NoError(t, WriteHistoryStatus(status, cfg))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Backend:  sqlite")
	assert.Contains(t, out, "Location: /tmp/history.db")
	assert.Contains(t, out, "Runs:     12")
	assert.Contains(t, out, "Last run: 2026-08-20 10:30:00")
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "yes", formatBool(true))
	assert.Equal(t, "no", formatBool(false))
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)
	assert.Equal(t, "72.5", fmtFloat(72.5))
	assert.Equal(t, "%d", intFmt)

	fmtFloat, _ = createFormatters(2)
	assert.Equal(t, "72.50", fmtFloat(72.5))
}

func TestGetMaxComboWidth(t *testing.T) {
	narrow := &contract.Config{Width: 60}
	assert.Equal(t, 24, getMaxComboWidth(narrow))

	wide := &contract.Config{Width: 120}
	assert.Equal(t, 40, getMaxComboWidth(wide))
}

func TestGetTableWidthOverride(t *testing.T) {
	assert.Equal(t, 72, getTableWidth(&contract.Config{Width: 72}))
}
