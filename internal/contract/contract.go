// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/listinglab/asoscan/schema"
)

// HistoryStore defines the interface for persisting audit runs. The
// engine itself never writes history; commands record results after
// engine calls. This allows the store to be mocked for testing.
type HistoryStore interface {
	// BeginAudit creates a new audit run and returns its unique ID.
	BeginAudit(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAudit updates the audit run with completion data.
	EndAudit(runID int64, endTime time.Time, overallScore float64, outcome schema.AuditOutcome, comboCount int) error

	// RecordComboScores stores the scored combos for a run.
	RecordComboScores(runID int64, combos []schema.ScoredCombo) error

	// RecordKpiScores stores the per-KPI breakdown for a run.
	RecordKpiScores(runID int64, result schema.KpiEngineResult) error

	// ListRuns returns the most recent audit runs, newest first.
	ListRuns(limit int) ([]schema.AuditRun, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
