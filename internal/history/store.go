// Package history persists audit runs to a relational store. The
// scoring engine never touches it; commands record results here after
// engine calls complete.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/listinglab/asoscan/internal/contract"
	"github.com/listinglab/asoscan/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// StoreImpl handles durable storage of audit runs using various
// database backends.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// GetDBFilePath returns the default SQLite database location.
func GetDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".asoscan_history.db"
	}
	return filepath.Join(home, ".asoscan", "history.db")
}

// NewStore initializes and returns a new history store based on the
// backend type. The schema is migrated to the latest version on open.
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
			if mkErr := os.MkdirAll(filepath.Dir(dbPath), 0o755); mkErr != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", mkErr)
			}
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite history at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		connStr = dbPath

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL history: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=asoscan
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL history: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &StoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := runMigrations(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &StoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// rebind converts '?' placeholders to '$N' for PostgreSQL.
func (s *StoreImpl) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BeginAudit creates a new audit run row and returns its ID.
func (s *StoreImpl) BeginAudit(startTime time.Time, configParams map[string]any) (int64, error) {
	if s.db == nil {
		return 0, nil
	}

	var params *string
	if configParams != nil {
		data, err := json.Marshal(configParams)
		if err != nil {
			return 0, fmt.Errorf("failed to encode config params: %w", err)
		}
		str := string(data)
		params = &str
	}

	if s.backend == schema.PostgreSQLBackend {
		var runID int64
		query := s.rebind(`INSERT INTO asoscan_audit_runs (start_time, config_params) VALUES (?, ?) RETURNING run_id`)
		if err := s.db.QueryRow(query, startTime.Unix(), params).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to begin audit run: %w", err)
		}
		return runID, nil
	}

	res, err := s.db.Exec(`INSERT INTO asoscan_audit_runs (start_time, config_params) VALUES (?, ?)`, startTime.Unix(), params)
	if err != nil {
		return 0, fmt.Errorf("failed to begin audit run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve audit run id: %w", err)
	}
	return runID, nil
}

// EndAudit updates the audit run with completion data.
func (s *StoreImpl) EndAudit(runID int64, endTime time.Time, overallScore float64, outcome schema.AuditOutcome, comboCount int) error {
	if s.db == nil {
		return nil
	}
	query := s.rebind(`UPDATE asoscan_audit_runs SET end_time = ?, overall_score = ?, outcome = ?, combo_count = ? WHERE run_id = ?`)
	if _, err := s.db.Exec(query, endTime.Unix(), overallScore, string(outcome), comboCount, runID); err != nil {
		return fmt.Errorf("failed to finalize audit run %d: %w", runID, err)
	}
	return nil
}

// RecordComboScores stores the scored combos for a run in one transaction.
func (s *StoreImpl) RecordComboScores(runID int64, combos []schema.ScoredCombo) error {
	if s.db == nil || len(combos) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin combo transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.rebind(`INSERT INTO asoscan_combo_scores
		(run_id, combo_text, source, brand_class, word_count, total_score, is_high_value, is_long_tail, combo_exists)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare combo insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range combos {
		if _, err := stmt.Exec(runID, c.Text, string(c.Source), string(c.BrandClass),
			c.WordCount, c.TotalScore, c.IsHighValue, c.IsLongTail, c.Exists); err != nil {
			return fmt.Errorf("failed to record combo %q: %w", c.Text, err)
		}
	}
	return tx.Commit()
}

// RecordKpiScores stores the per-KPI breakdown for a run.
func (s *StoreImpl) RecordKpiScores(runID int64, result schema.KpiEngineResult) error {
	if s.db == nil {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin kpi transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.rebind(`INSERT INTO asoscan_kpi_scores
		(run_id, kpi_id, family, raw_value, normalized, effective_weight)
		VALUES (?, ?, ?, ?, ?, ?)`)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare kpi insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, family := range result.Families {
		for _, k := range family.Kpis {
			if _, err := stmt.Exec(runID, k.ID, k.Family, k.Raw, k.Normalized, k.EffectiveWeight); err != nil {
				return fmt.Errorf("failed to record kpi %q: %w", k.ID, err)
			}
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent audit runs, newest first.
func (s *StoreImpl) ListRuns(limit int) ([]schema.AuditRun, error) {
	if s.db == nil {
		return []schema.AuditRun{}, nil
	}
	query := s.rebind(`SELECT run_id, start_time, end_time, overall_score, outcome, combo_count, config_params
		FROM asoscan_audit_runs ORDER BY start_time DESC, run_id DESC LIMIT ?`)
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.AuditRun
	for rows.Next() {
		var run schema.AuditRun
		var start int64
		var end sql.NullInt64
		var params sql.NullString
		if err := rows.Scan(&run.RunID, &start, &end, &run.OverallScore, &run.Outcome, &run.ComboCount, &params); err != nil {
			return nil, fmt.Errorf("failed to scan audit run: %w", err)
		}
		run.StartTime = time.Unix(start, 0).UTC()
		if end.Valid {
			t := time.Unix(end.Int64, 0).UTC()
			run.EndTime = &t
		}
		if params.Valid && params.String != "" {
			if err := json.Unmarshal([]byte(params.String), &run.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to decode config params for run %d: %w", run.RunID, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetStatus returns status information about the history store.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{Backend: s.backend, Location: s.connStr}
	if s.db == nil {
		return status, nil
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM asoscan_audit_runs`).Scan(&status.RunCount); err != nil {
		return status, fmt.Errorf("failed to count audit runs: %w", err)
	}

	var last sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(start_time) FROM asoscan_audit_runs`).Scan(&last); err != nil {
		return status, fmt.Errorf("failed to resolve last run time: %w", err)
	}
	if last.Valid {
		t := time.Unix(last.Int64, 0).UTC()
		status.LastRun = &t
	}
	return status, nil
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
