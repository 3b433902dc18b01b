package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"matdemand/internal/demand"
	"matdemand/internal/material"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .matdemand) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		return s.freshInstall()
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return s.freshInstall()
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

func (s *SqlStore) freshInstall() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a run and returns its id.
func (s *SqlStore) CreateRun(run *Run) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	created := run.CreatedAt
	if created == "" {
		created = nowUTC()
	}
	res, err := s.db.Exec(
		"INSERT INTO runs(scenario, mode, base_year, created_at) VALUES(?, ?, ?, ?)",
		run.Scenario, run.Mode, run.BaseYear, created,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetRun returns the run by id, or nil if it does not exist.
func (s *SqlStore) GetRun(runID int64) (*Run, error) {
	var r Run
	err := s.db.QueryRow(
		"SELECT id, scenario, mode, base_year, created_at FROM runs WHERE id = ?", runID,
	).Scan(&r.ID, &r.Scenario, &r.Mode, &r.BaseYear, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns every run ordered by id.
func (s *SqlStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query("SELECT id, scenario, mode, base_year, created_at FROM runs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Mode, &r.BaseYear, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// SaveFit stores the curve of one material of a run.
func (s *SqlStore) SaveFit(f *Fit) error {
	if f == nil {
		return errors.New("fit is nil")
	}
	_, err := s.db.Exec(
		`INSERT INTO fits(run_id, material, form, a, b, m, adjusted_a, adjusted_b, adjusted_m,
		                  iterations, ssr, rmse, r_squared, observations, first_year, last_year)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.RunID, string(f.Material), f.Form,
		f.Fitted.A, f.Fitted.B, f.Fitted.M,
		f.Adjusted.A, f.Adjusted.B, f.Adjusted.M,
		f.Iterations, f.SSR, f.RMSE, f.RSquared, f.Observations, f.FirstYear, f.LastYear,
	)
	if err != nil {
		return fmt.Errorf("insert fit %s: %w", f.Material, err)
	}
	return nil
}

// ListFits returns the fits of a run ordered by material.
func (s *SqlStore) ListFits(runID int64) ([]*Fit, error) {
	rows, err := s.db.Query(
		`SELECT run_id, material, form, a, b, m, adjusted_a, adjusted_b, adjusted_m,
		        iterations, ssr, rmse, r_squared, observations, first_year, last_year
		 FROM fits WHERE run_id = ? ORDER BY material`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fits: %w", err)
	}
	defer rows.Close()
	var out []*Fit
	for rows.Next() {
		var f Fit
		var m string
		if err := rows.Scan(&f.RunID, &m, &f.Form,
			&f.Fitted.A, &f.Fitted.B, &f.Fitted.M,
			&f.Adjusted.A, &f.Adjusted.B, &f.Adjusted.M,
			&f.Iterations, &f.SSR, &f.RMSE, &f.RSquared, &f.Observations, &f.FirstYear, &f.LastYear,
		); err != nil {
			return nil, fmt.Errorf("scan fit: %w", err)
		}
		f.Material = material.Material(m)
		out = append(out, &f)
	}
	return out, rows.Err()
}

// SaveRows inserts demand rows in one transaction.
func (s *SqlStore) SaveRows(runID int64, rows []demand.Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rows tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT INTO demand(run_id, material, region, year, per_capita, total, unit, time, commodity, level)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare demand insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.Exec(runID, string(r.Material), r.Region, r.Year, r.PerCapita, r.Total,
			r.Unit, r.Time, r.Commodity, r.Level); err != nil {
			return fmt.Errorf("insert demand %s/%s/%d: %w", r.Material, r.Region, r.Year, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rows tx: %w", err)
	}
	return nil
}

// ListRows returns the stored rows of a run.
func (s *SqlStore) ListRows(runID int64, m material.Material) ([]demand.Row, error) {
	q := `SELECT material, region, year, per_capita, total, unit, time, commodity, level
	      FROM demand WHERE run_id = ?`
	args := []any{runID}
	if m != "" {
		q += " AND material = ?"
		args = append(args, string(m))
	}
	q += " ORDER BY material, region, year"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list demand: %w", err)
	}
	defer rows.Close()
	var out []demand.Row
	for rows.Next() {
		var r demand.Row
		var mat string
		if err := rows.Scan(&mat, &r.Region, &r.Year, &r.PerCapita, &r.Total,
			&r.Unit, &r.Time, &r.Commodity, &r.Level); err != nil {
			return nil, fmt.Errorf("scan demand: %w", err)
		}
		r.Material = material.Material(mat)
		out = append(out, r)
	}
	return out, rows.Err()
}
