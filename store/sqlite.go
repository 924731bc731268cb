// Package store persists calculation-run results in SQLite, keyed by
// (run_id, engine, params_hash). It is the downstream cache consumer of the
// engines; the engines themselves never touch it.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bankcalc/regcap/engine"
)

// SQLite is a result store backed by a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open creates or opens the store at path and applies the schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// SaveRun records a completed run: headline metrics plus per-exposure RWA and
// ECL figures. Re-saving a run id overwrites its rows.
func (s *SQLite) SaveRun(res *engine.RunResult, portfolioHash string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO runs (run_id, params_hash, portfolio_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		res.RunID, res.ParamsHash, portfolioHash, time.Now().UTC(),
	); err != nil {
		return err
	}

	for _, m := range res.Metrics() {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO metrics (run_id, engine, name, value)
			VALUES (?, ?, ?, ?)`,
			res.RunID, "aggregate", m.Name, m.Value,
		); err != nil {
			return err
		}
	}

	for _, r := range res.Standardized {
		if err := insertExposure(tx, res.RunID, "rwa_standardized", r.ExposureID, "rwa", r.RWA); err != nil {
			return err
		}
	}
	for _, r := range res.IRB {
		if err := insertExposure(tx, res.RunID, "rwa_irb", r.ExposureID, "rwa", r.RWA); err != nil {
			return err
		}
	}
	for _, r := range res.ECL {
		if err := insertExposure(tx, res.RunID, "ecl", r.ExposureID, "ecl_amount", r.ECLAmount); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertExposure(tx *sql.Tx, runID, eng, exposureID, metric string, value float64) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO exposure_results (run_id, engine, exposure_id, metric, value)
		VALUES (?, ?, ?, ?, ?)`,
		runID, eng, exposureID, metric, value,
	)
	return err
}

// RunInfo is a stored run header.
type RunInfo struct {
	RunID         string
	ParamsHash    string
	PortfolioHash string
	CreatedAt     time.Time
}

// GetRun loads a run header by id.
func (s *SQLite) GetRun(runID string) (RunInfo, error) {
	var info RunInfo
	row := s.db.QueryRow(`
		SELECT run_id, params_hash, portfolio_hash, created_at
		FROM runs WHERE run_id = ?`, runID)
	if err := row.Scan(&info.RunID, &info.ParamsHash, &info.PortfolioHash, &info.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return RunInfo{}, fmt.Errorf("run %q not found", runID)
		}
		return RunInfo{}, err
	}
	return info, nil
}

// CacheHit reports whether a run with these exact inputs is already stored.
// The cache-hit flag is attached by callers, never computed inside an engine.
func (s *SQLite) CacheHit(runID, paramsHash, portfolioHash string) (bool, error) {
	info, err := s.GetRun(runID)
	if err != nil {
		return false, nil // unknown run is a miss, not an error
	}
	return info.ParamsHash == paramsHash && info.PortfolioHash == portfolioHash, nil
}

// Metrics returns a run's aggregate metrics in stored name order.
func (s *SQLite) Metrics(runID string) ([]engine.Metric, error) {
	rows, err := s.db.Query(`
		SELECT name, value FROM metrics
		WHERE run_id = ? ORDER BY name ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Metric
	for rows.Next() {
		var m engine.Metric
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ExposureValues returns the per-exposure figures of one engine for a run,
// ordered by exposure id.
func (s *SQLite) ExposureValues(runID, eng string) (map[string]float64, error) {
	rows, err := s.db.Query(`
		SELECT exposure_id, value FROM exposure_results
		WHERE run_id = ? AND engine = ? ORDER BY exposure_id ASC`, runID, eng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var id string
		var v float64
		if err := rows.Scan(&id, &v); err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }
