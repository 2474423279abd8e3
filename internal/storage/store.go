// Package storage persists runs and their per-cycle energy frames in
// SQLite.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/selkora/hyperfield/internal/config"
	"github.com/selkora/hyperfield/internal/equation"
	"github.com/selkora/hyperfield/internal/sim"
)

// Store wraps a SQLite connection holding run history.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		preset TEXT NOT NULL,
		max_dimensions INTEGER NOT NULL,
		cycles INTEGER NOT NULL,
		coefficients TEXT NOT NULL,
		metrics TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS frames (
		run_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		dimension INTEGER NOT NULL,
		observable REAL NOT NULL,
		potential REAL NOT NULL,
		dark_matter REAL NOT NULL,
		dark_energy REAL NOT NULL,
		PRIMARY KEY (run_id, cycle)
	);

	CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RunRecord is the stored metadata for one run.
type RunRecord struct {
	ID            string    `db:"id"`
	CreatedAt     time.Time `db:"created_at"`
	Preset        string    `db:"preset"`
	MaxDimensions int       `db:"max_dimensions"`
	Cycles        int       `db:"cycles"`
	Coefficients  string    `db:"coefficients"`
	Metrics       string    `db:"metrics"`
}

// CoefficientMap decodes the stored coefficient blob.
func (r RunRecord) CoefficientMap() (map[string]float64, error) {
	out := make(map[string]float64)
	if err := json.Unmarshal([]byte(r.Coefficients), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MetricMap decodes the stored metric blob.
func (r RunRecord) MetricMap() (map[string]float64, error) {
	out := make(map[string]float64)
	if err := json.Unmarshal([]byte(r.Metrics), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveRun writes a run and all its frames in one transaction, returning
// the new run ID.
func (s *Store) SaveRun(cfg *config.Config, preset string, result *sim.Result) (string, error) {
	runID := uuid.NewString()

	coeffs, err := json.Marshal(cfg.Coefficients)
	if err != nil {
		return "", fmt.Errorf("encode coefficients: %w", err)
	}
	mets, err := json.Marshal(result.Metrics)
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, preset, max_dimensions, cycles, coefficients, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), preset, cfg.MaxDimensions, result.CyclesRun,
		string(coeffs), string(mets),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO frames
		(run_id, cycle, dimension, observable, potential, dark_matter, dark_energy)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, f := range result.Frames {
		if _, err := stmt.Exec(runID, i, f.Dimension, f.Observable, f.Potential, f.DarkMatter, f.DarkEnergy); err != nil {
			return "", fmt.Errorf("insert frame %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("run saved", "id", runID, "frames", len(result.Frames))
	return runID, nil
}

// ListRuns returns run metadata, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := s.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC LIMIT ?", limit)
	return runs, err
}

// LoadRun fetches one run's metadata.
func (s *Store) LoadRun(runID string) (*RunRecord, error) {
	var rec RunRecord
	if err := s.conn.Get(&rec, "SELECT * FROM runs WHERE id = ?", runID); err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	return &rec, nil
}

// LoadFrames fetches a run's frames in cycle order.
func (s *Store) LoadFrames(runID string) ([]equation.DimensionData, error) {
	rows, err := s.conn.Queryx(
		`SELECT dimension, observable, potential, dark_matter, dark_energy
		 FROM frames WHERE run_id = ? ORDER BY cycle`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	frames := make([]equation.DimensionData, 0)
	for rows.Next() {
		var f equation.DimensionData
		if err := rows.Scan(&f.Dimension, &f.Observable, &f.Potential, &f.DarkMatter, &f.DarkEnergy); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}
