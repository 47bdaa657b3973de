// Package storage provides SQLite-based persistence for training runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/flaptrain/internal/optimize"
	"github.com/vovakirdan/flaptrain/internal/sim"
	"github.com/vovakirdan/flaptrain/internal/weights"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for training history.
type Store struct {
	db *sql.DB
}

// Run is one stored optimizer run.
type Run struct {
	ID          int64
	Variant     string
	Optimizer   string
	Seed        int64
	Generations int // generations recorded so far
	BestFitness float64
	Best        sim.Weights
	CreatedAt   time.Time
	FinishedAt  time.Time // zero while the run is in progress
}

// Finished reports whether FinishRun was called for the run.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			optimizer TEXT NOT NULL,
			seed INTEGER NOT NULL,
			generations INTEGER NOT NULL DEFAULT 0,
			best_fitness REAL,
			best_weights TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(variant, best_fitness DESC);

		CREATE TABLE IF NOT EXISTS generations (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			fitness REAL NOT NULL,
			best REAL NOT NULL,
			moving_avg REAL NOT NULL,
			epsilon REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, idx)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun registers a new run and returns its id.
func (s *Store) CreateRun(variant, optimizer string, seed int64) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (variant, optimizer, seed) VALUES (?, ?, ?)",
		variant, optimizer, seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordGeneration appends one generation to a run's history.
func (s *Store) RecordGeneration(runID int64, g optimize.Generation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO generations (run_id, idx, fitness, best, moving_avg, epsilon)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, g.Index, g.Fitness, g.Best, g.MovingAverage, g.Epsilon,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record generation %d: %w", g.Index, err)
	}

	res, err := tx.Exec("UPDATE runs SET generations = generations + 1 WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("storage: cannot update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return tx.Commit()
}

// FinishRun stores the best weights and marks the run finished.
func (s *Store) FinishRun(runID int64, best sim.Weights, fitness float64) error {
	doc, err := weights.Encode(best, weights.FormatJSON)
	if err != nil {
		return fmt.Errorf("storage: cannot encode weights: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE runs SET best_fitness = ?, best_weights = ?, finished_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		fitness, string(doc), runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `id, variant, optimizer, seed, generations, best_fitness, best_weights, created_at, finished_at`

// Runs lists runs newest first. An empty variant lists all variants.
func (s *Store) Runs(variant string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR variant = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Run fetches a single run.
func (s *Store) Run(id int64) (Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return r, err
}

// BestRun returns the finished run with the highest fitness for a variant.
func (s *Store) BestRun(variant string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE variant = ? AND finished_at IS NOT NULL
		 ORDER BY best_fitness DESC, id ASC
		 LIMIT 1`,
		variant,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: no finished run for %s", ErrRunNotFound, variant)
	}
	return r, err
}

// History returns a run's generations in order.
func (s *Store) History(runID int64) ([]optimize.Generation, error) {
	rows, err := s.db.Query(
		`SELECT idx, fitness, best, moving_avg, epsilon
		 FROM generations
		 WHERE run_id = ?
		 ORDER BY idx`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query history: %w", err)
	}
	defer rows.Close()

	var history []optimize.Generation
	for rows.Next() {
		var g optimize.Generation
		if err := rows.Scan(&g.Index, &g.Fitness, &g.Best, &g.MovingAverage, &g.Epsilon); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		history = append(history, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return history, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r          Run
		fitness    sql.NullFloat64
		doc        sql.NullString
		createdAt  any
		finishedAt any
	)
	err := row.Scan(&r.ID, &r.Variant, &r.Optimizer, &r.Seed, &r.Generations,
		&fitness, &doc, &createdAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot scan run: %w", err)
	}

	r.BestFitness = fitness.Float64
	if doc.Valid && doc.String != "" {
		if r.Best, err = weights.Decode([]byte(doc.String), weights.FormatJSON); err != nil {
			return Run{}, fmt.Errorf("storage: run %d: %w", r.ID, err)
		}
	}
	r.CreatedAt = parseTime(createdAt)
	r.FinishedAt = parseTime(finishedAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
