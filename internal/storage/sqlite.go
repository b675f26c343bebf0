// Package storage provides SQLite-based persistence for runs and the
// progress record. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-runner/internal/progress"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Ensure Store can hold the progress record
var _ progress.KV = (*Store)(nil)

// RunEntry is one finished run.
type RunEntry struct {
	RunID     string
	Mode      string // Difficulty preset or "sim"
	Seed      int64
	Score     int
	Distance  float64
	Duration  time.Duration
	Items     int
	MaxCombo  int
	CreatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			items INTEGER NOT NULL DEFAULT 0,
			max_combo INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);
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

// Get returns the value stored under key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// Namespace returns a view of the kv table whose keys are prefixed with
// ns and a slash. The SSH server keeps one progress record per user this way.
func (s *Store) Namespace(ns string) progress.KV {
	if ns == "" {
		return s
	}
	return namespaced{store: s, prefix: ns + "/"}
}

type namespaced struct {
	store  *Store
	prefix string
}

func (n namespaced) Get(key string) ([]byte, bool, error) {
	return n.store.Get(n.prefix + key)
}

func (n namespaced) Put(key string, value []byte) error {
	return n.store.Put(n.prefix+key, value)
}

// SaveRun records a finished run. An empty RunID gets a fresh UUID.
// Returns the run ID.
func (s *Store) SaveRun(run RunEntry) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, mode, seed, score, distance, duration_ms, items, max_combo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Mode, run.Seed, run.Score, run.Distance,
		run.Duration.Milliseconds(), run.Items, run.MaxCombo,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run.RunID, nil
}

const runColumns = `run_id, mode, seed, score, distance, duration_ms, items, max_combo, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunEntry, error) {
	var e RunEntry
	var durationMs int64
	var createdAt any
	if err := row.Scan(&e.RunID, &e.Mode, &e.Seed, &e.Score, &e.Distance, &durationMs, &e.Items, &e.MaxCombo, &createdAt); err != nil {
		return RunEntry{}, err
	}
	e.Duration = time.Duration(durationMs) * time.Millisecond
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
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

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		e, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// TopRuns retrieves the top N runs. An empty mode matches every mode.
// Results are ordered by score descending.
func (s *Store) TopRuns(mode string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mode, mode, limit,
	)
}

// RecentRuns retrieves the most recent runs of every mode.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// RunByID retrieves one run.
func (s *Store) RunByID(runID string) (RunEntry, error) {
	e, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return RunEntry{}, ErrNotFound
	}
	if err != nil {
		return RunEntry{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return e, nil
}

// HighScore returns the highest score for the mode, or across all modes
// when mode is empty. Returns 0 if no runs exist.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE ? = '' OR mode = ?",
		mode, mode,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes all runs of the mode.
func (s *Store) ClearRuns(mode string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// RunStats contains aggregated statistics for a mode.
type RunStats struct {
	Mode          string
	Runs          int
	HighScore     int
	AvgScore      float64
	TotalDistance float64
	LastPlayed    time.Time
}

// ModeStats retrieves aggregated statistics for every mode that has runs.
func (s *Store) ModeStats() (map[string]*RunStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), SUM(distance), MAX(created_at)
		 FROM runs
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*RunStats)
	for rows.Next() {
		var st RunStats
		var lastPlayed any
		if err := rows.Scan(&st.Mode, &st.Runs, &st.HighScore, &st.AvgScore, &st.TotalDistance, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Mode] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
