// Package history records a summary row per scraper run in a local SQLite
// database. It is observability only: the core engine never consults it, and
// a failure to record a run is logged and otherwise ignored.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded scraper run.
type Run struct {
	RunID          uuid.UUID
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         string // "running", "completed", "aborted"
	RowsSeen       int
	SolutionsSaved int
	Watermark      *time.Time
}

// Store manages the run-history database.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed initializes) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		status TEXT NOT NULL,
		rows_seen INTEGER DEFAULT 0,
		solutions_saved INTEGER DEFAULT 0,
		watermark TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin inserts a new run in the "running" state and returns it.
func (s *Store) Begin() (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
		Status:    "running",
	}

	query := "INSERT INTO runs (run_id, started_at, status) VALUES (?, ?, ?)"
	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.StartedAt.Format(time.RFC3339),
		run.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// Finish marks a run as done with its final counters and watermark.
func (s *Store) Finish(run *Run, status string, rowsSeen, solutionsSaved int, watermark *time.Time) error {
	now := time.Now()
	run.FinishedAt = &now
	run.Status = status
	run.RowsSeen = rowsSeen
	run.SolutionsSaved = solutionsSaved
	run.Watermark = watermark

	var watermarkText *string
	if watermark != nil {
		text := watermark.Format(time.RFC3339)
		watermarkText = &text
	}

	query := `
	UPDATE runs
	SET finished_at = ?, status = ?, rows_seen = ?, solutions_saved = ?, watermark = ?
	WHERE run_id = ?
	`
	_, err := s.db.Exec(query,
		now.Format(time.RFC3339),
		status,
		rowsSeen,
		solutionsSaved,
		watermarkText,
		run.RunID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 returns
// all of them.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := "SELECT run_id, started_at, finished_at, status, rows_seen, solutions_saved, watermark FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run           Run
			runID         string
			startedAt     string
			finishedAt    sql.NullString
			watermarkText sql.NullString
		)

		err := rows.Scan(&runID, &startedAt, &finishedAt, &run.Status,
			&run.RowsSeen, &run.SolutionsSaved, &watermarkText)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.RunID, err = uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("invalid run_id in database: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid started_at in database: %w", err)
		}
		if finishedAt.Valid {
			t, err := time.Parse(time.RFC3339, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("invalid finished_at in database: %w", err)
			}
			run.FinishedAt = &t
		}
		if watermarkText.Valid {
			t, err := time.Parse(time.RFC3339, watermarkText.String)
			if err != nil {
				return nil, fmt.Errorf("invalid watermark in database: %w", err)
			}
			run.Watermark = &t
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}
