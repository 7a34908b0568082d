// Package runlog keeps a local sqlite history of stage invocations. The
// recorder is best-effort bookkeeping: stages log a warning and carry on
// when it is unavailable, so all methods are safe on a nil receiver.
package runlog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// Recorder writes and reads the run history.
type Recorder struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run-log database at path and
// applies pending migrations.
func Open(path string) (*Recorder, error) {
	if err := pipeline.EnsureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.db.Close()
}

// Begin records the start of a stage run and returns its id.
func (r *Recorder) Begin(stage string) string {
	if r == nil {
		return ""
	}

	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO pipeline_runs (id, stage, status, started_at)
		VALUES (?, ?, 'running', ?)
	`, id, stage, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		slog.Warn("Failed to record run start", "stage", stage, "error", err)
		return ""
	}

	return id
}

// Finish records the outcome of a stage run started with Begin.
func (r *Recorder) Finish(id string, records, batches int, runErr error) {
	if r == nil || id == "" {
		return
	}

	status := "ok"
	errMsg := ""
	if runErr != nil {
		status = "error"
		errMsg = runErr.Error()
	}

	_, err := r.db.Exec(`
		UPDATE pipeline_runs
		SET status = ?, records = ?, batches = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, status, records, batches, errMsg, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		slog.Warn("Failed to record run result", "run", id, "error", err)
	}
}

// ListRuns returns the most recent runs, newest first.
func (r *Recorder) ListRuns(limit int) ([]Run, error) {
	if r == nil {
		return nil, fmt.Errorf("run log is not available")
	}

	rows, err := r.db.Query(`
		SELECT id, stage, status, records, batches, error, started_at, finished_at
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		err := rows.Scan(&run.ID, &run.Stage, &run.Status, &run.Records,
			&run.Batches, &run.Error, &started, &finished)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			if t, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
				run.FinishedAt = &t
			}
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// Stats aggregates run counts and the last success per stage.
func (r *Recorder) Stats() ([]StageStats, error) {
	if r == nil {
		return nil, fmt.Errorf("run log is not available")
	}

	rows, err := r.db.Query(`
		SELECT stage,
		       COUNT(*) AS total,
		       SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END) AS failed,
		       MAX(CASE WHEN status = 'ok' THEN finished_at END) AS last_success
		FROM pipeline_runs
		GROUP BY stage
		ORDER BY stage
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get run stats: %w", err)
	}
	defer rows.Close()

	var stats []StageStats
	for rows.Next() {
		var s StageStats
		var lastSuccess sql.NullString
		if err := rows.Scan(&s.Stage, &s.TotalRuns, &s.FailedRuns, &lastSuccess); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		if lastSuccess.Valid {
			if t, err := time.Parse(time.RFC3339Nano, lastSuccess.String); err == nil {
				s.LastSuccessAt = &t
			}
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	return stats, nil
}
