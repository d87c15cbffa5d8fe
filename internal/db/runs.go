package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one pipeline execution.
type Run struct {
	ID           uuid.UUID  `json:"id"`
	Mode         string     `json:"mode"`
	JobURL       *string    `json:"job_url,omitempty"`
	Status       string     `json:"status"`
	ErrorKind    *string    `json:"error_kind,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	Documents    []string   `json:"documents,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CreateRun records the start of a pipeline run and returns its ID
func (db *DB) CreateRun(ctx context.Context, mode, jobURL string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO generation_runs (id, mode, job_url, status)
		 VALUES ($1, $2, NULLIF($3, ''), $4)`,
		id, mode, jobURL, RunStatusRunning,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished. An empty errorKind means success.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, errorKind, errorMessage string, documents []string) error {
	status := RunStatusCompleted
	if errorKind != "" {
		status = RunStatusFailed
	}

	docsJSON, err := json.Marshal(documents)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE generation_runs
		 SET status = $1, error_kind = NULLIF($2, ''), error_message = NULLIF($3, ''),
		     documents = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, errorKind, errorMessage, docsJSON, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, or nil if it does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var r Run
	var docsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, mode, job_url, status, error_kind, error_message, documents, started_at, completed_at
		 FROM generation_runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Mode, &r.JobURL, &r.Status, &r.ErrorKind, &r.ErrorMessage, &docsJSON, &r.StartedAt, &r.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if docsJSON != nil {
		_ = json.Unmarshal(docsJSON, &r.Documents)
	}
	return &r, nil
}

// ListRecentRuns returns the most recent runs, newest first.
func (db *DB) ListRecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, mode, job_url, status, error_kind, error_message, documents, started_at, completed_at
		 FROM generation_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var docsJSON []byte
		if err := rows.Scan(&r.ID, &r.Mode, &r.JobURL, &r.Status, &r.ErrorKind, &r.ErrorMessage, &docsJSON, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if docsJSON != nil {
			_ = json.Unmarshal(docsJSON, &r.Documents)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
