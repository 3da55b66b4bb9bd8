package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/swaglabs/storefront-e2e/internal/models"
)

// ErrRunNotFound is returned when no run matches the lookup
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for journey runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository on the given connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// Record inserts a finished run, or updates it if it was recorded before
func (r *RunRepository) Record(run *models.Run) error {
	query := `
		INSERT INTO runs (id, journey, account, status, final_state, failure, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    final_state = EXCLUDED.final_state,
		    failure = EXCLUDED.failure,
		    finished_at = EXCLUDED.finished_at
	`

	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt, Valid: true}
	}

	_, err := r.db.Exec(query,
		run.ID,
		run.Journey,
		run.Account,
		run.Status,
		run.FinalState,
		run.Failure,
		run.StartedAt,
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by its id
func (r *RunRepository) GetRun(id string) (*models.Run, error) {
	query := `
		SELECT id, journey, account, status, final_state, failure, started_at, finished_at
		FROM runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListByJourney returns the most recent runs of a journey, newest first
func (r *RunRepository) ListByJourney(journey string, limit int) ([]*models.Run, error) {
	query := `
		SELECT id, journey, account, status, final_state, failure, started_at, finished_at
		FROM runs
		WHERE journey = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, journey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	run := &models.Run{}
	var finishedAt sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.Journey,
		&run.Account,
		&run.Status,
		&run.FinalState,
		&run.Failure,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return run, nil
}
