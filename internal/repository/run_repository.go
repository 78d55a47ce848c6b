package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-predictor/internal/database"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

const errScanTrainingRun = "failed to scan training run: %w"

const runColumns = `run_id, season_first, season_last, provider, status,
		games_loaded, report, error, started_at, completed_at, created_at`

// PostgresRunRepository implements RunRepository for PostgreSQL
type PostgresRunRepository struct {
	db *database.DB
}

// NewPostgresRunRepository creates a new training run repository
func NewPostgresRunRepository(db *database.DB) RunRepository {
	return &PostgresRunRepository{db: db}
}

func scanTrainingRun(row pgx.Row) (*models.TrainingRun, error) {
	run := &models.TrainingRun{}
	err := row.Scan(
		&run.RunID, &run.SeasonFirst, &run.SeasonLast, &run.Provider, &run.Status,
		&run.GamesLoaded, &run.Report, &run.Error, &run.StartedAt, &run.CompletedAt, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Create inserts a training run record
func (r *PostgresRunRepository) Create(ctx context.Context, run *models.TrainingRun) error {
	query := `
		INSERT INTO training_runs (run_id, season_first, season_last, provider, status, games_loaded, report, error, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.RunID, run.SeasonFirst, run.SeasonLast, run.Provider, run.Status,
		run.GamesLoaded, run.Report, run.Error, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create training run: %w", err)
	}
	return nil
}

// GetByID retrieves a training run by run ID
func (r *PostgresRunRepository) GetByID(ctx context.Context, runID string) (*models.TrainingRun, error) {
	query := `SELECT ` + runColumns + ` FROM training_runs WHERE run_id = $1`

	run, err := scanTrainingRun(r.db.GetPool().QueryRow(ctx, query, runID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training run: %w", err)
	}

	return run, nil
}

// GetRecent retrieves the most recent training runs, newest first
func (r *PostgresRunRepository) GetRecent(ctx context.Context, limit int) ([]*models.TrainingRun, error) {
	query := `SELECT ` + runColumns + ` FROM training_runs ORDER BY started_at DESC LIMIT $1`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent training runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.TrainingRun
	for rows.Next() {
		run, err := scanTrainingRun(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanTrainingRun, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MarkCompleted records successful completion of a training run
func (r *PostgresRunRepository) MarkCompleted(ctx context.Context, runID string, gamesLoaded int, report []byte) error {
	query := `
		UPDATE training_runs
		SET status = $2, games_loaded = $3, report = $4, completed_at = NOW()
		WHERE run_id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, runID, models.RunStatusCompleted, gamesLoaded, report)
	if err != nil {
		return fmt.Errorf("failed to mark training run completed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkFailed records a failed training run with its failure reason
func (r *PostgresRunRepository) MarkFailed(ctx context.Context, runID string, reason string) error {
	query := `
		UPDATE training_runs
		SET status = $2, error = $3, completed_at = NOW()
		WHERE run_id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, runID, models.RunStatusFailed, reason)
	if err != nil {
		return fmt.Errorf("failed to mark training run failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
