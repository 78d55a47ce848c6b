package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-predictor/internal/database"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

const modelColumns = `id, name, version, model_type, path, season_first, season_last,
		metrics, hyperparameters, trained_at, active, created_at, updated_at`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model registry repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

func scanModel(row pgx.Row) (*models.Model, error) {
	model := &models.Model{}
	err := row.Scan(
		&model.ID, &model.Name, &model.Version, &model.ModelType, &model.Path,
		&model.SeasonFirst, &model.SeasonLast, &model.Metrics, &model.Hyperparameters,
		&model.TrainedAt, &model.Active, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Create inserts a new registry row
func (m *PostgresModelRepository) Create(ctx context.Context, model *models.Model) error {
	query := `
		INSERT INTO models (id, name, version, model_type, path, season_first, season_last,
			metrics, hyperparameters, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		model.ID, model.Name, model.Version, model.ModelType, model.Path,
		model.SeasonFirst, model.SeasonLast, model.Metrics, model.Hyperparameters,
		model.TrainedAt, model.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

// GetByID retrieves a model by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE id = $1`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return model, nil
}

// GetActive retrieves all active models
func (m *PostgresModelRepository) GetActive(ctx context.Context) ([]*models.Model, error) {
	query := `SELECT ` + modelColumns + `
		FROM models
		WHERE active = true
		ORDER BY name ASC, version DESC`

	return m.queryModels(ctx, query)
}

// GetActiveByName retrieves the active model for one model name
func (m *PostgresModelRepository) GetActiveByName(ctx context.Context, name string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 AND active = true`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active model: %w", err)
	}

	return model, nil
}

// GetByVersion retrieves a specific model version
func (m *PostgresModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 AND version = $2`

	model, err := scanModel(m.db.GetPool().QueryRow(ctx, query, name, version))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model by version: %w", err)
	}

	return model, nil
}

// GetVersions retrieves recent versions of one model, newest first
func (m *PostgresModelRepository) GetVersions(ctx context.Context, name string, limit int) ([]*models.Model, error) {
	query := `SELECT ` + modelColumns + `
		FROM models
		WHERE name = $1
		ORDER BY trained_at DESC
		LIMIT $2`

	return m.queryModels(ctx, query, name, limit)
}

// Update updates an existing model row
func (m *PostgresModelRepository) Update(ctx context.Context, model *models.Model) error {
	query := `
		UPDATE models SET
			path = $2, metrics = $3, hyperparameters = $4, trained_at = $5, active = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := m.db.GetPool().Exec(ctx, query,
		model.ID, model.Path, model.Metrics, model.Hyperparameters, model.TrainedAt, model.Active)
	if err != nil {
		return fmt.Errorf("failed to update model: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetActive sets a model as active and deactivates other versions of the
// same name
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	// First get the model to find its name
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		// Deactivate all other versions of this model
		_, err := tx.Exec(ctx, "UPDATE models SET active = false WHERE name = $1 AND id != $2", model.Name, id)
		if err != nil {
			return fmt.Errorf("failed to deactivate other versions: %w", err)
		}

		// Activate this version
		_, err = tx.Exec(ctx, "UPDATE models SET active = true, updated_at = NOW() WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}

		return nil
	})
}

// ActivateRun atomically activates every model row of one training run and
// deactivates all prior rows. Readers never observe a mixed state.
func (m *PostgresModelRepository) ActivateRun(ctx context.Context, version string) error {
	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx,
			"UPDATE models SET active = (version = $1), updated_at = NOW() WHERE active = true OR version = $1",
			version)
		if err != nil {
			return fmt.Errorf("failed to activate run %s: %w", version, err)
		}

		if commandTag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		return nil
	})
}

// queryModels runs a multi-row model query and scans the results
func (m *PostgresModelRepository) queryModels(ctx context.Context, query string, args ...interface{}) ([]*models.Model, error) {
	rows, err := m.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var result []*models.Model
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		result = append(result, model)
	}

	return result, rows.Err()
}
