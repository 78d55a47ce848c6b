package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// ModelRepository defines the interface for model registry data access
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetActive(ctx context.Context) ([]*models.Model, error)
	GetActiveByName(ctx context.Context, name string) (*models.Model, error)
	GetByVersion(ctx context.Context, name, version string) (*models.Model, error)
	GetVersions(ctx context.Context, name string, limit int) ([]*models.Model, error)
	Update(ctx context.Context, model *models.Model) error
	SetActive(ctx context.Context, id uuid.UUID) error
	ActivateRun(ctx context.Context, version string) error
}

// RunRepository defines the interface for training run data access
type RunRepository interface {
	Create(ctx context.Context, run *models.TrainingRun) error
	GetByID(ctx context.Context, runID string) (*models.TrainingRun, error)
	GetRecent(ctx context.Context, limit int) ([]*models.TrainingRun, error)
	MarkCompleted(ctx context.Context, runID string, gamesLoaded int, report []byte) error
	MarkFailed(ctx context.Context, runID string, reason string) error
}
