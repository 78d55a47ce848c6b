package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Canonical model names used across the bundle, the registry, and the
// prediction CLI.
const (
	ModelNameLogisticRegression = "logistic_regression"
	ModelNameRandomForest       = "random_forest"
)

// Model kinds distinguish the two classifier families.
const (
	ModelKindLinear   = "regularized_linear"
	ModelKindEnsemble = "ensemble_tree"
)

// Model is one registry row: a trained classifier from one pipeline run.
// Version is the pipeline run identifier; Path points at the persisted
// artifact bundle the parameters were published in.
type Model struct {
	ID              uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Name            string          `db:"name" json:"name" validate:"required,oneof=logistic_regression random_forest"`
	Version         string          `db:"version" json:"version" validate:"required"`
	ModelType       string          `db:"model_type" json:"model_type" validate:"required,oneof=regularized_linear ensemble_tree"`
	Path            string          `db:"path" json:"path" validate:"required"`
	SeasonFirst     int             `db:"season_first" json:"season_first" validate:"gte=1920"`
	SeasonLast      int             `db:"season_last" json:"season_last" validate:"gtefield=SeasonFirst"`
	Metrics         json.RawMessage `db:"metrics" json:"metrics"`
	Hyperparameters json.RawMessage `db:"hyperparameters" json:"hyperparameters"`
	TrainedAt       time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active          bool            `db:"active" json:"active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the model is the currently active one for its
// name.
func (m *Model) IsActive() bool {
	return m.Active
}

// MetricSummary decodes the Metrics JSON into the typed summary shape.
func (m *Model) MetricSummary() (*MetricSummary, error) {
	if m.Metrics == nil {
		return nil, nil
	}

	var summary MetricSummary
	if err := json.Unmarshal(m.Metrics, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}
