package database

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-predictor/internal/config"
)

// Registry schema. Created on startup so a fresh database works without a
// separate migration step.
const registrySchema = `
CREATE TABLE IF NOT EXISTS models (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	version TEXT NOT NULL,
	model_type TEXT NOT NULL,
	path TEXT NOT NULL,
	season_first INT NOT NULL,
	season_last INT NOT NULL,
	metrics JSONB,
	hyperparameters JSONB,
	trained_at TIMESTAMPTZ NOT NULL,
	active BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, version)
);

CREATE INDEX IF NOT EXISTS idx_models_active ON models (name) WHERE active;

CREATE TABLE IF NOT EXISTS training_runs (
	run_id TEXT PRIMARY KEY,
	season_first INT NOT NULL,
	season_last INT NOT NULL,
	provider TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	games_loaded INT NOT NULL DEFAULT 0,
	report JSONB,
	error TEXT NOT NULL DEFAULT '',
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_training_runs_started ON training_runs (started_at DESC);
`

// Initialize creates a database connection pool and ensures the registry
// schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// Ensure registry tables exist
	if _, err := db.pool.Exec(ctx, registrySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create registry schema: %w", err)
	}

	return db, nil
}
