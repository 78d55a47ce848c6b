package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/gridiron-predictor/internal/config"
)

// SetupTestDB creates a test database connection and ensures the registry
// schema exists
func SetupTestDB(t *testing.T) *DB {
	// Load config for test database
	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	// Create context for connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	// Verify connection
	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer verifyCancel()

	if err := db.Ping(verifyCtx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB clears registry tables and closes the connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, table := range []string{"models", "training_runs"} {
		if _, err := db.pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}

	db.Close()
}
