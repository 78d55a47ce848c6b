package repository

import (
	"fmt"

	"github.com/yourusername/gridiron-predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Model ModelRepository
	Run   RunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Model: NewPostgresModelRepository(db),
		Run:   NewPostgresRunRepository(db),
	}, nil
}
