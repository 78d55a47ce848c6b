package models

import (
	"encoding/json"
	"time"
)

// Training run lifecycle states.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// TrainingRun represents a persisted pipeline run record. Report carries the
// load report and aggregated evaluation metrics as JSON.
type TrainingRun struct {
	RunID       string          `db:"run_id" json:"run_id" validate:"required"`
	SeasonFirst int             `db:"season_first" json:"season_first" validate:"gte=1920"`
	SeasonLast  int             `db:"season_last" json:"season_last" validate:"gtefield=SeasonFirst"`
	Provider    string          `db:"provider" json:"provider"`
	Status      string          `db:"status" json:"status" validate:"required,oneof=running completed failed"`
	GamesLoaded int             `db:"games_loaded" json:"games_loaded" validate:"gte=0"`
	Report      json.RawMessage `db:"report" json:"report"`
	Error       string          `db:"error" json:"error"`
	StartedAt   time.Time       `db:"started_at" json:"started_at" validate:"required"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// IsFinished reports whether the run reached a terminal state.
func (r *TrainingRun) IsFinished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// Duration returns the wall-clock duration of a finished run, zero while the
// run is still in flight.
func (r *TrainingRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
