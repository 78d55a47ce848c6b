package models

import "encoding/json"

// ModelArtifact is one trained classifier as persisted in the bundle: the
// fitted parameters, the feature subset it was trained on, and its
// cross-validated metric summary. Created by the trainer, written once,
// read-only afterward.
type ModelArtifact struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Features   []string        `json:"features"`
	Parameters json.RawMessage `json:"parameters"`
	Metrics    MetricSummary   `json:"metrics"`
	// BestLambda is the L2 penalty strength chosen by the inner sweep.
	// Zero for the ensemble model, which is not swept.
	BestLambda float64 `json:"best_lambda,omitempty"`
}

// Standardization carries per-feature centering and scaling parameters
// fitted on a training partition. Serving applies them unchanged; they are
// never fitted on validation or live data.
type Standardization struct {
	Features []string  `json:"features"`
	Means    []float64 `json:"means"`
	Scales   []float64 `json:"scales"`
}
