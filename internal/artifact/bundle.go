// Package artifact defines the persisted output of a pipeline run and the
// file store that publishes it atomically.
package artifact

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/gridiron-predictor/internal/models"
	"github.com/yourusername/gridiron-predictor/internal/train"
)

// runNamespace scopes run identifiers so the same window trained at the
// same instant always maps to the same UUID.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("runs.gridiron-predictor"))

// NewRunID derives the deterministic identifier for a training run over
// the given season window finished at the given instant.
func NewRunID(seasonFirst, seasonLast int, trainedAt time.Time) string {
	name := fmt.Sprintf("%d:%d:%d", seasonFirst, seasonLast, trainedAt.UTC().UnixNano())
	return uuid.NewSHA1(runNamespace, []byte(name)).String()
}

// Bundle is the single JSON artifact one pipeline run publishes: both
// trained models with their cross-validated metrics, the shared feature
// subset and standardization, and enough provenance to reproduce the run.
// Written once; serving only reads.
type Bundle struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	SeasonFirst int   `json:"season_first"`
	SeasonLast  int   `json:"season_last"`
	Seasons     []int `json:"seasons"`

	PythagoreanExponent float64 `json:"pythagorean_exponent"`
	PlayoffWeight       float64 `json:"playoff_weight"`

	TrainingRows    int `json:"training_rows"`
	SkippedMatchups int `json:"skipped_matchups,omitempty"`
	ImputedVectors  int `json:"imputed_vectors,omitempty"`

	FeatureSet      models.SelectedFeatureSet `json:"feature_set"`
	Standardization models.Standardization    `json:"standardization"`
	Models          []models.ModelArtifact    `json:"models"`

	Folds         []train.Fold           `json:"folds"`
	ExcludedFolds []models.FoldExclusion `json:"excluded_folds,omitempty"`
}

// Model returns the named artifact from the bundle.
func (b *Bundle) Model(name string) (*models.ModelArtifact, bool) {
	for i := range b.Models {
		if b.Models[i].Name == name {
			return &b.Models[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants serving relies on: a run ID,
// both model artifacts, and a standardization aligned with the selected
// features.
func (b *Bundle) Validate() error {
	if b.RunID == "" {
		return fmt.Errorf("bundle has no run ID")
	}
	if len(b.FeatureSet.Features) == 0 {
		return fmt.Errorf("bundle has no selected features")
	}
	n := len(b.FeatureSet.Features)
	if len(b.Standardization.Features) != n || len(b.Standardization.Means) != n || len(b.Standardization.Scales) != n {
		return fmt.Errorf("standardization does not align with %d selected features", n)
	}
	for i, f := range b.Standardization.Features {
		if f != b.FeatureSet.Features[i] {
			return fmt.Errorf("standardization feature %q at %d does not match selection %q", f, i, b.FeatureSet.Features[i])
		}
	}
	for _, name := range []string{models.ModelNameLogisticRegression, models.ModelNameRandomForest} {
		artifact, ok := b.Model(name)
		if !ok {
			return fmt.Errorf("bundle is missing the %s artifact", name)
		}
		if len(artifact.Parameters) == 0 {
			return fmt.Errorf("%s artifact has no parameters", name)
		}
		if len(artifact.Features) == 0 {
			return fmt.Errorf("%s artifact names no features", name)
		}
	}
	return nil
}
