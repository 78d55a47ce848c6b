// Package classifier implements the two binary probability models the
// pipeline trains (L2-regularized logistic regression and a random forest),
// together with feature standardization and weighted evaluation metrics.
// Everything here is deterministic given inputs and seeds.
package classifier

import (
	"encoding/json"
	"fmt"
)

// Classifier is a fitted binary probability model.
type Classifier interface {
	// PredictProba returns the probability of the positive class for one
	// feature row.
	PredictProba(x []float64) float64
}

// Trainable is a classifier that can be fitted from labeled rows with
// per-sample weights.
type Trainable interface {
	Classifier
	Fit(X [][]float64, y, w []float64) error
}

// Unmarshal restores a fitted classifier from its persisted parameters.
// kind is one of the model kinds recorded in the artifact bundle.
func Unmarshal(kind string, params json.RawMessage) (Classifier, error) {
	switch kind {
	case "regularized_linear":
		var m LogisticRegression
		if err := json.Unmarshal(params, &m); err != nil {
			return nil, fmt.Errorf("decoding logistic parameters: %w", err)
		}
		return &m, nil
	case "ensemble_tree":
		var m RandomForest
		if err := json.Unmarshal(params, &m); err != nil {
			return nil, fmt.Errorf("decoding forest parameters: %w", err)
		}
		return &m, nil
	}
	return nil, fmt.Errorf("unknown classifier kind %q", kind)
}
