package classifier

import (
	"errors"
	"math"
)

// Logistic regression training defaults. Full-batch gradient descent on
// standardized differential features converges well within these bounds.
const (
	DefaultLearningRate = 0.1
	DefaultIterations   = 1000
	defaultTolerance    = 1e-8
)

// LogisticRegression is an L2-regularized logistic model fitted by
// full-batch gradient descent. It carries no intercept: every input feature
// is an antisymmetric matchup differential (the signed home indicator
// included), so the decision boundary passes through the origin and two
// equal teams on a neutral field score exactly 0.5. Fitting is
// deterministic: zero initialization, fixed iteration order, no shuffling.
type LogisticRegression struct {
	Lambda       float64   `json:"lambda"`
	LearningRate float64   `json:"learning_rate"`
	Iterations   int       `json:"iterations"`
	Coefficients []float64 `json:"coefficients"`
}

// NewLogisticRegression creates an untrained model with the given L2
// penalty strength. Non-positive rate/iteration settings fall back to
// defaults at fit time.
func NewLogisticRegression(lambda float64) *LogisticRegression {
	return &LogisticRegression{
		Lambda:       lambda,
		LearningRate: DefaultLearningRate,
		Iterations:   DefaultIterations,
	}
}

// Fit trains the model on weighted rows. The loss is weight-normalized
// cross-entropy plus (lambda/2W)*||coef||^2, so the gradient scale is
// stable across dataset sizes.
func (m *LogisticRegression) Fit(X [][]float64, y, w []float64) error {
	if len(X) == 0 {
		return errors.New("cannot fit logistic regression on empty input")
	}
	if len(y) != len(X) || len(w) != len(X) {
		return errors.New("labels and weights must align with rows")
	}

	lr := m.LearningRate
	if lr <= 0 {
		lr = DefaultLearningRate
	}
	iters := m.Iterations
	if iters <= 0 {
		iters = DefaultIterations
	}

	p := len(X[0])
	coef := make([]float64, p)
	grad := make([]float64, p)

	var totalWeight float64
	for _, wi := range w {
		totalWeight += wi
	}
	if totalWeight <= 0 {
		return errors.New("total sample weight must be positive")
	}

	for it := 0; it < iters; it++ {
		for k := range grad {
			grad[k] = 0
		}
		for i, row := range X {
			// gradient of -[y*log(p)+(1-y)*log(1-p)] is (p-y)*x
			residual := (sigmoid(dot(coef, row)) - y[i]) * w[i]
			for k, v := range row {
				grad[k] += residual * v
			}
		}

		var norm float64
		for k := range grad {
			g := (grad[k] + m.Lambda*coef[k]) / totalWeight
			coef[k] -= lr * g
			norm += g * g
		}
		if norm < defaultTolerance*defaultTolerance {
			break
		}
	}

	m.Coefficients = coef
	return nil
}

// PredictProba returns the probability that the positive class (team_a
// wins) holds for one standardized row.
func (m *LogisticRegression) PredictProba(x []float64) float64 {
	return sigmoid(dot(m.Coefficients, x))
}

// FeatureDirection returns the learned coefficient for feature index j,
// used by serving to attribute per-feature contributions.
func (m *LogisticRegression) FeatureDirection(j int) float64 {
	if j < 0 || j >= len(m.Coefficients) {
		return 0
	}
	return m.Coefficients[j]
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
