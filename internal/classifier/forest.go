package classifier

import (
	"errors"
	"math"
	"math/rand"
)

// Random forest defaults, chosen conservatively for a few thousand
// samples: shallow trees with wide leaves resist overfitting, and the
// fixed seed keeps repeated runs bit-identical.
const (
	DefaultNumTrees = 200
	DefaultMaxDepth = 5
	DefaultMinLeaf  = 20
	DefaultSeed     = 42
)

// RandomForest is a bagged ensemble of depth-limited CART trees with
// per-node feature subsampling. Per-feature importances (normalized
// impurity-reduction shares) are computed at fit time and retained for
// feature selection and reporting.
type RandomForest struct {
	NumTrees    int            `json:"num_trees"`
	MaxDepth    int            `json:"max_depth"`
	MinLeaf     int            `json:"min_leaf"`
	Seed        int64          `json:"seed"`
	Trees       []DecisionTree `json:"trees"`
	Importances []float64      `json:"importances,omitempty"`
}

// NewRandomForest creates an untrained forest. Non-positive arguments fall
// back to the package defaults.
func NewRandomForest(numTrees, maxDepth, minLeaf int, seed int64) *RandomForest {
	if numTrees <= 0 {
		numTrees = DefaultNumTrees
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if minLeaf <= 0 {
		minLeaf = DefaultMinLeaf
	}
	if seed == 0 {
		seed = DefaultSeed
	}
	return &RandomForest{
		NumTrees: numTrees,
		MaxDepth: maxDepth,
		MinLeaf:  minLeaf,
		Seed:     seed,
	}
}

// Fit grows the ensemble on weighted rows. Each tree sees a bootstrap
// resample of the rows (weights carried along) and sqrt(p) candidate
// features per node.
func (f *RandomForest) Fit(X [][]float64, y, w []float64) error {
	if len(X) == 0 {
		return errors.New("cannot fit forest on empty input")
	}
	if len(y) != len(X) || len(w) != len(X) {
		return errors.New("labels and weights must align with rows")
	}

	p := len(X[0])
	featuresPer := int(math.Sqrt(float64(p)))
	if featuresPer < 1 {
		featuresPer = 1
	}

	var totalWeight float64
	for _, wi := range w {
		totalWeight += wi
	}
	if totalWeight <= 0 {
		return errors.New("total sample weight must be positive")
	}

	rng := rand.New(rand.NewSource(f.Seed))
	builder := &treeBuilder{
		X:           X,
		y:           y,
		w:           w,
		maxDepth:    f.MaxDepth,
		minLeaf:     f.MinLeaf,
		featuresPer: featuresPer,
		rng:         rng,
		totalWeight: totalWeight,
	}

	f.Trees = make([]DecisionTree, 0, f.NumTrees)
	accumulated := make([]float64, p)
	contributing := 0

	n := len(X)
	for t := 0; t < f.NumTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		builder.importances = make([]float64, p)
		f.Trees = append(f.Trees, builder.build(sample))

		// Normalize per tree before averaging; trees that never split
		// contribute nothing.
		var sum float64
		for _, v := range builder.importances {
			sum += v
		}
		if sum > 0 {
			for j, v := range builder.importances {
				accumulated[j] += v / sum
			}
			contributing++
		}
	}

	f.Importances = make([]float64, p)
	if contributing > 0 {
		for j := range accumulated {
			f.Importances[j] = accumulated[j] / float64(contributing)
		}
	}
	return nil
}

// PredictProba averages leaf probabilities across the ensemble.
func (f *RandomForest) PredictProba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0.5
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].PredictProba(x)
	}
	return sum / float64(len(f.Trees))
}

// FeatureImportances returns the normalized impurity-reduction share per
// feature, summing to 1 when any tree split.
func (f *RandomForest) FeatureImportances() []float64 {
	out := make([]float64, len(f.Importances))
	copy(out, f.Importances)
	return out
}
