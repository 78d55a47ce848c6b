package features

import (
	"math"
	"sort"

	"github.com/yourusername/gridiron-predictor/internal/classifier"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// Selection defaults. The importance floor sits just under the uniform
// share (1/16 = 0.0625); the ratio cap keeps roughly 250 training samples
// per retained feature.
const (
	DefaultImportanceFloor      = 0.05
	DefaultCorrelationThreshold = 0.85
	DefaultMinFeatures          = 3
	DefaultMaxFeatures          = 12
	DefaultSamplesPerFeature    = 250
)

// SelectorConfig parameterizes feature selection, including the auxiliary
// forest that scores importances.
type SelectorConfig struct {
	ImportanceFloor      float64
	CorrelationThreshold float64
	MinFeatures          int
	MaxFeatures          int
	SamplesPerFeature    int
	ForestTrees          int
	ForestMaxDepth       int
	ForestMinLeaf        int
	Seed                 int64
}

// DefaultSelectorConfig returns the standard selection parameters.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		ImportanceFloor:      DefaultImportanceFloor,
		CorrelationThreshold: DefaultCorrelationThreshold,
		MinFeatures:          DefaultMinFeatures,
		MaxFeatures:          DefaultMaxFeatures,
		SamplesPerFeature:    DefaultSamplesPerFeature,
		ForestTrees:          classifier.DefaultNumTrees,
		ForestMaxDepth:       classifier.DefaultMaxDepth,
		ForestMinLeaf:        classifier.DefaultMinLeaf,
		Seed:                 classifier.DefaultSeed,
	}
}

// Selector ranks and prunes the canonical features: auxiliary-forest
// importances, a pairwise correlation filter, then a sample-ratio cap.
type Selector struct {
	cfg SelectorConfig
}

// NewSelector creates a selector; zero-valued config fields fall back to
// defaults.
func NewSelector(cfg SelectorConfig) *Selector {
	def := DefaultSelectorConfig()
	if cfg.ImportanceFloor <= 0 {
		cfg.ImportanceFloor = def.ImportanceFloor
	}
	if cfg.CorrelationThreshold <= 0 {
		cfg.CorrelationThreshold = def.CorrelationThreshold
	}
	if cfg.MinFeatures <= 0 {
		cfg.MinFeatures = def.MinFeatures
	}
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = def.MaxFeatures
	}
	if cfg.SamplesPerFeature <= 0 {
		cfg.SamplesPerFeature = def.SamplesPerFeature
	}
	if cfg.ForestTrees <= 0 {
		cfg.ForestTrees = def.ForestTrees
	}
	if cfg.ForestMaxDepth <= 0 {
		cfg.ForestMaxDepth = def.ForestMaxDepth
	}
	if cfg.ForestMinLeaf <= 0 {
		cfg.ForestMinLeaf = def.ForestMinLeaf
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Selector{cfg: cfg}
}

// Select fits the auxiliary forest on all canonical features and returns
// the pruned, importance-ordered subset. Importances are retained for every
// canonical feature, selected or not.
func (s *Selector) Select(ts *TrainingSet) (*models.SelectedFeatureSet, error) {
	rows := ts.Matrix()
	if len(rows) == 0 {
		return nil, &models.DataUnavailableError{Reason: "no training vectors for feature selection"}
	}

	forest := classifier.NewRandomForest(s.cfg.ForestTrees, s.cfg.ForestMaxDepth, s.cfg.ForestMinLeaf, s.cfg.Seed)
	if err := forest.Fit(rows, ts.Labels(), ts.Weights()); err != nil {
		return nil, err
	}
	importances := forest.FeatureImportances()
	names := Names()

	// Rank by importance, canonical order breaking ties.
	ranked := make([]int, len(names))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return importances[ranked[a]] > importances[ranked[b]]
	})

	dropped := make(map[int]string, len(names))
	alive := make(map[int]bool, len(names))
	for _, j := range ranked {
		if importances[j] >= s.cfg.ImportanceFloor {
			alive[j] = true
		}
	}

	s.correlationFilter(rows, importances, alive, dropped)

	survivors := make([]int, 0, len(names))
	for _, j := range ranked {
		if alive[j] {
			survivors = append(survivors, j)
		}
	}
	if len(survivors) < s.cfg.MinFeatures {
		return nil, &models.InsufficientFeaturesError{
			Survived: len(survivors),
			Minimum:  s.cfg.MinFeatures,
		}
	}

	k := len(rows) / s.cfg.SamplesPerFeature
	if k < s.cfg.MinFeatures {
		k = s.cfg.MinFeatures
	}
	if k > s.cfg.MaxFeatures {
		k = s.cfg.MaxFeatures
	}
	if len(survivors) > k {
		survivors = survivors[:k]
	}

	selected := make(map[int]bool, len(survivors))
	set := &models.SelectedFeatureSet{
		Features:    make([]string, 0, len(survivors)),
		Importances: make([]models.FeatureImportance, 0, len(names)),
	}
	for _, j := range survivors {
		selected[j] = true
		set.Features = append(set.Features, names[j])
	}
	for j, name := range names {
		set.Importances = append(set.Importances, models.FeatureImportance{
			Name:       name,
			Importance: importances[j],
			Selected:   selected[j],
			DroppedFor: dropped[j],
		})
	}

	return set, nil
}

// correlationFilter drops the lower-importance member of every surviving
// pair with |r| above the threshold, most correlated pairs first. A feature
// dropped by an earlier pair is not reconsidered by a later one.
func (s *Selector) correlationFilter(rows [][]float64, importances []float64, alive map[int]bool, dropped map[int]string) {
	matrix := PearsonMatrix(rows)
	names := Names()

	type pair struct {
		i, j int
		r    float64
	}
	var pairs []pair
	for i := 0; i < len(names); i++ {
		if !alive[i] {
			continue
		}
		for j := i + 1; j < len(names); j++ {
			if !alive[j] {
				continue
			}
			if r := math.Abs(matrix[i][j]); r > s.cfg.CorrelationThreshold {
				pairs = append(pairs, pair{i: i, j: j, r: r})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].r != pairs[b].r {
			return pairs[a].r > pairs[b].r
		}
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})

	for _, p := range pairs {
		if !alive[p.i] || !alive[p.j] {
			continue
		}
		keep, drop := p.i, p.j
		if importances[drop] > importances[keep] {
			keep, drop = drop, keep
		}
		alive[drop] = false
		dropped[drop] = names[keep]
	}
}
