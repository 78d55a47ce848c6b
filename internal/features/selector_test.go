package features

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// syntheticTrainingSet builds n labeled vectors where the point-diff and
// avg-margin columns are identical copies of the strongest signal, two more
// columns carry independent signal, and the rest is noise.
func syntheticTrainingSet(n int) *TrainingSet {
	r := rand.New(rand.NewSource(7))
	ts := &TrainingSet{Seasons: []int{1}}

	marginIdx := canonicalIndex[PointDiffPerGameDiff]
	avgIdx := canonicalIndex[AvgMarginDiff]
	winIdx := canonicalIndex[WinPctDiff]
	ppgIdx := canonicalIndex[PointsPerGameDiff]

	for i := 0; i < n; i++ {
		latent1 := r.NormFloat64()
		latent2 := r.NormFloat64()
		latent3 := r.NormFloat64()

		values := make([]float64, Count)
		for j := range values {
			values[j] = 0.5 * r.NormFloat64()
		}
		values[marginIdx] = latent1 * 8
		values[avgIdx] = latent1 * 8
		values[winIdx] = latent2 * 0.3
		values[ppgIdx] = latent3 * 4

		p := 1 / (1 + math.Exp(-(0.9*latent1 + 0.7*latent2 + 0.5*latent3)))
		label := 0.0
		if r.Float64() < p {
			label = 1.0
		}
		ts.Vectors = append(ts.Vectors, models.FeatureVector{
			GameID: "G", Season: 1, Week: 1,
			Values: values, Label: label, Weight: 1.0,
		})
	}
	return ts
}

func TestSelectDropsOneOfCollinearPair(t *testing.T) {
	ts := syntheticTrainingSet(600)
	cfg := DefaultSelectorConfig()
	cfg.ForestTrees = 100
	set, err := NewSelector(cfg).Select(ts)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	inSet := func(name string) bool { return set.Contains(name) }
	if inSet(PointDiffPerGameDiff) == inSet(AvgMarginDiff) {
		t.Fatalf("collinear pair handling wrong: point_diff=%v avg_margin=%v",
			inSet(PointDiffPerGameDiff), inSet(AvgMarginDiff))
	}

	// When both cleared the importance floor, the loser must record which
	// feature displaced it.
	var kept, droppedEntry *models.FeatureImportance
	for i := range set.Importances {
		e := &set.Importances[i]
		if e.Name != PointDiffPerGameDiff && e.Name != AvgMarginDiff {
			continue
		}
		if e.Selected {
			kept = e
		} else {
			droppedEntry = e
		}
	}
	if kept == nil || droppedEntry == nil {
		t.Fatalf("pair entries missing from importances")
	}
	if droppedEntry.Importance >= DefaultImportanceFloor && droppedEntry.DroppedFor != kept.Name {
		t.Fatalf("dropped feature names %q, want %q", droppedEntry.DroppedFor, kept.Name)
	}
}

func TestSelectEnforcesCorrelationThreshold(t *testing.T) {
	ts := syntheticTrainingSet(600)
	cfg := DefaultSelectorConfig()
	cfg.ForestTrees = 100
	set, err := NewSelector(cfg).Select(ts)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	matrix := PearsonMatrix(ts.Matrix())
	idx, ok := Indices(set.Features)
	if !ok {
		t.Fatalf("selected features outside the catalog: %v", set.Features)
	}
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			if r := math.Abs(matrix[idx[a]][idx[b]]); r > DefaultCorrelationThreshold {
				t.Fatalf("selected pair %s/%s correlates at %v", set.Features[a], set.Features[b], r)
			}
		}
	}
}

func TestSelectSampleRatioCap(t *testing.T) {
	ts := syntheticTrainingSet(600)
	cfg := DefaultSelectorConfig()
	cfg.ForestTrees = 100
	set, err := NewSelector(cfg).Select(ts)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// 600 samples at 250 per feature allows 2, clamped up to the minimum 3.
	if set.Len() != 3 {
		t.Fatalf("selected %d features, want 3", set.Len())
	}
	if len(set.Importances) != Count {
		t.Fatalf("importances cover %d features, want %d", len(set.Importances), Count)
	}

	// Selection order is importance order.
	for i := 1; i < set.Len(); i++ {
		prev, _ := set.ImportanceOf(set.Features[i-1])
		cur, _ := set.ImportanceOf(set.Features[i])
		if cur > prev {
			t.Fatalf("features out of importance order: %v", set.Features)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	cfg := DefaultSelectorConfig()
	cfg.ForestTrees = 50

	first, err := NewSelector(cfg).Select(syntheticTrainingSet(500))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	second, err := NewSelector(cfg).Select(syntheticTrainingSet(500))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(first.Features) != len(second.Features) {
		t.Fatalf("feature counts differ: %d vs %d", len(first.Features), len(second.Features))
	}
	for i := range first.Features {
		if first.Features[i] != second.Features[i] {
			t.Fatalf("selection not deterministic: %v vs %v", first.Features, second.Features)
		}
	}
	for i := range first.Importances {
		if first.Importances[i].Importance != second.Importances[i].Importance {
			t.Fatalf("importances not deterministic at %s", first.Importances[i].Name)
		}
	}
}

func TestSelectInsufficientSurvivors(t *testing.T) {
	ts := syntheticTrainingSet(400)
	cfg := DefaultSelectorConfig()
	cfg.ForestTrees = 50
	cfg.ImportanceFloor = 0.99

	_, err := NewSelector(cfg).Select(ts)
	if !errors.Is(err, models.ErrInsufficientFeatures) {
		t.Fatalf("expected insufficient features error, got %v", err)
	}
	var insufficient *models.InsufficientFeaturesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if insufficient.Survived != 0 || insufficient.Minimum != DefaultMinFeatures {
		t.Fatalf("error reports %d/%d", insufficient.Survived, insufficient.Minimum)
	}
}

func TestSelectEmptySet(t *testing.T) {
	_, err := NewSelector(DefaultSelectorConfig()).Select(&TrainingSet{})
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable error, got %v", err)
	}
}
