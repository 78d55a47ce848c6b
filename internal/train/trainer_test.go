package train

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-predictor/internal/features"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func testConfig() Config {
	return Config{
		LearningRate:   0.1,
		Iterations:     300,
		ForestTrees:    20,
		ForestMaxDepth: 3,
		ForestMinLeaf:  5,
		Seed:           42,
	}
}

func testFeatureSet() *models.SelectedFeatureSet {
	return &models.SelectedFeatureSet{
		Features: []string{
			features.PointDiffPerGameDiff,
			features.WinPctDiff,
			features.HomeField,
		},
	}
}

// seasonVectors generates one season of synthetic labeled vectors whose
// outcome depends on the point-diff, win-pct, and home columns.
func seasonVectors(r *rand.Rand, season, n int, forceLabel float64) []models.FeatureVector {
	marginIdx, _ := features.Index(features.PointDiffPerGameDiff)
	winIdx, _ := features.Index(features.WinPctDiff)
	homeIdx, _ := features.Index(features.HomeField)

	out := make([]models.FeatureVector, 0, n)
	for i := 0; i < n; i++ {
		values := make([]float64, features.Count)
		for j := range values {
			values[j] = 0.3 * r.NormFloat64()
		}
		margin := r.NormFloat64() * 6
		win := r.NormFloat64() * 0.25
		home := 1.0
		if i%2 == 0 {
			home = -1.0
		}
		values[marginIdx] = margin
		values[winIdx] = win
		values[homeIdx] = home

		label := forceLabel
		if forceLabel < 0 {
			p := 1 / (1 + math.Exp(-(0.4*margin+1.5*win+0.4*home)))
			label = 0.0
			if r.Float64() < p {
				label = 1.0
			}
		}
		weight := 1.0
		if i%10 == 0 {
			weight = 2.0
		}
		out = append(out, models.FeatureVector{
			GameID: "G", Season: season, Week: i/16 + 1,
			Values: values, Label: label, Weight: weight,
		})
	}
	return out
}

func syntheticHistory(seasons, perSeason int, singleClassLast bool) *features.TrainingSet {
	r := rand.New(rand.NewSource(19))
	ts := &features.TrainingSet{}
	for s := 1; s <= seasons; s++ {
		force := -1.0
		if singleClassLast && s == seasons {
			force = 1.0
		}
		ts.Vectors = append(ts.Vectors, seasonVectors(r, s, perSeason, force)...)
		ts.Seasons = append(ts.Seasons, s)
	}
	return ts
}

func TestTrainProducesBothModels(t *testing.T) {
	ts := syntheticHistory(4, 90, false)
	trainer := NewTrainer(testConfig(), quietLogger())

	result, err := trainer.Train(context.Background(), ts, testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if result.Scaler == nil || result.Logistic == nil || result.Forest == nil {
		t.Fatalf("final models missing: %+v", result)
	}
	if len(result.Logistic.Coefficients) != 3 {
		t.Fatalf("logistic fitted %d coefficients, want 3", len(result.Logistic.Coefficients))
	}
	if len(result.Folds) != 2 {
		t.Fatalf("folds = %d, want 2 for 4 seasons", len(result.Folds))
	}

	for _, summary := range []models.MetricSummary{result.LogisticSummary, result.ForestSummary} {
		if summary.Folds != 2 || summary.ExcludedFolds != 0 {
			t.Fatalf("%s folds = %d/%d excluded", summary.ModelName, summary.Folds, summary.ExcludedFolds)
		}
		if summary.LogLoss <= 0 {
			t.Fatalf("%s log loss = %v", summary.ModelName, summary.LogLoss)
		}
		if summary.Accuracy < 0.5 {
			t.Fatalf("%s accuracy = %v, want at least coin-flip on separable data", summary.ModelName, summary.Accuracy)
		}
		if summary.ROCAUC <= 0.5 {
			t.Fatalf("%s AUC = %v, want better than random", summary.ModelName, summary.ROCAUC)
		}
	}

	found := false
	for _, l := range DefaultLambdaGrid {
		if result.BestLambda == l {
			found = true
		}
	}
	if !found {
		t.Fatalf("best lambda %v not in the default grid", result.BestLambda)
	}
}

func TestTrainDeterministic(t *testing.T) {
	trainer := NewTrainer(testConfig(), quietLogger())

	first, err := trainer.Train(context.Background(), syntheticHistory(4, 80, false), testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	second, err := trainer.Train(context.Background(), syntheticHistory(4, 80, false), testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if first.BestLambda != second.BestLambda {
		t.Fatalf("lambda differs across runs: %v vs %v", first.BestLambda, second.BestLambda)
	}
	for j := range first.Logistic.Coefficients {
		if first.Logistic.Coefficients[j] != second.Logistic.Coefficients[j] {
			t.Fatalf("logistic coefficient %d differs across runs", j)
		}
	}
	for j := range first.Forest.Importances {
		if first.Forest.Importances[j] != second.Forest.Importances[j] {
			t.Fatalf("forest importance %d differs across runs", j)
		}
	}
	if first.LogisticSummary != second.LogisticSummary {
		t.Fatalf("summaries differ: %+v vs %+v", first.LogisticSummary, second.LogisticSummary)
	}
}

func TestTrainSampleWeightsMatter(t *testing.T) {
	trainer := NewTrainer(testConfig(), quietLogger())

	base := syntheticHistory(4, 80, false)
	result, err := trainer.Train(context.Background(), base, testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	reweighted := syntheticHistory(4, 80, false)
	for i := range reweighted.Vectors {
		if reweighted.Vectors[i].Label == 1 {
			reweighted.Vectors[i].Weight *= 3
		}
	}
	shifted, err := trainer.Train(context.Background(), reweighted, testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	same := true
	for j := range result.Logistic.Coefficients {
		if result.Logistic.Coefficients[j] != shifted.Logistic.Coefficients[j] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("reweighting the samples left the fit unchanged")
	}
}

func TestTrainExcludesSingleClassFold(t *testing.T) {
	ts := syntheticHistory(4, 80, true)
	trainer := NewTrainer(testConfig(), quietLogger())

	result, err := trainer.Train(context.Background(), ts, testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	// The single-outcome final season is the second fold's validation set:
	// both models drop it from aggregation and record why.
	if result.LogisticSummary.Folds != 1 || result.LogisticSummary.ExcludedFolds != 1 {
		t.Fatalf("logistic folds = %d/%d excluded", result.LogisticSummary.Folds, result.LogisticSummary.ExcludedFolds)
	}
	if result.ForestSummary.Folds != 1 || result.ForestSummary.ExcludedFolds != 1 {
		t.Fatalf("forest folds = %d/%d excluded", result.ForestSummary.Folds, result.ForestSummary.ExcludedFolds)
	}
	if len(result.Exclusions) != 2 {
		t.Fatalf("exclusions = %d, want one per model", len(result.Exclusions))
	}
	for _, excl := range result.Exclusions {
		if excl.ValidationSeason != 4 {
			t.Fatalf("exclusion names season %d, want 4", excl.ValidationSeason)
		}
		if excl.Reason == "" {
			t.Fatalf("exclusion carries no reason")
		}
	}
}

func TestTrainSingleFoldScenario(t *testing.T) {
	ts := syntheticHistory(5, 70, false)
	cfg := testConfig()
	cfg.MinTrainSeasons = 4
	trainer := NewTrainer(cfg, quietLogger())

	result, err := trainer.Train(context.Background(), ts, testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if len(result.Folds) != 1 {
		t.Fatalf("folds = %d, want 1", len(result.Folds))
	}
	// One fold means a defined mean and a zero standard deviation.
	if result.LogisticSummary.Folds != 1 || result.LogisticSummary.AccuracyStd != 0 || result.LogisticSummary.LogLossStd != 0 {
		t.Fatalf("single-fold summary off: %+v", result.LogisticSummary)
	}
}

func TestTrainInsufficientHistory(t *testing.T) {
	ts := syntheticHistory(2, 60, false)
	trainer := NewTrainer(testConfig(), quietLogger())

	_, err := trainer.Train(context.Background(), ts, testFeatureSet())
	if err == nil {
		t.Fatalf("expected insufficient history error")
	}
	var insufficient *models.InsufficientHistoryError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected typed history error, got %v", err)
	}
}

func TestTrainRejectsUnknownFeatures(t *testing.T) {
	ts := syntheticHistory(3, 60, false)
	trainer := NewTrainer(testConfig(), quietLogger())

	set := &models.SelectedFeatureSet{Features: []string{"passer_rating_diff"}}
	if _, err := trainer.Train(context.Background(), ts, set); err == nil {
		t.Fatalf("expected error for unknown feature")
	}
}

func TestTrainFixedLambdaGrid(t *testing.T) {
	ts := syntheticHistory(3, 60, false)
	cfg := testConfig()
	cfg.LambdaGrid = []float64{0.5}
	trainer := NewTrainer(cfg, quietLogger())

	result, err := trainer.Train(context.Background(), ts, testFeatureSet())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if result.BestLambda != 0.5 {
		t.Fatalf("best lambda = %v, want the only candidate 0.5", result.BestLambda)
	}
	if result.Logistic.Lambda != 0.5 {
		t.Fatalf("final model lambda = %v, want 0.5", result.Logistic.Lambda)
	}
}

func TestTrainCancelled(t *testing.T) {
	ts := syntheticHistory(4, 80, false)
	trainer := NewTrainer(testConfig(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := trainer.Train(ctx, ts, testFeatureSet()); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestBetterSweepOrdering(t *testing.T) {
	a := sweepResult{lambda: 1, meanLogLoss: 0.60, meanAUC: 0.70}
	b := sweepResult{lambda: 2, meanLogLoss: 0.58, meanAUC: 0.65}
	if !betterSweep(b, a) {
		t.Fatalf("lower log loss must win")
	}

	c := sweepResult{lambda: 2, meanLogLoss: 0.60, meanAUC: 0.72}
	if !betterSweep(c, a) {
		t.Fatalf("equal loss must fall back to higher AUC")
	}

	d := sweepResult{lambda: 0.5, meanLogLoss: 0.60, meanAUC: 0.70}
	if !betterSweep(d, a) {
		t.Fatalf("full tie must prefer the smaller lambda")
	}
	if betterSweep(a, d) {
		t.Fatalf("tie-breaking must be asymmetric")
	}
}
