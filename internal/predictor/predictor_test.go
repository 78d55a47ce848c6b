package predictor

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/yourusername/gridiron-predictor/internal/artifact"
	"github.com/yourusername/gridiron-predictor/internal/classifier"
	"github.com/yourusername/gridiron-predictor/internal/features"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// fittedBundle trains both models on synthetic three-feature data and
// assembles the bundle a pipeline run would publish.
func fittedBundle(t *testing.T) *artifact.Bundle {
	t.Helper()

	names := []string{features.PointDiffPerGameDiff, features.WinPctDiff, features.HomeField}
	r := rand.New(rand.NewSource(5))
	var rows [][]float64
	var y, w []float64
	for i := 0; i < 400; i++ {
		margin := r.NormFloat64() * 6
		win := r.NormFloat64() * 0.25
		home := 1.0
		if i%2 == 0 {
			home = -1.0
		}
		rows = append(rows, []float64{margin, win, home})
		p := 1 / (1 + math.Exp(-(0.35*margin + 1.2*win + 0.35*home)))
		label := 0.0
		if r.Float64() < p {
			label = 1.0
		}
		y = append(y, label)
		w = append(w, 1.0)
	}

	scaler := &classifier.StandardScaler{}
	scaled, err := scaler.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	logistic := classifier.NewLogisticRegression(0.2)
	if err := logistic.Fit(scaled, y, w); err != nil {
		t.Fatalf("logistic fit failed: %v", err)
	}
	forest := classifier.NewRandomForest(30, 4, 10, 42)
	if err := forest.Fit(scaled, y, w); err != nil {
		t.Fatalf("forest fit failed: %v", err)
	}

	logisticParams, err := json.Marshal(logistic)
	if err != nil {
		t.Fatalf("marshal logistic: %v", err)
	}
	forestParams, err := json.Marshal(forest)
	if err != nil {
		t.Fatalf("marshal forest: %v", err)
	}

	return &artifact.Bundle{
		RunID:               artifact.NewRunID(2020, 2024, time.Unix(1000, 0)),
		CreatedAt:           time.Unix(1000, 0).UTC(),
		SeasonFirst:         2020,
		SeasonLast:          2024,
		Seasons:             []int{2020, 2021, 2022, 2023, 2024},
		PythagoreanExponent: 2.37,
		PlayoffWeight:       2.0,
		TrainingRows:        len(rows),
		FeatureSet: models.SelectedFeatureSet{
			Features: names,
			Importances: []models.FeatureImportance{
				{Name: names[0], Importance: 0.5, Selected: true},
				{Name: names[1], Importance: 0.3, Selected: true},
				{Name: names[2], Importance: 0.2, Selected: true},
			},
		},
		Standardization: models.Standardization{
			Features: names,
			Means:    scaler.Means,
			Scales:   scaler.Scales,
		},
		Models: []models.ModelArtifact{
			{
				Name:       models.ModelNameLogisticRegression,
				Kind:       models.ModelKindLinear,
				Features:   names,
				Parameters: logisticParams,
				Metrics:    models.MetricSummary{ModelName: models.ModelNameLogisticRegression, Folds: 4},
				BestLambda: 0.2,
			},
			{
				Name:       models.ModelNameRandomForest,
				Kind:       models.ModelKindEnsemble,
				Features:   names,
				Parameters: forestParams,
				Metrics:    models.MetricSummary{ModelName: models.ModelNameRandomForest, Folds: 4},
			},
		},
	}
}

func strongRecord() *models.SeasonTeamRecord {
	return &models.SeasonTeamRecord{
		Team: "BUF", Season: 2025, GamesPlayed: 10, Wins: 8, Losses: 2,
		PointsForPerGame: 27, PointsAgainstPerGame: 17,
		YardsForPerGame: 380, YardsAgainstPerGame: 300,
		StrengthOfSchedule: 0.55, AvgMargin: 10,
	}
}

func weakRecord() *models.SeasonTeamRecord {
	return &models.SeasonTeamRecord{
		Team: "KC", Season: 2025, GamesPlayed: 10, Wins: 4, Losses: 6,
		PointsForPerGame: 20, PointsAgainstPerGame: 24,
		YardsForPerGame: 350, YardsAgainstPerGame: 360,
		StrengthOfSchedule: 0.48, AvgMargin: -4,
	}
}

func TestPredictSwapExactComplement(t *testing.T) {
	bundle := fittedBundle(t)
	for _, name := range []string{models.ModelNameLogisticRegression, models.ModelNameRandomForest} {
		p, err := New(bundle, name)
		if err != nil {
			t.Fatalf("%s: New failed: %v", name, err)
		}

		forward, err := p.Predict(Request{
			TeamA: "BUF", TeamB: "KC",
			RecordA: strongRecord(), RecordB: weakRecord(),
			HomeField: models.HomeFieldTeamA,
		})
		if err != nil {
			t.Fatalf("%s: Predict failed: %v", name, err)
		}
		reversed, err := p.Predict(Request{
			TeamA: "KC", TeamB: "BUF",
			RecordA: weakRecord(), RecordB: strongRecord(),
			HomeField: models.HomeFieldTeamB,
		})
		if err != nil {
			t.Fatalf("%s: Predict failed: %v", name, err)
		}

		// Bitwise equality, not tolerance: both orders evaluate the same
		// canonical matchup once.
		if forward.WinProbA != reversed.WinProbB || forward.WinProbB != reversed.WinProbA {
			t.Fatalf("%s: swap not an exact complement: %v/%v vs %v/%v",
				name, forward.WinProbA, forward.WinProbB, reversed.WinProbA, reversed.WinProbB)
		}
		if sum := forward.WinProbA + forward.WinProbB; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("%s: probabilities sum to %v", name, sum)
		}
	}
}

func TestPredictFavorsStrongerTeam(t *testing.T) {
	bundle := fittedBundle(t)
	p, err := New(bundle, models.ModelNameLogisticRegression)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pred, err := p.Predict(Request{
		TeamA: "BUF", TeamB: "KC",
		RecordA: strongRecord(), RecordB: weakRecord(),
		HomeField: models.HomeFieldTeamA,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.WinProbA <= 0.5 {
		t.Fatalf("strong home team probability = %v, want > 0.5", pred.WinProbA)
	}
	if pred.RunID != bundle.RunID {
		t.Fatalf("prediction run = %s, want %s", pred.RunID, bundle.RunID)
	}
}

func TestPredictContributions(t *testing.T) {
	bundle := fittedBundle(t)
	p, err := New(bundle, models.ModelNameLogisticRegression)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	forward, err := p.Predict(Request{
		TeamA: "BUF", TeamB: "KC",
		RecordA: strongRecord(), RecordB: weakRecord(),
		HomeField: models.HomeFieldTeamA,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(forward.Contributions) != 3 {
		t.Fatalf("contributions = %d, want 3", len(forward.Contributions))
	}
	for _, c := range forward.Contributions {
		switch {
		case c.Shift > 0 && c.Favors != "BUF":
			t.Fatalf("%s pulls toward team_a but favors %q", c.Name, c.Favors)
		case c.Shift < 0 && c.Favors != "KC":
			t.Fatalf("%s pulls toward team_b but favors %q", c.Name, c.Favors)
		case c.Shift == 0 && c.Favors != "":
			t.Fatalf("%s is neutral but favors %q", c.Name, c.Favors)
		}
	}

	reversed, err := p.Predict(Request{
		TeamA: "KC", TeamB: "BUF",
		RecordA: weakRecord(), RecordB: strongRecord(),
		HomeField: models.HomeFieldTeamB,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, fc := range forward.Contributions {
		rc := reversed.Contributions[i]
		if fc.Name != rc.Name {
			t.Fatalf("contribution order differs: %s vs %s", fc.Name, rc.Name)
		}
		if fc.Value != -rc.Value || fc.Shift != -rc.Shift {
			t.Fatalf("%s: swapped contribution not mirrored: %+v vs %+v", fc.Name, fc, rc)
		}
		if fc.Favors != rc.Favors {
			t.Fatalf("%s: favored team changed across swap: %q vs %q", fc.Name, fc.Favors, rc.Favors)
		}
	}
}

func TestPredictFairOdds(t *testing.T) {
	bundle := fittedBundle(t)
	p, err := New(bundle, models.ModelNameLogisticRegression)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pred, err := p.Predict(Request{
		TeamA: "BUF", TeamB: "KC",
		RecordA: strongRecord(), RecordB: weakRecord(),
		HomeField: models.HomeFieldNeutral,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if got := pred.FairOddsA.InexactFloat64(); math.Abs(got-1/pred.WinProbA) > 0.001 {
		t.Fatalf("fair odds A = %v for probability %v", got, pred.WinProbA)
	}
	if got := pred.FairOddsB.InexactFloat64(); math.Abs(got-1/pred.WinProbB) > 0.001 {
		t.Fatalf("fair odds B = %v for probability %v", got, pred.WinProbB)
	}
}

func TestPredictInterval(t *testing.T) {
	bundle := fittedBundle(t)
	for _, name := range []string{models.ModelNameLogisticRegression, models.ModelNameRandomForest} {
		p, err := New(bundle, name)
		if err != nil {
			t.Fatalf("%s: New failed: %v", name, err)
		}

		req := Request{
			TeamA: "BUF", TeamB: "KC",
			RecordA: strongRecord(), RecordB: weakRecord(),
			HomeField: models.HomeFieldTeamA, WithInterval: true,
		}
		pred, err := p.Predict(req)
		if err != nil {
			t.Fatalf("%s: Predict failed: %v", name, err)
		}
		if pred.Interval == nil {
			t.Fatalf("%s: interval missing", name)
		}
		iv := *pred.Interval
		if iv.Lower > pred.WinProbA || iv.Upper < pred.WinProbA {
			t.Fatalf("%s: point %v outside interval [%v, %v]", name, pred.WinProbA, iv.Lower, iv.Upper)
		}
		if iv.Lower < 0 || iv.Upper > 1 {
			t.Fatalf("%s: interval [%v, %v] outside [0, 1]", name, iv.Lower, iv.Upper)
		}

		again, err := p.Predict(req)
		if err != nil {
			t.Fatalf("%s: Predict failed: %v", name, err)
		}
		if *again.Interval != iv {
			t.Fatalf("%s: interval not deterministic", name)
		}

		swappedReq := Request{
			TeamA: "KC", TeamB: "BUF",
			RecordA: weakRecord(), RecordB: strongRecord(),
			HomeField: models.HomeFieldTeamB, WithInterval: true,
		}
		mirrored, err := p.Predict(swappedReq)
		if err != nil {
			t.Fatalf("%s: Predict failed: %v", name, err)
		}
		if mirrored.Interval.Lower != 1-iv.Upper || mirrored.Interval.Upper != 1-iv.Lower {
			t.Fatalf("%s: swapped interval [%v, %v] not the complement of [%v, %v]",
				name, mirrored.Interval.Lower, mirrored.Interval.Upper, iv.Lower, iv.Upper)
		}
	}
}

func TestPredictValidation(t *testing.T) {
	bundle := fittedBundle(t)
	p, err := New(bundle, models.ModelNameRandomForest)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := p.Predict(Request{TeamA: "BUF", TeamB: "BUF", RecordA: strongRecord(), RecordB: strongRecord()}); err == nil {
		t.Fatalf("expected error for a team playing itself")
	}
	if _, err := p.Predict(Request{TeamA: "BUF", TeamB: "KC", RecordA: strongRecord()}); err == nil {
		t.Fatalf("expected error for missing record")
	}
	if _, err := p.Predict(Request{TeamB: "KC", RecordA: strongRecord(), RecordB: weakRecord()}); err == nil {
		t.Fatalf("expected error for missing team code")
	}
}

func TestNewValidatesBundle(t *testing.T) {
	bundle := fittedBundle(t)
	if _, err := New(bundle, "gradient_boost"); err == nil {
		t.Fatalf("expected error for unknown model name")
	}

	broken := fittedBundle(t)
	broken.Standardization.Scales = broken.Standardization.Scales[:1]
	if _, err := New(broken, models.ModelNameLogisticRegression); err == nil {
		t.Fatalf("expected error for misaligned standardization")
	}

	if _, err := New(nil, models.ModelNameLogisticRegression); err == nil {
		t.Fatalf("expected error for nil bundle")
	}
}
