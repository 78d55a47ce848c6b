package features

import (
	"errors"
	"math"
	"testing"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

func newTestBuilder() *Builder {
	return NewBuilder(NewEngineer(DefaultPythagoreanExponent), 2.0)
}

func TestBuildSkipsOpeningWeekOfFirstSeason(t *testing.T) {
	ts, err := newTestBuilder().Build(season3Games(), []int{3})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// The two week-1 games have no usable history; weeks 2 and 3 do.
	if ts.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", ts.Skipped)
	}
	if len(ts.Vectors) != 3 {
		t.Fatalf("vectors = %d, want 3", len(ts.Vectors))
	}
	if ts.ImputedVectors != 0 {
		t.Fatalf("imputed vectors = %d, want 0", ts.ImputedVectors)
	}
	for _, v := range ts.Vectors {
		if v.Week < 2 {
			t.Fatalf("vector built for week %d opener", v.Week)
		}
	}
}

func TestBuildPriorSeasonFallback(t *testing.T) {
	games := append(season3Games(), models.Game{
		GameID: "S4W1-AB", Season: 4, Week: 1, Kickoff: day(4, 1),
		HomeTeam: "AAA", AwayTeam: "BBB",
		HomePoints: 21, AwayPoints: 20, HomeYards: 340, AwayYards: 330,
		GameType: models.GameTypeRegular,
	})

	ts, err := newTestBuilder().Build(games, []int{3, 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(ts.Vectors) != 4 {
		t.Fatalf("vectors = %d, want 4", len(ts.Vectors))
	}

	var opener *models.FeatureVector
	for i := range ts.Vectors {
		if ts.Vectors[i].GameID == "S4W1-AB" {
			opener = &ts.Vectors[i]
		}
	}
	if opener == nil {
		t.Fatalf("season-4 opener missing from training set")
	}

	// Built from the season-3 finals: AAA 27 pf/g, BBB 70/3 pf/g.
	want := 27.0 - 70.0/3.0
	got := opener.Values[mustIndex(t, PointsPerGameDiff)]
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("opener ppg diff = %v, want %v", got, want)
	}
	if opener.ImputedTeamA || opener.ImputedTeamB {
		t.Fatalf("prior-season fallback must not be flagged imputed")
	}
}

func TestBuildImputesTeamWithoutHistory(t *testing.T) {
	games := append(season3Games(), models.Game{
		GameID: "S4W1-EA", Season: 4, Week: 1, Kickoff: day(4, 1),
		HomeTeam: "EEE", AwayTeam: "AAA",
		HomePoints: 10, AwayPoints: 28, HomeYards: 260, AwayYards: 390,
		GameType: models.GameTypeRegular,
	})

	ts, err := newTestBuilder().Build(games, []int{3, 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if ts.ImputedVectors != 1 {
		t.Fatalf("imputed vectors = %d, want 1", ts.ImputedVectors)
	}

	var opener *models.FeatureVector
	for i := range ts.Vectors {
		if ts.Vectors[i].GameID == "S4W1-EA" {
			opener = &ts.Vectors[i]
		}
	}
	if opener == nil {
		t.Fatalf("expansion opener missing from training set")
	}
	if !opener.ImputedTeamA || opener.ImputedTeamB {
		t.Fatalf("imputed flags = (%v, %v), want (true, false)", opener.ImputedTeamA, opener.ImputedTeamB)
	}
	// EEE carries a .500 league-average baseline against AAA's 3-0 finals.
	got := opener.Values[mustIndex(t, WinPctDiff)]
	if math.Abs(got-(0.5-1.0)) > 1e-12 {
		t.Fatalf("win pct diff = %v, want -0.5", got)
	}
}

func TestBuildFailsOnMissingSeason(t *testing.T) {
	_, err := newTestBuilder().Build(season3Games(), []int{3, 4})
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable error, got %v", err)
	}

	var unavailable *models.DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if unavailable.Season != 4 {
		t.Fatalf("error names season %d, want 4", unavailable.Season)
	}
}

func TestBuildFutureResultsDoNotAffectEarlierVectors(t *testing.T) {
	build := func(games []models.Game) *models.FeatureVector {
		ts, err := newTestBuilder().Build(games, []int{3})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		for i := range ts.Vectors {
			if ts.Vectors[i].GameID == "S3W2-DA" {
				return &ts.Vectors[i]
			}
		}
		t.Fatalf("week-2 vector missing")
		return nil
	}

	base := build(season3Games())

	// Flipping the week-3 result must leave the week-2 vector untouched.
	future := season3Games()
	future[4].HomePoints, future[4].AwayPoints = 3, 45
	perturbed := build(future)
	for i := range base.Values {
		if base.Values[i] != perturbed.Values[i] {
			t.Fatalf("future result leaked into feature %d: %v vs %v", i, base.Values[i], perturbed.Values[i])
		}
	}

	// Flipping a week-1 result must change it.
	past := season3Games()
	past[0].HomePoints, past[0].AwayPoints = 3, 45
	changed := build(past)
	same := true
	for i := range base.Values {
		if base.Values[i] != changed.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("past perturbation did not reach the week-2 vector")
	}
}

func TestTrainingSetAccessorsAligned(t *testing.T) {
	ts, err := newTestBuilder().Build(season3Games(), []int{3})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rows, labels, weights, seasons := ts.Matrix(), ts.Labels(), ts.Weights(), ts.RowSeasons()
	if len(rows) != len(ts.Vectors) || len(labels) != len(ts.Vectors) || len(weights) != len(ts.Vectors) || len(seasons) != len(ts.Vectors) {
		t.Fatalf("accessor lengths diverge from vector count %d", len(ts.Vectors))
	}
	for i, v := range ts.Vectors {
		if labels[i] != v.Label || weights[i] != v.Weight || seasons[i] != v.Season {
			t.Fatalf("row %d misaligned", i)
		}
		if len(rows[i]) != Count {
			t.Fatalf("row %d has %d features", i, len(rows[i]))
		}
	}
}
