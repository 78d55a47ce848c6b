package features

import (
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// DefaultPythagoreanExponent is the conventional exponent for NFL scoring.
// Configurable; the chosen value is recorded in every persisted bundle.
const DefaultPythagoreanExponent = 2.37

// Engineer builds matchup differential feature vectors from season team
// records. It holds no hidden state: identical inputs always produce
// bit-identical vectors.
type Engineer struct {
	exponent float64
}

// NewEngineer creates an engineer with the given Pythagorean exponent.
// Non-positive values fall back to the default.
func NewEngineer(pythagoreanExponent float64) *Engineer {
	if pythagoreanExponent <= 0 {
		pythagoreanExponent = DefaultPythagoreanExponent
	}
	return &Engineer{exponent: pythagoreanExponent}
}

// PythagoreanExponent returns the exponent in use.
func (e *Engineer) PythagoreanExponent() float64 {
	return e.exponent
}

// Vector computes the canonical feature values for a matchup between two
// as-of records, in catalog order. It performs no leakage checks; use
// TrainingVector when building labeled vectors from historical games.
func (e *Engineer) Vector(a, b *models.SeasonTeamRecord, home models.HomeField) []float64 {
	v := make([]float64, Count)
	v[canonicalIndex[PointsPerGameDiff]] = a.PointsForPerGame - b.PointsForPerGame
	v[canonicalIndex[PointsAllowedPerGameDiff]] = a.PointsAgainstPerGame - b.PointsAgainstPerGame
	v[canonicalIndex[YardsPerGameDiff]] = a.YardsForPerGame - b.YardsForPerGame
	v[canonicalIndex[YardsAllowedPerGameDiff]] = a.YardsAgainstPerGame - b.YardsAgainstPerGame
	v[canonicalIndex[PointDiffPerGameDiff]] = a.PointDiffPerGame() - b.PointDiffPerGame()
	v[canonicalIndex[NetYardsPerGameDiff]] = a.NetYardsPerGame() - b.NetYardsPerGame()
	v[canonicalIndex[WinPctDiff]] = a.WinPct() - b.WinPct()
	v[canonicalIndex[PythagoreanDiff]] = a.Pythagorean(e.exponent) - b.Pythagorean(e.exponent)
	v[canonicalIndex[PythagoreanLuckDiff]] = a.PythagoreanLuck(e.exponent) - b.PythagoreanLuck(e.exponent)
	v[canonicalIndex[StrengthOfScheduleDiff]] = a.StrengthOfSchedule - b.StrengthOfSchedule
	v[canonicalIndex[ScheduleAdjWinPctDiff]] = a.ScheduleAdjustedWinPct() - b.ScheduleAdjustedWinPct()
	v[canonicalIndex[AvgMarginDiff]] = a.AvgMargin - b.AvgMargin
	v[canonicalIndex[PointsPer100YardsDiff]] = a.PointsPer100Yards() - b.PointsPer100Yards()
	v[canonicalIndex[PointsAllowedPer100Yards]] = a.PointsAllowedPer100Yards() - b.PointsAllowedPer100Yards()
	v[canonicalIndex[YardsRatioDiff]] = a.YardsRatio() - b.YardsRatio()
	v[canonicalIndex[HomeField]] = home.Indicator()
	return v
}

// TrainingVector builds the labeled, weighted vector for a historical
// matchup from the two sides' as-of records. It enforces the leakage
// guard: each record must be computed only from games strictly preceding
// the matchup's kickoff (or be the prior completed season's record for
// week-1 games). playoffWeight is the sample weight applied to
// non-regular-season games.
func (e *Engineer) TrainingVector(m *models.Matchup, a, b *models.SeasonTeamRecord, playoffWeight float64) (*models.FeatureVector, error) {
	if err := e.checkLeakage(m, m.TeamA, a); err != nil {
		return nil, err
	}
	if err := e.checkLeakage(m, m.TeamB, b); err != nil {
		return nil, err
	}

	label := 0.0
	if m.TeamAWon {
		label = 1.0
	}

	return &models.FeatureVector{
		GameID:       m.GameID,
		Season:       m.Season,
		Week:         m.Week,
		Values:       e.Vector(a, b, m.HomeField),
		Label:        label,
		Weight:       m.SampleWeight(playoffWeight),
		ImputedTeamA: a.Imputed,
		ImputedTeamB: b.Imputed,
	}, nil
}

// checkLeakage rejects records that could include the target game itself.
// A same-season record must be cut off strictly before kickoff and cannot
// count more games than the schedule allows before that week; any record
// from a later season is an outright violation.
func (e *Engineer) checkLeakage(m *models.Matchup, team string, rec *models.SeasonTeamRecord) error {
	if rec.Season > m.Season {
		return &models.DataIntegrityError{
			Team:   team,
			Season: rec.Season,
			GameID: m.GameID,
			Reason: "record from a season after the matchup",
		}
	}
	if rec.Season < m.Season {
		// Prior-season fallback (week-1 vectors) or imputed baseline.
		return nil
	}
	if !rec.AsOf.Before(m.Kickoff) {
		return &models.DataIntegrityError{
			Team:   team,
			Season: rec.Season,
			GameID: m.GameID,
			Reason: "record cutoff is not strictly before kickoff",
		}
	}
	if rec.GamesPlayed >= m.Week {
		return &models.DataIntegrityError{
			Team:   team,
			Season: rec.Season,
			GameID: m.GameID,
			Reason: "record counts more games than possible before this week",
		}
	}
	return nil
}
