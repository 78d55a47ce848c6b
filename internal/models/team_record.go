package models

import (
	"math"
	"time"
)

// SeasonTeamRecord holds a team's aggregated performance for one season as
// of a cutoff date. Training-time records are season-to-date snapshots taken
// strictly before a kickoff; full-season records (AsOf past the last game)
// double as the prior-season fallback for week-1 vectors. Immutable once
// computed.
type SeasonTeamRecord struct {
	Team                 string    `db:"team" json:"team" validate:"required"`
	Season               int       `db:"season" json:"season" validate:"required,gte=1920"`
	AsOf                 time.Time `db:"as_of" json:"as_of"`
	GamesPlayed          int       `db:"games_played" json:"games_played" validate:"gte=0"`
	Wins                 int       `db:"wins" json:"wins" validate:"gte=0"`
	Losses               int       `db:"losses" json:"losses" validate:"gte=0"`
	Ties                 int       `db:"ties" json:"ties" validate:"gte=0"`
	PointsForPerGame     float64   `db:"points_for_per_game" json:"points_for_per_game"`
	PointsAgainstPerGame float64   `db:"points_against_per_game" json:"points_against_per_game"`
	YardsForPerGame      float64   `db:"yards_for_per_game" json:"yards_for_per_game"`
	YardsAgainstPerGame  float64   `db:"yards_against_per_game" json:"yards_against_per_game"`
	StrengthOfSchedule   float64   `db:"strength_of_schedule" json:"strength_of_schedule"`
	AvgMargin            float64   `db:"avg_margin" json:"avg_margin"`
	Imputed              bool      `db:"imputed" json:"imputed"`
}

// WinPct returns the team's win percentage with ties counted as half a win.
func (r *SeasonTeamRecord) WinPct() float64 {
	if r.GamesPlayed == 0 {
		return 0
	}
	return (float64(r.Wins) + 0.5*float64(r.Ties)) / float64(r.GamesPlayed)
}

// PointDiffPerGame returns scoring margin per game.
func (r *SeasonTeamRecord) PointDiffPerGame() float64 {
	return r.PointsForPerGame - r.PointsAgainstPerGame
}

// NetYardsPerGame returns yardage margin per game.
func (r *SeasonTeamRecord) NetYardsPerGame() float64 {
	return r.YardsForPerGame - r.YardsAgainstPerGame
}

// Pythagorean returns the Pythagorean expectation, an estimate of "true"
// win rate from points scored and allowed. The exponent is configurable;
// 2.37 is the conventional choice for this league.
func (r *SeasonTeamRecord) Pythagorean(exponent float64) float64 {
	pf := math.Pow(r.PointsForPerGame, exponent)
	pa := math.Pow(r.PointsAgainstPerGame, exponent)
	if pf+pa == 0 {
		return 0.5
	}
	return pf / (pf + pa)
}

// PythagoreanLuck returns actual win percentage minus Pythagorean
// expectation. Positive values indicate a team outperforming its scoring
// margin.
func (r *SeasonTeamRecord) PythagoreanLuck(exponent float64) float64 {
	return r.WinPct() - r.Pythagorean(exponent)
}

// ScheduleAdjustedWinPct scales win percentage by opponent strength. A team
// facing an average schedule (SOS 0.5) keeps its raw win percentage.
func (r *SeasonTeamRecord) ScheduleAdjustedWinPct() float64 {
	return r.WinPct() * 2 * r.StrengthOfSchedule
}

// PointsPer100Yards returns scoring efficiency: points scored per 100 yards
// gained.
func (r *SeasonTeamRecord) PointsPer100Yards() float64 {
	if r.YardsForPerGame == 0 {
		return 0
	}
	return 100 * r.PointsForPerGame / r.YardsForPerGame
}

// PointsAllowedPer100Yards returns defensive efficiency: points conceded per
// 100 yards allowed.
func (r *SeasonTeamRecord) PointsAllowedPer100Yards() float64 {
	if r.YardsAgainstPerGame == 0 {
		return 0
	}
	return 100 * r.PointsAgainstPerGame / r.YardsAgainstPerGame
}

// YardsRatio returns yards gained over yards allowed per game.
func (r *SeasonTeamRecord) YardsRatio() float64 {
	if r.YardsAgainstPerGame == 0 {
		return 0
	}
	return r.YardsForPerGame / r.YardsAgainstPerGame
}
