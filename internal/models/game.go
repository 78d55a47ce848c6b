package models

import "time"

// Game is one normalized, completed game as produced by the dataset layer:
// canonical team codes, final score, and total yardage for both sides.
// Games feed the season-to-date aggregation that produces SeasonTeamRecord
// snapshots.
type Game struct {
	GameID      string    `db:"game_id" json:"game_id" validate:"required"`
	Season      int       `db:"season" json:"season" validate:"required,gte=1920"`
	Week        int       `db:"week" json:"week" validate:"gte=1,lte=23"`
	Kickoff     time.Time `db:"kickoff" json:"kickoff" validate:"required"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
	HomePoints  int       `db:"home_points" json:"home_points" validate:"gte=0"`
	AwayPoints  int       `db:"away_points" json:"away_points" validate:"gte=0"`
	HomeYards   int       `db:"home_yards" json:"home_yards" validate:"gte=0"`
	AwayYards   int       `db:"away_yards" json:"away_yards" validate:"gte=0"`
	GameType    GameType  `db:"game_type" json:"game_type" validate:"required"`
	NeutralSite bool      `db:"neutral_site" json:"neutral_site"`
}

// HomeWon reports whether the home side won. Ties return false.
func (g *Game) HomeWon() bool {
	return g.HomePoints > g.AwayPoints
}

// Tied reports whether the game ended level.
func (g *Game) Tied() bool {
	return g.HomePoints == g.AwayPoints
}

// HomeMargin returns the home side's scoring margin.
func (g *Game) HomeMargin() int {
	return g.HomePoints - g.AwayPoints
}

// Matchup derives the home-team-first matchup for this game. Neutral-site
// games keep the schedule's nominal home team as team_a with a neutral
// home-field designation.
func (g *Game) Matchup() Matchup {
	home := HomeFieldTeamA
	if g.NeutralSite {
		home = HomeFieldNeutral
	}
	return Matchup{
		GameID:    g.GameID,
		Season:    g.Season,
		Week:      g.Week,
		Kickoff:   g.Kickoff,
		TeamA:     g.HomeTeam,
		TeamB:     g.AwayTeam,
		GameType:  g.GameType,
		HomeField: home,
		TeamAWon:  g.HomeWon(),
	}
}
