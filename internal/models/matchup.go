package models

import "time"

// GameType tags a game as regular season or a playoff round.
type GameType string

// Game types as supplied by the schedule provider.
const (
	GameTypeRegular    GameType = "REG"
	GameTypeWildCard   GameType = "WC"
	GameTypeDivisional GameType = "DIV"
	GameTypeConference GameType = "CON"
	GameTypeSuperBowl  GameType = "SB"
)

// IsPlayoff reports whether the game type is any non-regular-season round.
func (g GameType) IsPlayoff() bool {
	return g != GameTypeRegular && g != ""
}

// Valid reports whether the game type is one of the known tags.
func (g GameType) Valid() bool {
	switch g {
	case GameTypeRegular, GameTypeWildCard, GameTypeDivisional, GameTypeConference, GameTypeSuperBowl:
		return true
	}
	return false
}

// HomeField designates which side of a matchup has home advantage.
type HomeField string

const (
	HomeFieldTeamA   HomeField = "team_a"
	HomeFieldTeamB   HomeField = "team_b"
	HomeFieldNeutral HomeField = "neutral"
)

// Indicator returns the signed home-field feature value: +1 when team_a is
// home, -1 when team_b is home, 0 on a neutral site. The signed encoding
// keeps every canonical feature antisymmetric under swapping the two teams.
func (h HomeField) Indicator() float64 {
	switch h {
	case HomeFieldTeamA:
		return 1
	case HomeFieldTeamB:
		return -1
	}
	return 0
}

// Swapped returns the designation after exchanging team_a and team_b.
func (h HomeField) Swapped() HomeField {
	switch h {
	case HomeFieldTeamA:
		return HomeFieldTeamB
	case HomeFieldTeamB:
		return HomeFieldTeamA
	}
	return HomeFieldNeutral
}

// Matchup is one completed game between an ordered pair of teams. One
// Matchup yields exactly one FeatureVector.
type Matchup struct {
	GameID    string    `db:"game_id" json:"game_id" validate:"required"`
	Season    int       `db:"season" json:"season" validate:"required,gte=1920"`
	Week      int       `db:"week" json:"week" validate:"gte=1"`
	Kickoff   time.Time `db:"kickoff" json:"kickoff" validate:"required"`
	TeamA     string    `db:"team_a" json:"team_a" validate:"required"`
	TeamB     string    `db:"team_b" json:"team_b" validate:"required"`
	GameType  GameType  `db:"game_type" json:"game_type" validate:"required"`
	HomeField HomeField `db:"home_field" json:"home_field" validate:"oneof=team_a team_b neutral"`
	TeamAWon  bool      `db:"team_a_won" json:"team_a_won"`
}

// IsPlayoff reports whether this matchup is a playoff game.
func (m *Matchup) IsPlayoff() bool {
	return m.GameType.IsPlayoff()
}

// SampleWeight returns the training weight for this matchup: playoffWeight
// for playoff games, 1.0 for regular-season games.
func (m *Matchup) SampleWeight(playoffWeight float64) float64 {
	if m.IsPlayoff() {
		return playoffWeight
	}
	return 1.0
}

// Swapped returns the matchup with team_a and team_b exchanged, the
// home-field designation mirrored, and the outcome label inverted.
func (m *Matchup) Swapped() Matchup {
	out := *m
	out.TeamA, out.TeamB = m.TeamB, m.TeamA
	out.HomeField = m.HomeField.Swapped()
	out.TeamAWon = !m.TeamAWon
	return out
}
