package dataset

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// Sanity bounds for a single NFL game. Rows outside these are provider
// glitches, not football.
var (
	maxSaneSpread = decimal.NewFromInt(30)
	minSaneTotal  = decimal.NewFromInt(20)
	maxSaneTotal  = decimal.NewFromInt(90)
)

// Validator validates normalized game data before it reaches aggregation
type Validator struct {
	logger *log.Logger
}

// NewValidator creates a new validator
func NewValidator(logger *log.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateGame validates a normalized game for required fields and
// constraints. It returns human-readable problems, empty when clean.
func (v *Validator) ValidateGame(game *models.Game) []string {
	var errors []string

	if game.GameID == "" {
		errors = append(errors, "game_id is required")
	}

	if game.Season < 1920 || game.Season > 2100 {
		errors = append(errors, fmt.Sprintf("season out of range, got %d", game.Season))
	}

	if game.Week < 1 || game.Week > 23 {
		errors = append(errors, fmt.Sprintf("week must be 1-23, got %d", game.Week))
	}

	if game.Kickoff.IsZero() {
		errors = append(errors, "kickoff is required")
	}

	if game.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	} else if !IsCanonicalTeam(game.HomeTeam) {
		errors = append(errors, fmt.Sprintf("unknown home team code %q", game.HomeTeam))
	}

	if game.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	} else if !IsCanonicalTeam(game.AwayTeam) {
		errors = append(errors, fmt.Sprintf("unknown away team code %q", game.AwayTeam))
	}

	if game.HomeTeam != "" && game.HomeTeam == game.AwayTeam {
		errors = append(errors, fmt.Sprintf("team %s cannot play itself", game.HomeTeam))
	}

	if game.HomePoints < 0 || game.HomePoints > 100 {
		errors = append(errors, fmt.Sprintf("home points out of range, got %d", game.HomePoints))
	}

	if game.AwayPoints < 0 || game.AwayPoints > 100 {
		errors = append(errors, fmt.Sprintf("away points out of range, got %d", game.AwayPoints))
	}

	if game.HomeYards < 0 || game.HomeYards > 900 {
		errors = append(errors, fmt.Sprintf("home yards out of range, got %d", game.HomeYards))
	}

	if game.AwayYards < 0 || game.AwayYards > 900 {
		errors = append(errors, fmt.Sprintf("away yards out of range, got %d", game.AwayYards))
	}

	if !game.GameType.Valid() {
		errors = append(errors, fmt.Sprintf("unknown game type %q", game.GameType))
	}

	return errors
}

// ValidateRawGame checks provider-side fields that do not survive
// normalization, mainly the betting lines
func (v *Validator) ValidateRawGame(raw *RawGame) []string {
	var errors []string

	if raw.GameID == "" {
		errors = append(errors, "game_id is required")
	}

	if raw.Spread != nil && raw.Spread.Abs().GreaterThan(maxSaneSpread) {
		errors = append(errors, fmt.Sprintf("spread %s beyond sanity bound", raw.Spread))
	}

	if raw.OverUnder != nil {
		if raw.OverUnder.LessThan(minSaneTotal) || raw.OverUnder.GreaterThan(maxSaneTotal) {
			errors = append(errors, fmt.Sprintf("total line %s beyond sanity bound", raw.OverUnder))
		}
	}

	if raw.Attendance != nil && *raw.Attendance < 0 {
		errors = append(errors, "attendance cannot be negative")
	}

	return errors
}

// ValidateSeasonCoverage checks a fetched season for duplicate game IDs
func (v *Validator) ValidateSeasonCoverage(season int, games []models.Game) []string {
	var errors []string

	seen := make(map[string]bool, len(games))
	for i := range games {
		g := &games[i]
		if g.Season != season {
			errors = append(errors, fmt.Sprintf("game %s belongs to season %d, not %d", g.GameID, g.Season, season))
		}
		if seen[g.GameID] {
			errors = append(errors, fmt.Sprintf("duplicate game id %s", g.GameID))
		}
		seen[g.GameID] = true
	}

	return errors
}
