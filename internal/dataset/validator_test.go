package dataset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

func cleanGame() models.Game {
	return models.Game{
		GameID:     "2023-W1-KC-DET",
		Season:     2023,
		Week:       1,
		Kickoff:    time.Date(2023, time.September, 7, 20, 20, 0, 0, time.UTC),
		HomeTeam:   "KC",
		AwayTeam:   "DET",
		HomePoints: 20,
		AwayPoints: 21,
		HomeYards:  316,
		AwayYards:  368,
		GameType:   models.GameTypeRegular,
	}
}

// TestValidateGameClean tests that a well-formed game passes
func TestValidateGameClean(t *testing.T) {
	v := NewValidator(nil)

	game := cleanGame()
	if problems := v.ValidateGame(&game); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

// TestValidateGameProblems tests rejection of malformed rows
func TestValidateGameProblems(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		name   string
		mutate func(*models.Game)
	}{
		{"Missing game id", func(g *models.Game) { g.GameID = "" }},
		{"Season too early", func(g *models.Game) { g.Season = 1919 }},
		{"Week zero", func(g *models.Game) { g.Week = 0 }},
		{"Week beyond playoffs", func(g *models.Game) { g.Week = 24 }},
		{"Zero kickoff", func(g *models.Game) { g.Kickoff = time.Time{} }},
		{"Unknown home code", func(g *models.Game) { g.HomeTeam = "XYZ" }},
		{"Unknown away code", func(g *models.Game) { g.AwayTeam = "Kansas City Chiefs" }},
		{"Team plays itself", func(g *models.Game) { g.AwayTeam = g.HomeTeam }},
		{"Negative points", func(g *models.Game) { g.AwayPoints = -3 }},
		{"Absurd points", func(g *models.Game) { g.HomePoints = 150 }},
		{"Absurd yards", func(g *models.Game) { g.HomeYards = 1200 }},
		{"Unknown game type", func(g *models.Game) { g.GameType = "PRESEASON" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := cleanGame()
			tt.mutate(&game)
			if problems := v.ValidateGame(&game); len(problems) == 0 {
				t.Errorf("expected problems for %s", tt.name)
			}
		})
	}
}

// TestValidateRawGameLines tests betting line sanity bounds
func TestValidateRawGameLines(t *testing.T) {
	v := NewValidator(nil)

	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	tests := []struct {
		name      string
		spread    *decimal.Decimal
		overUnder *decimal.Decimal
		valid     bool
	}{
		{"No lines", nil, nil, true},
		{"Typical lines", dec("-3.5"), dec("48.5"), true},
		{"Wide but sane spread", dec("27"), dec("41"), true},
		{"Spread beyond bound", dec("-31"), nil, false},
		{"Total too low", nil, dec("12"), false},
		{"Total too high", nil, dec("95"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &RawGame{GameID: "g1", Spread: tt.spread, OverUnder: tt.overUnder}
			problems := v.ValidateRawGame(raw)
			if (len(problems) == 0) != tt.valid {
				t.Errorf("valid=%v, problems=%v", tt.valid, problems)
			}
		})
	}

	neg := -5
	raw := &RawGame{GameID: "g2", Attendance: &neg}
	if problems := v.ValidateRawGame(raw); len(problems) == 0 {
		t.Errorf("expected problem for negative attendance")
	}
}

// TestValidateSeasonCoverage tests duplicate and foreign-season detection
func TestValidateSeasonCoverage(t *testing.T) {
	v := NewValidator(nil)

	a := cleanGame()
	b := cleanGame()
	b.GameID = "2023-W2-DET-KC"
	if problems := v.ValidateSeasonCoverage(2023, []models.Game{a, b}); len(problems) != 0 {
		t.Errorf("expected clean coverage, got %v", problems)
	}

	dup := cleanGame()
	if problems := v.ValidateSeasonCoverage(2023, []models.Game{a, dup}); len(problems) == 0 {
		t.Errorf("expected duplicate game id problem")
	}

	foreign := cleanGame()
	foreign.Season = 2022
	if problems := v.ValidateSeasonCoverage(2023, []models.Game{foreign}); len(problems) == 0 {
		t.Errorf("expected foreign season problem")
	}
}
