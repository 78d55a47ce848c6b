package features

import (
	"sort"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// TrainingSet is the labeled output of feature engineering over a season
// range: one vector per usable matchup, in chronological order.
type TrainingSet struct {
	Vectors []models.FeatureVector
	// Seasons lists the distinct seasons present, ascending.
	Seasons []int
	// Skipped counts matchups dropped because a side had no same-season
	// games and no prior season existed in the supplied range (the range's
	// first early weeks).
	Skipped int
	// ImputedVectors counts vectors built against a league-average
	// baseline record.
	ImputedVectors int
}

// Matrix returns the feature rows aligned with Vectors.
func (ts *TrainingSet) Matrix() [][]float64 {
	rows := make([][]float64, len(ts.Vectors))
	for i := range ts.Vectors {
		rows[i] = ts.Vectors[i].Values
	}
	return rows
}

// Labels returns the outcome labels aligned with Vectors.
func (ts *TrainingSet) Labels() []float64 {
	out := make([]float64, len(ts.Vectors))
	for i := range ts.Vectors {
		out[i] = ts.Vectors[i].Label
	}
	return out
}

// Weights returns the sample weights aligned with Vectors.
func (ts *TrainingSet) Weights() []float64 {
	out := make([]float64, len(ts.Vectors))
	for i := range ts.Vectors {
		out[i] = ts.Vectors[i].Weight
	}
	return out
}

// RowSeasons returns each vector's season, aligned with Vectors.
func (ts *TrainingSet) RowSeasons() []int {
	out := make([]int, len(ts.Vectors))
	for i := range ts.Vectors {
		out[i] = ts.Vectors[i].Season
	}
	return out
}

// Builder assembles a TrainingSet from normalized games.
type Builder struct {
	aggregator    *Aggregator
	engineer      *Engineer
	playoffWeight float64
}

// NewBuilder creates a training-set builder. playoffWeight is applied to
// every non-regular-season matchup; regular-season games weigh 1.0.
func NewBuilder(engineer *Engineer, playoffWeight float64) *Builder {
	if playoffWeight <= 0 {
		playoffWeight = 1.0
	}
	return &Builder{
		aggregator:    NewAggregator(),
		engineer:      engineer,
		playoffWeight: playoffWeight,
	}
}

// Build produces labeled vectors for every matchup in the requested
// seasons. Each requested season must be covered by the supplied games;
// a season with no games fails fast with a DataUnavailableError. A team's
// features come from its season-to-date snapshot when it has completed
// games before kickoff, otherwise from its prior-season record, otherwise
// from the league-average baseline; matchups before any usable history are
// skipped and counted.
func (b *Builder) Build(games []models.Game, seasons []int) (*TrainingSet, error) {
	if len(seasons) == 0 {
		return nil, &models.DataUnavailableError{Reason: "no seasons requested"}
	}

	requested := make([]int, len(seasons))
	copy(requested, seasons)
	sort.Ints(requested)

	bySeason := make(map[int][]models.Game)
	for _, g := range games {
		bySeason[g.Season] = append(bySeason[g.Season], g)
	}
	for _, season := range requested {
		if len(bySeason[season]) == 0 {
			return nil, &models.DataUnavailableError{
				Season: season,
				Reason: "no games supplied for requested season",
			}
		}
	}

	ts := &TrainingSet{Seasons: requested}
	var priorFinals map[string]*models.SeasonTeamRecord

	for _, season := range requested {
		ledger, err := b.aggregator.BuildSeason(season, bySeason[season])
		if err != nil {
			return nil, err
		}

		ordered := orderedMatchups(bySeason[season])
		for i := range ordered {
			m := &ordered[i]
			home, away, ok := ledger.Snapshot(m.GameID)
			if !ok {
				return nil, &models.DataIntegrityError{
					Team:   m.TeamA,
					Season: season,
					GameID: m.GameID,
					Reason: "no ledger snapshot for game",
				}
			}

			recA, okA := b.resolve(home, season, m.TeamA, priorFinals)
			recB, okB := b.resolve(away, season, m.TeamB, priorFinals)
			if !okA || !okB {
				ts.Skipped++
				continue
			}

			vec, err := b.engineer.TrainingVector(m, recA, recB, b.playoffWeight)
			if err != nil {
				return nil, err
			}
			if vec.HasImputedBaseline() {
				ts.ImputedVectors++
			}
			ts.Vectors = append(ts.Vectors, *vec)
		}

		priorFinals = ledger.Finals
	}

	return ts, nil
}

// resolve picks the leakage-safe record for one side of a matchup.
func (b *Builder) resolve(snapshot *models.SeasonTeamRecord, season int, team string, priorFinals map[string]*models.SeasonTeamRecord) (*models.SeasonTeamRecord, bool) {
	if snapshot != nil && snapshot.GamesPlayed > 0 {
		return snapshot, true
	}
	if priorFinals == nil {
		// First season in range: no history to fall back on.
		return nil, false
	}
	if prior, ok := priorFinals[team]; ok {
		return prior, true
	}
	// Expansion or relocated team with no prior season on record.
	prior := -1
	for _, f := range priorFinals {
		prior = f.Season
		break
	}
	return LeagueAverageRecord(team, prior, priorFinals), true
}

// orderedMatchups derives home-team-first matchups in deterministic
// chronological order.
func orderedMatchups(games []models.Game) []models.Matchup {
	out := make([]models.Matchup, 0, len(games))
	for i := range games {
		out = append(out, games[i].Matchup())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}
