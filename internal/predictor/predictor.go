// Package predictor serves win probabilities from a persisted artifact
// bundle. It rebuilds the live feature vector through the same engineer
// contract training used, applies the bundle's standardization unchanged,
// and evaluates the chosen classifier.
package predictor

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-predictor/internal/artifact"
	"github.com/yourusername/gridiron-predictor/internal/classifier"
	"github.com/yourusername/gridiron-predictor/internal/features"
	"github.com/yourusername/gridiron-predictor/internal/metrics"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// oddsEpsilon keeps fair-odds division away from a zero probability when a
// clamped sigmoid or a pure forest leaf returns exactly 0 or 1.
const oddsEpsilon = 1e-9

// Request describes one two-team query. Records are season-to-date or
// final SeasonTeamRecords supplied by the data layer.
type Request struct {
	TeamA   string
	TeamB   string
	RecordA *models.SeasonTeamRecord
	RecordB *models.SeasonTeamRecord
	// HomeField designates which side hosts, from team_a's perspective.
	HomeField models.HomeField
	// WithInterval requests the bootstrap probability interval.
	WithInterval bool
}

// FeatureContribution attributes one selected feature's pull on the
// probability: the raw differential from team_a's perspective, its
// standardized form, the probability shift relative to zeroing it, and
// which team it favors.
type FeatureContribution struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Standardized float64 `json:"standardized"`
	Shift        float64 `json:"shift"`
	// Favors is the favored team's code, empty when the feature is
	// exactly neutral.
	Favors string `json:"favors,omitempty"`
}

// Interval is a bootstrap confidence interval on team_a's win probability.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Prediction is the served result for one request.
type Prediction struct {
	ModelName string `json:"model_name"`
	RunID     string `json:"run_id"`

	TeamA    string  `json:"team_a"`
	TeamB    string  `json:"team_b"`
	WinProbA float64 `json:"win_prob_a"`
	WinProbB float64 `json:"win_prob_b"`

	// Fair decimal odds implied by each probability, no margin applied.
	FairOddsA decimal.Decimal `json:"fair_odds_a"`
	FairOddsB decimal.Decimal `json:"fair_odds_b"`

	Contributions []FeatureContribution `json:"contributions"`
	Interval      *Interval             `json:"interval,omitempty"`
}

// Predictor evaluates one named model from a bundle.
type Predictor struct {
	bundle   *artifact.Bundle
	meta     *models.ModelArtifact
	model    classifier.Classifier
	engineer *features.Engineer
	scaler   *classifier.StandardScaler
	cols     []int
}

// New restores the named model from the bundle.
func New(bundle *artifact.Bundle, modelName string) (*Predictor, error) {
	if bundle == nil {
		return nil, fmt.Errorf("bundle is required")
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	meta, ok := bundle.Model(modelName)
	if !ok {
		return nil, fmt.Errorf("model %q not present in bundle %s: %w", modelName, bundle.RunID, models.ErrNotFound)
	}
	model, err := classifier.Unmarshal(meta.Kind, meta.Parameters)
	if err != nil {
		return nil, fmt.Errorf("restoring %s: %w", modelName, err)
	}
	cols, ok := features.Indices(meta.Features)
	if !ok {
		return nil, fmt.Errorf("bundle %s names features outside the catalog", bundle.RunID)
	}

	return &Predictor{
		bundle:   bundle,
		meta:     meta,
		model:    model,
		engineer: features.NewEngineer(bundle.PythagoreanExponent),
		scaler: &classifier.StandardScaler{
			Means:  bundle.Standardization.Means,
			Scales: bundle.Standardization.Scales,
		},
		cols: cols,
	}, nil
}

// ModelName returns the served model's name.
func (p *Predictor) ModelName() string {
	return p.meta.Name
}

// Predict evaluates the matchup. The matchup is first put into canonical
// orientation (lexicographically smaller team code as team_a) and evaluated
// once, so swapping the caller's team order yields exact probability
// complements regardless of model kind.
func (p *Predictor) Predict(req Request) (*Prediction, error) {
	start := time.Now()

	if req.TeamA == "" || req.TeamB == "" {
		return nil, fmt.Errorf("both team codes are required")
	}
	if req.TeamA == req.TeamB {
		return nil, fmt.Errorf("a team cannot play itself")
	}
	if req.RecordA == nil || req.RecordB == nil {
		return nil, fmt.Errorf("season records are required for both teams")
	}

	first, second := req.RecordA, req.RecordB
	firstTeam, secondTeam := req.TeamA, req.TeamB
	home := req.HomeField
	swapped := false
	if req.TeamB < req.TeamA {
		first, second = second, first
		firstTeam, secondTeam = secondTeam, firstTeam
		home = home.Swapped()
		swapped = true
	}

	raw := p.engineer.Vector(first, second, home)
	standardized := p.scaler.TransformRow(project(raw, p.cols))

	// One canonical evaluation produces both probabilities, so the swapped
	// request returns the same two numbers with the roles exchanged.
	probFirst := p.model.PredictProba(standardized)
	probSecond := 1 - probFirst
	probA, probB := probFirst, probSecond
	if swapped {
		probA, probB = probSecond, probFirst
	}

	pred := &Prediction{
		ModelName: p.meta.Name,
		RunID:     p.bundle.RunID,
		TeamA:     req.TeamA,
		TeamB:     req.TeamB,
		WinProbA:  probA,
		WinProbB:  probB,
		FairOddsA: fairOdds(probA),
		FairOddsB: fairOdds(probB),
	}
	pred.Contributions = p.contributions(raw, standardized, probFirst, firstTeam, secondTeam, swapped)
	if req.WithInterval {
		interval := p.bootstrapInterval(standardized)
		if swapped {
			interval = Interval{Lower: 1 - interval.Upper, Upper: 1 - interval.Lower}
		}
		pred.Interval = &interval
	}

	metrics.RecordPrediction(time.Since(start).Seconds())
	return pred, nil
}

// contributions measures each selected feature's pull as the probability
// shift from zeroing its standardized value: positive shifts favor the
// canonical first team. Values are reported from the caller's team_a
// perspective.
func (p *Predictor) contributions(raw, standardized []float64, probFirst float64, firstTeam, secondTeam string, swapped bool) []FeatureContribution {
	out := make([]FeatureContribution, 0, len(p.cols))
	for j, col := range p.cols {
		zeroed := make([]float64, len(standardized))
		copy(zeroed, standardized)
		zeroed[j] = 0
		shift := probFirst - p.model.PredictProba(zeroed)

		favors := ""
		switch {
		case shift > 0:
			favors = firstTeam
		case shift < 0:
			favors = secondTeam
		}

		value := raw[col]
		std := standardized[j]
		callerShift := shift
		if swapped {
			value, std, callerShift = -value, -std, -shift
		}
		out = append(out, FeatureContribution{
			Name:         p.meta.Features[j],
			Value:        value,
			Standardized: std,
			Shift:        callerShift,
			Favors:       favors,
		})
	}
	return out
}

func fairOdds(prob float64) decimal.Decimal {
	if prob < oddsEpsilon {
		prob = oddsEpsilon
	}
	return decimal.NewFromInt(1).Div(decimal.NewFromFloat(prob)).Round(3)
}

func project(row []float64, cols []int) []float64 {
	out := make([]float64, len(cols))
	for j, c := range cols {
		out[j] = row[c]
	}
	return out
}
