package models

// FeatureVector is one labeled training (or prediction) example: the
// canonical differential features for a matchup in fixed catalog order,
// plus outcome label and sample weight. Feature names live in the shared
// catalog; Values is aligned with it positionally.
type FeatureVector struct {
	GameID string    `json:"game_id"`
	Season int       `json:"season"`
	Week   int       `json:"week"`
	Values []float64 `json:"values"`
	// Label is 1 when team_a won, 0 otherwise. Unset for prediction-time
	// vectors.
	Label  float64 `json:"label"`
	Weight float64 `json:"weight"`
	// ImputedTeamA/ImputedTeamB flag vectors built from a league-average
	// baseline record (expansion or relocated team with no prior season).
	ImputedTeamA bool `json:"imputed_team_a,omitempty"`
	ImputedTeamB bool `json:"imputed_team_b,omitempty"`
}

// HasImputedBaseline reports whether either side of the matchup fell back
// to the league-average record.
func (v *FeatureVector) HasImputedBaseline() bool {
	return v.ImputedTeamA || v.ImputedTeamB
}

// Won reports the outcome label as a boolean.
func (v *FeatureVector) Won() bool {
	return v.Label >= 0.5
}
