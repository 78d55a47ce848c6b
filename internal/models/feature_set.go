package models

// FeatureImportance records the auxiliary-model importance score for one
// canonical feature and whether selection kept it. Importances are retained
// for every canonical feature, selected or not, for downstream reporting.
type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
	Selected   bool    `json:"selected"`
	// DroppedFor names the retained feature that outranked this one in a
	// correlated pair, when that is why it was dropped.
	DroppedFor string `json:"dropped_for,omitempty"`
}

// SelectedFeatureSet is the ordered feature subset chosen by the selector,
// with the scores that justified each inclusion. Derived once from the full
// training set; immutable thereafter and shared by both trained models.
type SelectedFeatureSet struct {
	Features    []string            `json:"features"`
	Importances []FeatureImportance `json:"importances"`
}

// Len returns the number of selected features.
func (s *SelectedFeatureSet) Len() int {
	return len(s.Features)
}

// Contains reports whether the named feature was selected.
func (s *SelectedFeatureSet) Contains(name string) bool {
	for _, f := range s.Features {
		if f == name {
			return true
		}
	}
	return false
}

// ImportanceOf returns the importance score recorded for the named feature.
func (s *SelectedFeatureSet) ImportanceOf(name string) (float64, bool) {
	for _, imp := range s.Importances {
		if imp.Name == name {
			return imp.Importance, true
		}
	}
	return 0, false
}
