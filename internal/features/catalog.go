// Package features turns raw per-team season statistics into per-matchup
// differential feature vectors and selects the subset worth training on.
package features

// Canonical feature names. Every differential is (team_a - team_b) over
// leakage-safe as-of records; HomeField is the signed home indicator.
const (
	PointsPerGameDiff         = "points_per_game_diff"
	PointsAllowedPerGameDiff  = "points_allowed_per_game_diff"
	YardsPerGameDiff          = "yards_per_game_diff"
	YardsAllowedPerGameDiff   = "yards_allowed_per_game_diff"
	PointDiffPerGameDiff      = "point_diff_per_game_diff"
	NetYardsPerGameDiff       = "net_yards_per_game_diff"
	WinPctDiff                = "win_pct_diff"
	PythagoreanDiff           = "pythagorean_diff"
	PythagoreanLuckDiff       = "pythagorean_luck_diff"
	StrengthOfScheduleDiff    = "strength_of_schedule_diff"
	ScheduleAdjWinPctDiff     = "schedule_adjusted_win_pct_diff"
	AvgMarginDiff             = "avg_margin_diff"
	PointsPer100YardsDiff     = "points_per_100_yards_diff"
	PointsAllowedPer100Yards  = "points_allowed_per_100_yards_diff"
	YardsRatioDiff            = "yards_ratio_diff"
	HomeField                 = "home_field"
)

// Count is the number of canonical features before selection.
const Count = 16

var canonicalOrder = []string{
	PointsPerGameDiff,
	PointsAllowedPerGameDiff,
	YardsPerGameDiff,
	YardsAllowedPerGameDiff,
	PointDiffPerGameDiff,
	NetYardsPerGameDiff,
	WinPctDiff,
	PythagoreanDiff,
	PythagoreanLuckDiff,
	StrengthOfScheduleDiff,
	ScheduleAdjWinPctDiff,
	AvgMarginDiff,
	PointsPer100YardsDiff,
	PointsAllowedPer100Yards,
	YardsRatioDiff,
	HomeField,
}

var canonicalIndex = buildIndex()

func buildIndex() map[string]int {
	idx := make(map[string]int, len(canonicalOrder))
	for i, name := range canonicalOrder {
		idx[name] = i
	}
	return idx
}

// Names returns the canonical feature catalog in vector order. The returned
// slice is a copy.
func Names() []string {
	out := make([]string, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// Index returns a feature's position in the canonical vector order.
func Index(name string) (int, bool) {
	i, ok := canonicalIndex[name]
	return i, ok
}

// Indices maps a list of feature names to their canonical positions,
// preserving order. Unknown names are reported via ok=false.
func Indices(names []string) ([]int, bool) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		i, ok := canonicalIndex[name]
		if !ok {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}
