package dataset

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// Normalizer maps provider team naming to canonical codes and converts raw
// provider rows into the internal Game model
type Normalizer struct {
	teamCodeMap map[string]string // Maps provider team names to canonical codes
	logger      *log.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(logger *log.Logger) *Normalizer {
	return &Normalizer{
		teamCodeMap: buildTeamCodeMap(),
		logger:      logger,
	}
}

// NormalizeGame converts a RawGame from any provider to the internal Game
// model. Team names become canonical codes and the kickoff is forced to UTC.
func (n *Normalizer) NormalizeGame(raw *RawGame) (*models.Game, error) {
	if raw == nil {
		return nil, fmt.Errorf("raw game is nil")
	}

	game := &models.Game{
		GameID:      strings.TrimSpace(raw.GameID),
		Season:      raw.Season,
		Week:        raw.Week,
		Kickoff:     raw.Kickoff.UTC(),
		HomeTeam:    n.NormalizeTeam(raw.HomeTeam),
		AwayTeam:    n.NormalizeTeam(raw.AwayTeam),
		HomePoints:  raw.HomePoints,
		AwayPoints:  raw.AwayPoints,
		HomeYards:   raw.HomeYards,
		AwayYards:   raw.AwayYards,
		GameType:    n.NormalizeGameType(raw.GameType),
		NeutralSite: raw.NeutralSite,
	}

	return game, nil
}

// NormalizeTeam converts provider team naming to the canonical code.
// Relocated franchises map to their current code so a team's history stays
// under one identity across seasons. Unknown names pass through uppercased
// for the validator to reject.
func (n *Normalizer) NormalizeTeam(team string) string {
	if team == "" {
		return ""
	}

	upper := strings.ToUpper(strings.TrimSpace(team))
	if IsCanonicalTeam(upper) {
		return upper
	}
	if canonical, ok := n.teamCodeMap[upper]; ok {
		return canonical
	}
	return upper
}

// NormalizeGameType converts provider game classifications to canonical
// game types. Unknown classifications pass through for the validator.
func (n *Normalizer) NormalizeGameType(gameType string) models.GameType {
	normalized := strings.ToUpper(strings.TrimSpace(gameType))

	gameTypeMap := map[string]models.GameType{
		"REG":                     models.GameTypeRegular,
		"REGULAR":                 models.GameTypeRegular,
		"REGULAR SEASON":          models.GameTypeRegular,
		"WC":                      models.GameTypeWildCard,
		"WILDCARD":                models.GameTypeWildCard,
		"WILD CARD":               models.GameTypeWildCard,
		"DIV":                     models.GameTypeDivisional,
		"DIVISIONAL":              models.GameTypeDivisional,
		"CON":                     models.GameTypeConference,
		"CONF":                    models.GameTypeConference,
		"CONFERENCE":              models.GameTypeConference,
		"CONFERENCE CHAMPIONSHIP": models.GameTypeConference,
		"SB":                      models.GameTypeSuperBowl,
		"SUPERBOWL":               models.GameTypeSuperBowl,
		"SUPER BOWL":              models.GameTypeSuperBowl,
	}

	if mapped, ok := gameTypeMap[normalized]; ok {
		return mapped
	}
	return models.GameType(normalized)
}

// canonicalTeams is the current 32-team code set.
var canonicalTeams = map[string]bool{
	"ARI": true, "ATL": true, "BAL": true, "BUF": true,
	"CAR": true, "CHI": true, "CIN": true, "CLE": true,
	"DAL": true, "DEN": true, "DET": true, "GB": true,
	"HOU": true, "IND": true, "JAX": true, "KC": true,
	"LA": true, "LAC": true, "LV": true, "MIA": true,
	"MIN": true, "NE": true, "NO": true, "NYG": true,
	"NYJ": true, "PHI": true, "PIT": true, "SEA": true,
	"SF": true, "TB": true, "TEN": true, "WAS": true,
}

// IsCanonicalTeam reports whether code is one of the 32 canonical codes
func IsCanonicalTeam(code string) bool {
	return canonicalTeams[code]
}

// CanonicalTeams returns the canonical code set as a sorted-insensitive copy
func CanonicalTeams() []string {
	teams := make([]string, 0, len(canonicalTeams))
	for code := range canonicalTeams {
		teams = append(teams, code)
	}
	return teams
}

// buildTeamCodeMap returns mapping of team name variations to canonical codes
func buildTeamCodeMap() map[string]string {
	return map[string]string{
		// Full names (canonical format: three-letter-ish code)
		"ARIZONA CARDINALS":    "ARI",
		"ATLANTA FALCONS":      "ATL",
		"BALTIMORE RAVENS":     "BAL",
		"BUFFALO BILLS":        "BUF",
		"CAROLINA PANTHERS":    "CAR",
		"CHICAGO BEARS":        "CHI",
		"CINCINNATI BENGALS":   "CIN",
		"CLEVELAND BROWNS":     "CLE",
		"DALLAS COWBOYS":       "DAL",
		"DENVER BRONCOS":       "DEN",
		"DETROIT LIONS":        "DET",
		"GREEN BAY PACKERS":    "GB",
		"HOUSTON TEXANS":       "HOU",
		"INDIANAPOLIS COLTS":   "IND",
		"JACKSONVILLE JAGUARS": "JAX",
		"KANSAS CITY CHIEFS":   "KC",
		"LOS ANGELES CHARGERS": "LAC",
		"LOS ANGELES RAMS":     "LA",
		"LAS VEGAS RAIDERS":    "LV",
		"MIAMI DOLPHINS":       "MIA",
		"MINNESOTA VIKINGS":    "MIN",
		"NEW ENGLAND PATRIOTS": "NE",
		"NEW ORLEANS SAINTS":   "NO",
		"NEW YORK GIANTS":      "NYG",
		"NEW YORK JETS":        "NYJ",
		"PHILADELPHIA EAGLES":  "PHI",
		"PITTSBURGH STEELERS":  "PIT",
		"SEATTLE SEAHAWKS":     "SEA",
		"SAN FRANCISCO 49ERS":  "SF",
		"TAMPA BAY BUCCANEERS": "TB",
		"TENNESSEE TITANS":     "TEN",
		"WASHINGTON COMMANDERS": "WAS",
		// Relocated franchises, mapped to the current identity
		"OAK":             "LV",
		"OAKLAND RAIDERS": "LV",
		"SD":              "LAC",
		"SAN DIEGO CHARGERS": "LAC",
		"STL":            "LA",
		"ST. LOUIS RAMS": "LA",
		"ST LOUIS RAMS":  "LA",
		// Renamed franchises
		"WASHINGTON REDSKINS":      "WAS",
		"WASHINGTON FOOTBALL TEAM": "WAS",
		// Common code variants across providers
		"ARZ": "ARI",
		"BLT": "BAL",
		"CLV": "CLE",
		"GNB": "GB",
		"HST": "HOU",
		"JAC": "JAX",
		"KAN": "KC",
		"LAR": "LA",
		"LVR": "LV",
		"NOR": "NO",
		"NWE": "NE",
		"SFO": "SF",
		"TAM": "TB",
		"WSH": "WAS",
	}
}
