package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-predictor/internal/dataset"
)

// leagueTeams is a small league whose strengths are fixed, so generated
// seasons have learnable outcome structure.
var leagueTeams = []string{"KC", "BUF", "SF", "SEA", "DAL", "PHI", "GB", "DET"}

var teamStrength = map[string]int{
	"KC": 8, "BUF": 6, "SF": 4, "SEA": 2, "DAL": 0, "PHI": -2, "GB": -4, "DET": -6,
}

// SeasonGames builds a deterministic regular season for the fixture league:
// 14 weeks, every team playing weekly, outcomes driven by team strength with
// arithmetic jitter so repeat calls are identical.
func SeasonGames(season int) []dataset.RawGame {
	games := make([]dataset.RawGame, 0, 14*len(leagueTeams)/2)

	// Circle method: fix the first team, rotate the rest each week.
	n := len(leagueTeams)
	rotation := make([]string, n)
	copy(rotation, leagueTeams)

	for week := 1; week <= 14; week++ {
		for i := 0; i < n/2; i++ {
			home, away := rotation[i], rotation[n-1-i]
			if week%2 == 0 {
				home, away = away, home
			}

			jitter := (season*31 + week*7 + i*3) % 11
			margin := teamStrength[home] - teamStrength[away] + 3 + jitter - 5
			homePts := 23 + margin/2 + jitter%4
			awayPts := homePts - margin
			if homePts < 0 {
				homePts = 0
			}
			if awayPts < 0 {
				awayPts = 0
			}
			if homePts == awayPts {
				homePts++
			}

			games = append(games, dataset.RawGame{
				GameID:     fmt.Sprintf("%d-W%02d-%s-%s", season, week, home, away),
				Season:     season,
				Week:       week,
				Kickoff:    time.Date(season, 9, 7*(week-1)+1, 18, 0, 0, 0, time.UTC),
				HomeTeam:   home,
				AwayTeam:   away,
				HomePoints: homePts,
				AwayPoints: awayPts,
				HomeYards:  330 + 12*teamStrength[home] + jitter*2,
				AwayYards:  330 + 12*teamStrength[away] - jitter,
				GameType:   "REG",
			})
		}

		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	return games
}

// SeasonRange builds SeasonGames for every season in [first, last].
func SeasonRange(first, last int) map[int][]dataset.RawGame {
	seasons := make(map[int][]dataset.RawGame, last-first+1)
	for season := first; season <= last; season++ {
		seasons[season] = SeasonGames(season)
	}
	return seasons
}

// WriteSeasonSnapshots writes snapshot files for every season in the range,
// in the format the snapshot provider reads.
func WriteSeasonSnapshots(t *testing.T, dir string, first, last int) {
	t.Helper()

	for season := first; season <= last; season++ {
		_, err := dataset.WriteSeasonSnapshot(dir, season, SeasonGames(season))
		require.NoError(t, err, "failed to write snapshot for season %d", season)
	}
}

// feedGame mirrors the SportsFeed API wire format.
type feedGame struct {
	ID          string  `json:"id"`
	Season      int     `json:"season"`
	Week        int     `json:"week"`
	StartTime   string  `json:"startTime"`
	HomeTeam    string  `json:"homeTeam"`
	AwayTeam    string  `json:"awayTeam"`
	HomeScore   int     `json:"homeScore"`
	AwayScore   int     `json:"awayScore"`
	HomeYards   int     `json:"homeTotalYards"`
	AwayYards   int     `json:"awayTotalYards"`
	GameType    string  `json:"gameType"`
	NeutralSite bool    `json:"neutralSite"`
	Spread      *string `json:"closingSpread"`
	OverUnder   *string `json:"closingTotal"`
}

func toFeedGame(raw dataset.RawGame) feedGame {
	fg := feedGame{
		ID:          raw.GameID,
		Season:      raw.Season,
		Week:        raw.Week,
		StartTime:   raw.Kickoff.Format(time.RFC3339),
		HomeTeam:    raw.HomeTeam,
		AwayTeam:    raw.AwayTeam,
		HomeScore:   raw.HomePoints,
		AwayScore:   raw.AwayPoints,
		HomeYards:   raw.HomeYards,
		AwayYards:   raw.AwayYards,
		GameType:    raw.GameType,
		NeutralSite: raw.NeutralSite,
	}
	if raw.Spread != nil {
		s := raw.Spread.String()
		fg.Spread = &s
	}
	if raw.OverUnder != nil {
		s := raw.OverUnder.String()
		fg.OverUnder = &s
	}
	return fg
}

// MockStatsServer creates a mock HTTP server speaking the SportsFeed API:
// bearer auth, /games?season=N listing, /games/{id} lookup.
func MockStatsServer(t *testing.T, seasons map[int][]dataset.RawGame) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if r.URL.Path == "/games" {
			season, err := strconv.Atoi(r.URL.Query().Get("season"))
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			out := make([]feedGame, 0, len(seasons[season]))
			for _, raw := range seasons[season] {
				out = append(out, toFeedGame(raw))
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(out)
			return
		}

		if gameID, ok := strings.CutPrefix(r.URL.Path, "/games/"); ok {
			for _, games := range seasons {
				for _, raw := range games {
					if raw.GameID == gameID {
						w.Header().Set("Content-Type", "application/json")
						json.NewEncoder(w).Encode(toFeedGame(raw))
						return
					}
				}
			}
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
