package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// Aggregator builds leakage-safe season-to-date records from completed
// games. Games are processed in kickoff order; each game's snapshot is
// taken before that game is folded into either team's totals, so a
// snapshot never contains the game it was taken for.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

type teamTotals struct {
	games         int
	wins          int
	losses        int
	ties          int
	pointsFor     int
	pointsAgainst int
	yardsFor      int
	yardsAgainst  int
	marginSum     int
	lastKickoff   time.Time
	opponents     []string
}

func (t *teamTotals) winPct() float64 {
	if t.games == 0 {
		return 0
	}
	return (float64(t.wins) + 0.5*float64(t.ties)) / float64(t.games)
}

// SeasonLedger holds the per-game as-of snapshots and final records for one
// season.
type SeasonLedger struct {
	Season int
	// Finals maps team code to the full-season record, which doubles as
	// the prior-season fallback for the following season's early weeks.
	Finals map[string]*models.SeasonTeamRecord

	snapshots map[string]ledgerSnapshot
}

type ledgerSnapshot struct {
	home *models.SeasonTeamRecord
	away *models.SeasonTeamRecord
}

// Snapshot returns both teams' as-of records for a game, taken strictly
// before its kickoff. A team with no completed games at that point yields a
// record with GamesPlayed 0; callers fall back to the prior season for
// those.
func (l *SeasonLedger) Snapshot(gameID string) (home, away *models.SeasonTeamRecord, ok bool) {
	s, found := l.snapshots[gameID]
	if !found {
		return nil, nil, false
	}
	return s.home, s.away, true
}

// BuildSeason aggregates one season's games into a ledger. Input games must
// all belong to the given season; duplicates and self-matchups are data
// integrity violations.
func (a *Aggregator) BuildSeason(season int, games []models.Game) (*SeasonLedger, error) {
	ordered := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Season != season {
			return nil, &models.DataIntegrityError{
				Team:   g.HomeTeam,
				Season: g.Season,
				GameID: g.GameID,
				Reason: fmt.Sprintf("game from season %d in season %d batch", g.Season, season),
			}
		}
		ordered = append(ordered, g)
	}

	// Deterministic order: kickoff, then game ID for simultaneous slates.
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Kickoff.Equal(ordered[j].Kickoff) {
			return ordered[i].Kickoff.Before(ordered[j].Kickoff)
		}
		return ordered[i].GameID < ordered[j].GameID
	})

	ledger := &SeasonLedger{
		Season:    season,
		Finals:    make(map[string]*models.SeasonTeamRecord),
		snapshots: make(map[string]ledgerSnapshot, len(ordered)),
	}
	state := make(map[string]*teamTotals)
	seen := make(map[string]bool, len(ordered))

	totals := func(team string) *teamTotals {
		t, ok := state[team]
		if !ok {
			t = &teamTotals{}
			state[team] = t
		}
		return t
	}

	for i := range ordered {
		g := &ordered[i]
		if seen[g.GameID] {
			return nil, &models.DataIntegrityError{
				Team:   g.HomeTeam,
				Season: season,
				GameID: g.GameID,
				Reason: "duplicate game ID",
			}
		}
		seen[g.GameID] = true
		if g.HomeTeam == g.AwayTeam {
			return nil, &models.DataIntegrityError{
				Team:   g.HomeTeam,
				Season: season,
				GameID: g.GameID,
				Reason: "team matched against itself",
			}
		}

		home := totals(g.HomeTeam)
		away := totals(g.AwayTeam)

		ledger.snapshots[g.GameID] = ledgerSnapshot{
			home: a.record(g.HomeTeam, season, home, state),
			away: a.record(g.AwayTeam, season, away, state),
		}

		margin := g.HomeMargin()
		applyResult(home, g.AwayTeam, g.HomePoints, g.AwayPoints, g.HomeYards, g.AwayYards, margin, g.Kickoff)
		applyResult(away, g.HomeTeam, g.AwayPoints, g.HomePoints, g.AwayYards, g.HomeYards, -margin, g.Kickoff)
	}

	for team, t := range state {
		ledger.Finals[team] = a.record(team, season, t, state)
	}

	return ledger, nil
}

func applyResult(t *teamTotals, opponent string, pf, pa, yf, ya, margin int, kickoff time.Time) {
	t.games++
	switch {
	case margin > 0:
		t.wins++
	case margin < 0:
		t.losses++
	default:
		t.ties++
	}
	t.pointsFor += pf
	t.pointsAgainst += pa
	t.yardsFor += yf
	t.yardsAgainst += ya
	t.marginSum += margin
	t.lastKickoff = kickoff
	t.opponents = append(t.opponents, opponent)
}

// record materializes the current totals into an immutable as-of record.
// Strength of schedule is the mean of faced opponents' win percentages at
// the same cutoff, 0.5 for an opponent with no completed games yet.
func (a *Aggregator) record(team string, season int, t *teamTotals, state map[string]*teamTotals) *models.SeasonTeamRecord {
	rec := &models.SeasonTeamRecord{
		Team:               team,
		Season:             season,
		AsOf:               t.lastKickoff,
		GamesPlayed:        t.games,
		Wins:               t.wins,
		Losses:             t.losses,
		Ties:               t.ties,
		StrengthOfSchedule: 0.5,
	}
	if t.games == 0 {
		return rec
	}

	n := float64(t.games)
	rec.PointsForPerGame = float64(t.pointsFor) / n
	rec.PointsAgainstPerGame = float64(t.pointsAgainst) / n
	rec.YardsForPerGame = float64(t.yardsFor) / n
	rec.YardsAgainstPerGame = float64(t.yardsAgainst) / n
	rec.AvgMargin = float64(t.marginSum) / n

	sos := 0.0
	for _, opp := range t.opponents {
		if o, ok := state[opp]; ok && o.games > 0 {
			sos += o.winPct()
		} else {
			sos += 0.5
		}
	}
	rec.StrengthOfSchedule = sos / float64(len(t.opponents))

	return rec
}

// LeagueAverageRecord builds the imputed baseline handed to teams with no
// prior-season history: league-mean rate stats, an even record, and a
// neutral schedule. The Imputed flag propagates into vector metadata.
func LeagueAverageRecord(team string, season int, finals map[string]*models.SeasonTeamRecord) *models.SeasonTeamRecord {
	rec := &models.SeasonTeamRecord{
		Team:               team,
		Season:             season,
		StrengthOfSchedule: 0.5,
		Imputed:            true,
	}
	if len(finals) == 0 {
		return rec
	}

	var games, pf, pa, yf, ya float64
	for _, f := range finals {
		games += float64(f.GamesPlayed)
		pf += f.PointsForPerGame
		pa += f.PointsAgainstPerGame
		yf += f.YardsForPerGame
		ya += f.YardsAgainstPerGame
	}
	n := float64(len(finals))
	rec.GamesPlayed = int(games/n + 0.5)
	rec.Wins = rec.GamesPlayed / 2
	rec.Losses = rec.Wins
	rec.Ties = rec.GamesPlayed - rec.Wins - rec.Losses
	rec.PointsForPerGame = pf / n
	rec.PointsAgainstPerGame = pa / n
	rec.YardsForPerGame = yf / n
	rec.YardsAgainstPerGame = ya / n
	return rec
}
