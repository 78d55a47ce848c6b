package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yourusername/gridiron-predictor/internal/metrics"
	"github.com/yourusername/gridiron-predictor/internal/models"
)

// Retry policy for transient provider failures. The HTTP client already
// retries individual requests; this covers whole-season fetches that fail
// after those retries are spent.
const (
	loadAttempts     = 3
	loadBackoffFirst = 500 * time.Millisecond
)

// LoadReport summarizes one multi-season load
type LoadReport struct {
	Seasons      []int `json:"seasons"`
	Fetched      int   `json:"fetched"`
	Accepted     int   `json:"accepted"`
	DroppedRaw   int   `json:"dropped_raw"`
	DroppedGames int   `json:"dropped_games"`
	Retries      int   `json:"retries"`
}

// Loader fetches a season range from a provider and turns it into clean,
// aggregation-ready games: normalize, validate, drop bad rows with a
// warning, and fail fast on a season with no usable games.
type Loader struct {
	provider   StatsProvider
	normalizer *Normalizer
	validator  *Validator
	logger     *log.Logger
}

// NewLoader creates a loader over the given provider
func NewLoader(provider StatsProvider, logger *log.Logger) *Loader {
	return &Loader{
		provider:   provider,
		normalizer: NewNormalizer(logger),
		validator:  NewValidator(logger),
		logger:     logger,
	}
}

// Load fetches every season in [firstSeason, lastSeason], normalizes and
// validates each row, and returns games ordered by season and kickoff. A
// season yielding zero usable games is a gap and fails the load with a
// DataUnavailableError.
func (l *Loader) Load(ctx context.Context, firstSeason, lastSeason int) ([]models.Game, *LoadReport, error) {
	if firstSeason > lastSeason {
		return nil, nil, fmt.Errorf("invalid season range %d-%d", firstSeason, lastSeason)
	}

	report := &LoadReport{}
	var all []models.Game

	for season := firstSeason; season <= lastSeason; season++ {
		raws, retries, err := l.fetchSeason(ctx, season)
		report.Retries += retries
		if err != nil {
			return nil, nil, fmt.Errorf("fetching season %d: %w", season, err)
		}
		report.Fetched += len(raws)

		games := l.cleanSeason(season, raws, report)
		if len(games) == 0 {
			return nil, nil, &models.DataUnavailableError{
				Season: season,
				Reason: "no usable games from provider",
			}
		}

		if problems := l.validator.ValidateSeasonCoverage(season, games); len(problems) > 0 {
			return nil, nil, &models.DataUnavailableError{
				Season: season,
				Reason: fmt.Sprintf("season coverage invalid: %v", problems),
			}
		}

		report.Seasons = append(report.Seasons, season)
		report.Accepted += len(games)
		all = append(all, games...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Season != all[j].Season {
			return all[i].Season < all[j].Season
		}
		return all[i].Kickoff.Before(all[j].Kickoff)
	})

	if l.logger != nil {
		l.logger.Printf("Loaded %d games across seasons %d-%d (%d rows dropped)",
			report.Accepted, firstSeason, lastSeason, report.DroppedRaw+report.DroppedGames)
	}
	return all, report, nil
}

// fetchSeason retries transient provider failures with doubling backoff
func (l *Loader) fetchSeason(ctx context.Context, season int) ([]RawGame, int, error) {
	backoff := loadBackoffFirst
	retries := 0

	for attempt := 1; ; attempt++ {
		raws, err := l.provider.FetchSeason(ctx, season)
		if err == nil {
			metrics.RecordProviderRequest(l.provider.Name(), "success")
			return raws, retries, nil
		}
		if attempt >= loadAttempts || !isTransient(err) {
			metrics.RecordProviderRequest(l.provider.Name(), "failure")
			return nil, retries, err
		}

		retries++
		metrics.RecordProviderRetry(l.provider.Name())
		if l.logger != nil {
			l.logger.Printf("Season %d fetch attempt %d failed, retrying in %v: %v", season, attempt, backoff, err)
		}
		select {
		case <-ctx.Done():
			return nil, retries, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// cleanSeason normalizes and validates one season's raw rows, dropping bad
// rows with a warning
func (l *Loader) cleanSeason(season int, raws []RawGame, report *LoadReport) []models.Game {
	games := make([]models.Game, 0, len(raws))
	for i := range raws {
		raw := &raws[i]
		if problems := l.validator.ValidateRawGame(raw); len(problems) > 0 {
			report.DroppedRaw++
			if l.logger != nil {
				l.logger.Printf("Dropping raw game %s (season %d): %v", raw.GameID, season, problems)
			}
			continue
		}

		game, err := l.normalizer.NormalizeGame(raw)
		if err != nil {
			report.DroppedGames++
			if l.logger != nil {
				l.logger.Printf("Dropping game %s (season %d): %v", raw.GameID, season, err)
			}
			continue
		}

		if problems := l.validator.ValidateGame(game); len(problems) > 0 {
			report.DroppedGames++
			if l.logger != nil {
				l.logger.Printf("Dropping game %s (season %d): %v", game.GameID, season, problems)
			}
			continue
		}

		games = append(games, *game)
	}
	return games
}

// isTransient reports whether a provider error is worth another attempt
func isTransient(err error) bool {
	return errors.Is(err, ErrNetworkError) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrRateLimitExceeded)
}
