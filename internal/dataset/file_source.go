package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// SnapshotClient implements StatsProvider against a directory of per-season
// JSON snapshot files. Files are named games-<season>.json and hold an array
// of RawGame rows, which makes offline training runs reproducible without a
// live provider.
type SnapshotClient struct {
	dir     string
	enabled bool
	logger  *log.Logger
}

// NewSnapshotClient creates a provider over a snapshot directory
func NewSnapshotClient(dir string, enabled bool, logger *log.Logger) *SnapshotClient {
	return &SnapshotClient{
		dir:     dir,
		enabled: enabled,
		logger:  logger,
	}
}

// SeasonFile returns the snapshot path for one season
func (c *SnapshotClient) SeasonFile(season int) string {
	return filepath.Join(c.dir, fmt.Sprintf("games-%d.json", season))
}

// FetchSeason reads all games for one season from its snapshot file
func (c *SnapshotClient) FetchSeason(ctx context.Context, season int) ([]RawGame, error) {
	if !c.enabled {
		return nil, NewProviderError("snapshot", ErrCodeDisabled, "provider disabled", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := c.SeasonFile(season)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewProviderError("snapshot", ErrCodeNotFound, fmt.Sprintf("no snapshot for season %d", season), err)
		}
		return nil, NewProviderError("snapshot", ErrCodeNetworkError, fmt.Sprintf("reading %s", path), err)
	}

	var games []RawGame
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, NewProviderError("snapshot", ErrCodeInvalidData, fmt.Sprintf("parsing %s", path), err)
	}

	if c.logger != nil {
		c.logger.Printf("Loaded %d games for season %d from %s", len(games), season, path)
	}
	return games, nil
}

// FetchGame scans the available snapshots for a game ID. Snapshot files are
// small enough that a linear scan is fine.
func (c *SnapshotClient) FetchGame(ctx context.Context, gameID string) (*RawGame, error) {
	if !c.enabled {
		return nil, NewProviderError("snapshot", ErrCodeDisabled, "provider disabled", nil)
	}

	seasons, err := c.AvailableSeasons()
	if err != nil {
		return nil, err
	}
	for _, season := range seasons {
		games, err := c.FetchSeason(ctx, season)
		if err != nil {
			return nil, err
		}
		for i := range games {
			if games[i].GameID == gameID {
				return &games[i], nil
			}
		}
	}
	return nil, NewProviderError("snapshot", ErrCodeNotFound, fmt.Sprintf("game %s not in any snapshot", gameID), nil)
}

// AvailableSeasons lists the seasons with a snapshot file present, ascending
func (c *SnapshotClient) AvailableSeasons() ([]int, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "games-*.json"))
	if err != nil {
		return nil, NewProviderError("snapshot", ErrCodeNetworkError, "listing snapshots", err)
	}

	var seasons []int
	for _, path := range matches {
		var season int
		if _, err := fmt.Sscanf(filepath.Base(path), "games-%d.json", &season); err == nil {
			seasons = append(seasons, season)
		}
	}
	sort.Ints(seasons)
	return seasons, nil
}

// Name returns the provider name
func (c *SnapshotClient) Name() string {
	return "snapshot"
}

// IsEnabled returns whether this provider is enabled
func (c *SnapshotClient) IsEnabled() bool {
	return c.enabled
}

// WriteSeasonSnapshot persists a season's raw games to the snapshot
// directory, creating it if needed. Used to capture provider output for
// later offline runs.
func WriteSeasonSnapshot(dir string, season int, games []RawGame) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding season %d: %w", season, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("games-%d.json", season))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
