package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// SportsFeedClient implements StatsProvider for the SportsFeed stats API
type SportsFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// sportsFeedGame represents a game row from the SportsFeed API
type sportsFeedGame struct {
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
	Venue       *string `json:"venue"`
	Attendance  *int    `json:"attendance"`
	Spread      *string `json:"closingSpread"`
	OverUnder   *string `json:"closingTotal"`
}

// NewSportsFeedClient creates a new SportsFeed API client
func NewSportsFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *SportsFeedClient {
	if baseURL == "" {
		baseURL = "https://api.sportsfeed.io/v2/nfl"
	}
	return &SportsFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchSeason retrieves all completed games for one season
func (c *SportsFeedClient) FetchSeason(ctx context.Context, season int) ([]RawGame, error) {
	if !c.enabled {
		return nil, NewProviderError("sportsfeed", ErrCodeDisabled, "provider disabled", nil)
	}

	url := fmt.Sprintf("%s/games?season=%d&status=final", c.baseURL, season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewProviderError("sportsfeed", ErrCodeNetworkError, "failed to create request", err)
	}

	// Add authentication header
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError("sportsfeed", ErrCodeNetworkError, "failed to fetch season", err)
	}
	defer resp.Body.Close()

	// Handle authentication errors
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewProviderError("sportsfeed", ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewProviderError("sportsfeed", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewProviderError("sportsfeed", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var feedGames []sportsFeedGame
	if err := json.NewDecoder(resp.Body).Decode(&feedGames); err != nil {
		return nil, NewProviderError("sportsfeed", ErrCodeInvalidData, "failed to parse response", err)
	}

	// Convert to RawGame
	games := make([]RawGame, 0, len(feedGames))
	for _, fg := range feedGames {
		game, err := c.convertGame(&fg)
		if err != nil {
			if c.logger != nil {
				c.logger.Printf("Skipping game %s: %v", fg.ID, err)
			}
			continue
		}
		games = append(games, *game)
	}

	return games, nil
}

// FetchGame retrieves a single game by ID
func (c *SportsFeedClient) FetchGame(ctx context.Context, gameID string) (*RawGame, error) {
	if !c.enabled {
		return nil, NewProviderError("sportsfeed", ErrCodeDisabled, "provider disabled", nil)
	}

	url := fmt.Sprintf("%s/games/%s", c.baseURL, gameID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewProviderError("sportsfeed", ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError("sportsfeed", ErrCodeNetworkError, "failed to fetch game", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewProviderError("sportsfeed", ErrCodeNotFound, "game not found", nil)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewProviderError("sportsfeed", ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError("sportsfeed", ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var fg sportsFeedGame
	if err := json.NewDecoder(resp.Body).Decode(&fg); err != nil {
		return nil, NewProviderError("sportsfeed", ErrCodeInvalidData, "failed to parse response", err)
	}

	return c.convertGame(&fg)
}

// Name returns the provider name
func (c *SportsFeedClient) Name() string {
	return "sportsfeed"
}

// IsEnabled returns whether this provider is enabled
func (c *SportsFeedClient) IsEnabled() bool {
	return c.enabled
}

// convertGame converts SportsFeed game format to RawGame
func (c *SportsFeedClient) convertGame(fg *sportsFeedGame) (*RawGame, error) {
	kickoff, err := time.Parse(time.RFC3339, fg.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", fg.StartTime, err)
	}

	game := &RawGame{
		GameID:      fg.ID,
		Season:      fg.Season,
		Week:        fg.Week,
		Kickoff:     kickoff.UTC(),
		HomeTeam:    fg.HomeTeam,
		AwayTeam:    fg.AwayTeam,
		HomePoints:  fg.HomeScore,
		AwayPoints:  fg.AwayScore,
		HomeYards:   fg.HomeYards,
		AwayYards:   fg.AwayYards,
		GameType:    fg.GameType,
		NeutralSite: fg.NeutralSite,
		Venue:       fg.Venue,
		Attendance:  fg.Attendance,
		Spread:      parseDecimal(fg.Spread),
		OverUnder:   parseDecimal(fg.OverUnder),
		RetrievedAt: time.Now().UTC(),
	}

	return game, nil
}

// parseDecimal parses a string to decimal.Decimal, returning nil if invalid
func parseDecimal(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
