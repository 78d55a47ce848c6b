package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// StatsProvider defines the interface for fetching game data from external
// stats providers
type StatsProvider interface {
	// FetchSeason retrieves all games for one season
	FetchSeason(ctx context.Context, season int) ([]RawGame, error)

	// FetchGame retrieves a single game by the provider's game ID
	FetchGame(ctx context.Context, gameID string) (*RawGame, error)

	// Name returns the name of the provider
	Name() string

	// IsEnabled returns whether this provider is currently enabled
	IsEnabled() bool
}

// RawGame represents one completed game as delivered by a provider, before
// normalization. Team names arrive in whatever form the provider uses
// (full names, nicknames, historical codes).
type RawGame struct {
	GameID      string           `json:"game_id"`      // Provider's unique game ID
	Season      int              `json:"season"`       // Season year
	Week        int              `json:"week"`         // Week within the season
	Kickoff     time.Time        `json:"kickoff"`      // Kickoff time UTC
	HomeTeam    string           `json:"home_team"`    // Home team as named by the provider
	AwayTeam    string           `json:"away_team"`    // Away team as named by the provider
	HomePoints  int              `json:"home_points"`  // Final home score
	AwayPoints  int              `json:"away_points"`  // Final away score
	HomeYards   int              `json:"home_yards"`   // Home total offensive yards
	AwayYards   int              `json:"away_yards"`   // Away total offensive yards
	GameType    string           `json:"game_type"`    // Provider's game classification
	NeutralSite bool             `json:"neutral_site"` // Played at a neutral venue
	Venue       *string          `json:"venue"`        // Stadium name if available
	Attendance  *int             `json:"attendance"`   // Announced attendance
	Spread      *decimal.Decimal `json:"spread"`       // Closing spread, home perspective
	OverUnder   *decimal.Decimal `json:"over_under"`   // Closing total line
	RetrievedAt time.Time        `json:"retrieved_at"` // When the row was fetched
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Source  string // Provider name
	Code    string // Error code (e.g. "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "provider_disabled"
	ErrCodeCircuitOpen          = "circuit_open"
)

// Sentinels matched by code in NewProviderError so errors.Is works across
// package boundaries.
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrProviderDisabled     = errors.New("provider disabled")
	ErrCircuitOpen          = errors.New("circuit open")
)

// NewProviderError creates a new provider error. When err is nil the code's
// sentinel is attached instead so callers can still match with errors.Is.
func NewProviderError(source, code, message string, err error) ProviderError {
	if err == nil {
		err = sentinelFor(code)
	}
	return ProviderError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func sentinelFor(code string) error {
	switch code {
	case ErrCodeRateLimitExceeded:
		return ErrRateLimitExceeded
	case ErrCodeAuthenticationFailed:
		return ErrAuthenticationFailed
	case ErrCodeNotFound:
		return ErrNotFound
	case ErrCodeInvalidData:
		return ErrInvalidData
	case ErrCodeNetworkError:
		return ErrNetworkError
	case ErrCodeServerError:
		return ErrServerError
	case ErrCodeDisabled:
		return ErrProviderDisabled
	case ErrCodeCircuitOpen:
		return ErrCircuitOpen
	}
	return nil
}
