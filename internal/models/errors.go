package models

import (
	"errors"
	"fmt"
)

// Pipeline failure taxonomy. Typed errors below wrap these sentinels so
// callers can classify with errors.Is across package boundaries.
var (
	ErrDataIntegrity        = errors.New("data integrity violation")
	ErrDataUnavailable      = errors.New("required data unavailable")
	ErrInsufficientFeatures = errors.New("insufficient features after selection")
	ErrInsufficientHistory  = errors.New("insufficient season history")
)

// Storage errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
)

// DataIntegrityError reports leakage or malformed input detected while
// building training vectors, e.g. a season-to-date record whose cutoff is
// not strictly before the target kickoff.
type DataIntegrityError struct {
	Team   string
	Season int
	GameID string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation for team %s season %d game %s: %s", e.Team, e.Season, e.GameID, e.Reason)
}

func (e *DataIntegrityError) Unwrap() error { return ErrDataIntegrity }

// DataUnavailableError reports missing season or team coverage in the
// supplied input range.
type DataUnavailableError struct {
	Season int
	Team   string
	Reason string
}

func (e *DataUnavailableError) Error() string {
	if e.Team != "" {
		return fmt.Sprintf("data unavailable for team %s season %d: %s", e.Team, e.Season, e.Reason)
	}
	return fmt.Sprintf("data unavailable for season %d: %s", e.Season, e.Reason)
}

func (e *DataUnavailableError) Unwrap() error { return ErrDataUnavailable }

// InsufficientFeaturesError reports that feature selection collapsed below
// the viable minimum.
type InsufficientFeaturesError struct {
	Survived int
	Minimum  int
}

func (e *InsufficientFeaturesError) Error() string {
	return fmt.Sprintf("insufficient features: %d survived selection, minimum %d", e.Survived, e.Minimum)
}

func (e *InsufficientFeaturesError) Unwrap() error { return ErrInsufficientFeatures }

// InsufficientHistoryError reports too few seasons for a valid time-series
// split.
type InsufficientHistoryError struct {
	Seasons  int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: %d seasons available, %d required", e.Seasons, e.Required)
}

func (e *InsufficientHistoryError) Unwrap() error { return ErrInsufficientHistory }
