package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/yourusername/gridiron-predictor/internal/models"
)

// TestLoaderTwoSeasons tests a clean multi-season load
func TestLoaderTwoSeasons(t *testing.T) {
	fake := newFakeProvider(map[int][]RawGame{
		2022: {
			rawFixture("2022-W2-SF-SEA", 2022, 2, "SF", "SEA"),
			rawFixture("2022-W1-KC-BUF", 2022, 1, "Kansas City Chiefs", "BUF"),
		},
		2023: {
			rawFixture("2023-W1-DAL-NYG", 2023, 1, "DAL", "NYG"),
		},
	})
	loader := NewLoader(fake, nil)

	games, report, err := loader.Load(context.Background(), 2022, 2023)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(games) != 3 {
		t.Fatalf("loaded %d games, want 3", len(games))
	}
	if report.Accepted != 3 || report.Fetched != 3 || report.DroppedRaw != 0 || report.DroppedGames != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Seasons) != 2 || report.Seasons[0] != 2022 || report.Seasons[1] != 2023 {
		t.Errorf("seasons = %v", report.Seasons)
	}

	// Seasons ascending, kickoffs ascending within a season.
	if games[0].GameID != "2022-W1-KC-BUF" || games[1].GameID != "2022-W2-SF-SEA" || games[2].GameID != "2023-W1-DAL-NYG" {
		t.Errorf("order wrong: %s, %s, %s", games[0].GameID, games[1].GameID, games[2].GameID)
	}
	// Provider naming normalized on the way through.
	if games[0].HomeTeam != "KC" {
		t.Errorf("home team = %s, want KC", games[0].HomeTeam)
	}
}

// TestLoaderDropsBadRows tests that malformed rows are dropped, not fatal
func TestLoaderDropsBadRows(t *testing.T) {
	bad := rawFixture("2022-W1-BAD", 2022, 1, "KC", "KC") // team plays itself
	fake := newFakeProvider(map[int][]RawGame{
		2022: {rawFixture("2022-W1-KC-BUF", 2022, 1, "KC", "BUF"), bad},
	})
	loader := NewLoader(fake, nil)

	games, report, err := loader.Load(context.Background(), 2022, 2022)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("loaded %d games, want 1", len(games))
	}
	if report.DroppedGames != 1 {
		t.Errorf("dropped = %d, want 1", report.DroppedGames)
	}
}

// TestLoaderSeasonGap tests that an all-bad or empty season fails the load
func TestLoaderSeasonGap(t *testing.T) {
	fake := newFakeProvider(map[int][]RawGame{
		2022: {rawFixture("2022-W1-KC-BUF", 2022, 1, "KC", "BUF")},
		2023: {},
	})
	loader := NewLoader(fake, nil)

	_, _, err := loader.Load(context.Background(), 2022, 2023)
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	var unavailable *models.DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected DataUnavailableError, got %T", err)
	}
	if unavailable.Season != 2023 {
		t.Errorf("gap season = %d, want 2023", unavailable.Season)
	}
}

// TestLoaderRetriesTransient tests bounded retry on transient provider
// failures
func TestLoaderRetriesTransient(t *testing.T) {
	fake := newFakeProvider(map[int][]RawGame{
		2022: {rawFixture("2022-W1-KC-BUF", 2022, 1, "KC", "BUF")},
	})
	fake.scripts[2022] = []error{
		NewProviderError("fake", ErrCodeServerError, "boom", nil),
		NewProviderError("fake", ErrCodeNetworkError, "boom again", nil),
	}
	loader := NewLoader(fake, nil)

	games, report, err := loader.Load(context.Background(), 2022, 2022)
	if err != nil {
		t.Fatalf("Load failed after retries: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("loaded %d games, want 1", len(games))
	}
	if report.Retries != 2 {
		t.Errorf("retries = %d, want 2", report.Retries)
	}
	if fake.calls != 3 {
		t.Errorf("provider calls = %d, want 3", fake.calls)
	}
}

// TestLoaderPermanentFailure tests that non-transient errors fail fast
func TestLoaderPermanentFailure(t *testing.T) {
	fake := newFakeProvider(map[int][]RawGame{})
	loader := NewLoader(fake, nil)

	_, _, err := loader.Load(context.Background(), 2022, 2022)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (no retry on permanent errors)", fake.calls)
	}
}

// TestLoaderInvalidRange tests season range validation
func TestLoaderInvalidRange(t *testing.T) {
	loader := NewLoader(newFakeProvider(nil), nil)

	if _, _, err := loader.Load(context.Background(), 2024, 2020); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}
