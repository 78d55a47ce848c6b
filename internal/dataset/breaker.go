package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// BreakerState represents the state of a provider circuit breaker
type BreakerState int

const (
	// BreakerClosed means calls pass through to the provider
	BreakerClosed BreakerState = iota
	// BreakerHalfOpen means one probe call is allowed after cooldown
	BreakerHalfOpen
	// BreakerOpen means calls fail fast without reaching the provider
	BreakerOpen
)

// String returns string representation of the breaker state
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "CLOSED"
	case BreakerHalfOpen:
		return "HALF_OPEN"
	case BreakerOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// BreakerConfig defines circuit breaker thresholds for a provider
type BreakerConfig struct {
	// MaxFailures opens the circuit once this many failures land inside
	// the window.
	MaxFailures int
	// Window is how long a failure counts against the threshold.
	Window time.Duration
	// Cooldown is how long an open circuit rejects calls before allowing
	// a probe.
	Cooldown time.Duration
}

// DefaultBreakerConfig returns the default breaker thresholds
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		Window:      2 * time.Minute,
		Cooldown:    30 * time.Second,
	}
}

// BreakerProvider wraps a StatsProvider and stops calling it after repeated
// failures. While the circuit is open every call fails fast with a
// circuit_open error, which the loader treats as non-transient, so a dead
// upstream is reported immediately instead of burning retries against it.
type BreakerProvider struct {
	inner  StatsProvider
	config BreakerConfig
	logger *log.Logger

	mu          sync.Mutex
	state       BreakerState
	failures    int
	lastFailure time.Time
	openedAt    time.Time
}

// NewBreakerProvider wraps the given provider with a circuit breaker.
// Zero-valued config fields fall back to the defaults.
func NewBreakerProvider(inner StatsProvider, config BreakerConfig, logger *log.Logger) *BreakerProvider {
	defaults := DefaultBreakerConfig()
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	if config.Cooldown <= 0 {
		config.Cooldown = defaults.Cooldown
	}
	return &BreakerProvider{
		inner:  inner,
		config: config,
		logger: logger,
		state:  BreakerClosed,
	}
}

// FetchSeason delegates to the wrapped provider unless the circuit is open
func (b *BreakerProvider) FetchSeason(ctx context.Context, season int) ([]RawGame, error) {
	if err := b.allow(); err != nil {
		return nil, err
	}
	raws, err := b.inner.FetchSeason(ctx, season)
	b.record(err)
	if err != nil {
		return nil, err
	}
	return raws, nil
}

// FetchGame delegates to the wrapped provider unless the circuit is open
func (b *BreakerProvider) FetchGame(ctx context.Context, gameID string) (*RawGame, error) {
	if err := b.allow(); err != nil {
		return nil, err
	}
	raw, err := b.inner.FetchGame(ctx, gameID)
	b.record(err)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Name returns the wrapped provider's name
func (b *BreakerProvider) Name() string {
	return b.inner.Name()
}

// IsEnabled returns whether the wrapped provider is enabled
func (b *BreakerProvider) IsEnabled() bool {
	return b.inner.IsEnabled()
}

// State returns the current circuit state
func (b *BreakerProvider) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// allow rejects the call while the circuit is open, moving to half-open
// once the cooldown has passed
func (b *BreakerProvider) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != BreakerOpen {
		return nil
	}
	if time.Since(b.openedAt) > b.config.Cooldown {
		b.state = BreakerHalfOpen
		if b.logger != nil {
			b.logger.Printf("Circuit half-open for provider %s after %v cooldown", b.inner.Name(), b.config.Cooldown)
		}
		return nil
	}
	remaining := b.config.Cooldown - time.Since(b.openedAt)
	return NewProviderError(b.inner.Name(), ErrCodeCircuitOpen,
		fmt.Sprintf("circuit open for another %v", remaining.Round(time.Second)), nil)
}

// record updates the failure window from a call's outcome. Context
// cancellation and not-found are the caller's business, not provider
// health, and never count against the circuit.
func (b *BreakerProvider) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state != BreakerClosed && b.logger != nil {
			b.logger.Printf("Circuit closed for provider %s after successful call", b.inner.Name())
		}
		b.state = BreakerClosed
		b.failures = 0
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNotFound) {
		return
	}

	now := time.Now()
	if now.Sub(b.lastFailure) > b.config.Window {
		b.failures = 0
	}
	b.failures++
	b.lastFailure = now

	if b.state == BreakerHalfOpen {
		b.openLocked("probe call failed")
		return
	}
	if b.failures >= b.config.MaxFailures {
		b.openLocked(fmt.Sprintf("%d failures within %v", b.failures, b.config.Window))
	}
}

// openLocked opens the circuit; the caller holds the mutex
func (b *BreakerProvider) openLocked(reason string) {
	b.state = BreakerOpen
	b.openedAt = time.Now()
	if b.logger != nil {
		b.logger.Printf("Circuit opened for provider %s: %s", b.inner.Name(), reason)
	}
}
