package dataset

import (
	"fmt"
	"log"

	"github.com/yourusername/gridiron-predictor/internal/config"
)

// SourceType represents the type of stats provider
type SourceType string

const (
	// SportsFeed HTTP API provider type
	SportsFeedSourceType SourceType = "sportsfeed"
	// Snapshot file provider type
	SnapshotSourceType SourceType = "snapshot"
)

// Factory creates StatsProvider implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new stats provider factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// Create creates a new StatsProvider based on the type
func (f *Factory) Create(sourceType SourceType) (StatsProvider, error) {
	switch sourceType {
	case SportsFeedSourceType:
		return f.createSportsFeedSource()
	case SnapshotSourceType:
		return f.createSnapshotSource()
	default:
		return nil, fmt.Errorf("unknown stats provider type: %s", sourceType)
	}
}

// NewPrimaryProvider creates the configured primary provider, wrapped in a
// read-through cache when provider caching is enabled
func (f *Factory) NewPrimaryProvider() (StatsProvider, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	provider, err := f.Create(SourceType(f.config.Providers.Primary))
	if err != nil {
		return nil, fmt.Errorf("failed to create primary provider %s: %w", f.config.Providers.Primary, err)
	}

	if f.config.Providers.Cache.Enabled {
		provider = NewCachedProvider(provider, f.config.ProviderCacheTTL(), f.config.Providers.Cache.MaxItems, f.logger)
		if f.logger != nil {
			f.logger.Printf("Provider cache enabled: ttl=%s max_items=%d",
				f.config.ProviderCacheTTL(), f.config.Providers.Cache.MaxItems)
		}
	}

	return provider, nil
}

// createSportsFeedSource creates the SportsFeed HTTP provider, guarded by a
// circuit breaker when one is configured
func (f *Factory) createSportsFeedSource() (StatsProvider, error) {
	httpCfg := f.config.Providers.HTTP
	if httpCfg.APIKey == "" {
		return nil, fmt.Errorf("SportsFeed API key is required")
	}

	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = f.config.ProviderTimeout()
	clientCfg.MaxRetries = httpCfg.MaxRetries
	clientCfg.RateLimit = httpCfg.RateLimit

	httpClient := NewRateLimitedHTTPClient(clientCfg, f.logger)
	var provider StatsProvider = NewSportsFeedClient(httpClient, httpCfg.BaseURL, httpCfg.APIKey, httpCfg.Enabled, f.logger)

	if httpCfg.BreakerMaxFailures > 0 {
		breakerCfg := DefaultBreakerConfig()
		breakerCfg.MaxFailures = httpCfg.BreakerMaxFailures
		if httpCfg.BreakerCooldownSeconds > 0 {
			breakerCfg.Cooldown = f.config.BreakerCooldown()
		}
		provider = NewBreakerProvider(provider, breakerCfg, f.logger)
	}

	return provider, nil
}

// createSnapshotSource creates the snapshot file provider
func (f *Factory) createSnapshotSource() (StatsProvider, error) {
	snapCfg := f.config.Providers.Snapshot
	if snapCfg.Dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	return NewSnapshotClient(snapCfg.Dir, snapCfg.Enabled, f.logger), nil
}

// ListAvailableSources returns a list of provider types usable with the current configuration
func (f *Factory) ListAvailableSources() []SourceType {
	available := make([]SourceType, 0)

	if f.config == nil {
		return available
	}

	if f.config.Providers.HTTP.Enabled {
		available = append(available, SportsFeedSourceType)
	}
	if f.config.Providers.Snapshot.Enabled {
		available = append(available, SnapshotSourceType)
	}

	return available
}
