package dataset

import (
	"testing"

	"github.com/yourusername/gridiron-predictor/internal/config"
)

func factoryConfig() *config.Config {
	return &config.Config{
		Providers: config.ProvidersConfig{
			Primary: "snapshot",
			HTTP: config.HTTPProviderConfig{
				BaseURL:        "https://api.example.test/nfl",
				APIKey:         "key-123",
				Enabled:        true,
				TimeoutSeconds: 5,
				MaxRetries:     1,
				RateLimit:      10,
			},
			Snapshot: config.SnapshotProviderConfig{
				Dir:     "testdata",
				Enabled: true,
			},
			Cache: config.ProviderCacheConfig{
				Enabled:    false,
				TTLSeconds: 60,
				MaxItems:   16,
			},
		},
	}
}

// TestFactoryCreateSnapshot tests creating the snapshot provider
func TestFactoryCreateSnapshot(t *testing.T) {
	factory := NewFactory(factoryConfig(), nil)

	provider, err := factory.Create(SnapshotSourceType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.Name() != "snapshot" {
		t.Errorf("expected provider name snapshot, got %s", provider.Name())
	}
	if !provider.IsEnabled() {
		t.Error("expected snapshot provider to be enabled")
	}
}

// TestFactoryCreateSportsFeed tests creating the HTTP provider
func TestFactoryCreateSportsFeed(t *testing.T) {
	factory := NewFactory(factoryConfig(), nil)

	provider, err := factory.Create(SportsFeedSourceType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.Name() != "sportsfeed" {
		t.Errorf("expected provider name sportsfeed, got %s", provider.Name())
	}
}

// TestFactoryBreakerWrapping tests that configuring a failure threshold
// wraps the HTTP provider in a circuit breaker
func TestFactoryBreakerWrapping(t *testing.T) {
	cfg := factoryConfig()
	factory := NewFactory(cfg, nil)

	provider, err := factory.Create(SportsFeedSourceType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*SportsFeedClient); !ok {
		t.Errorf("expected bare HTTP provider, got %T", provider)
	}

	cfg.Providers.HTTP.BreakerMaxFailures = 5
	cfg.Providers.HTTP.BreakerCooldownSeconds = 10
	provider, err = factory.Create(SportsFeedSourceType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	breaker, ok := provider.(*BreakerProvider)
	if !ok {
		t.Fatalf("expected breaker wrapper, got %T", provider)
	}
	if breaker.Name() != "sportsfeed" {
		t.Errorf("expected breaker to delegate name, got %s", breaker.Name())
	}
	if breaker.State() != BreakerClosed {
		t.Errorf("expected new breaker to start CLOSED, got %s", breaker.State())
	}
}

// TestFactoryUnknownType tests rejection of unknown provider types
func TestFactoryUnknownType(t *testing.T) {
	factory := NewFactory(factoryConfig(), nil)

	_, err := factory.Create(SourceType("telegraph"))
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
}

// TestFactoryMissingAPIKey tests that the HTTP provider requires a key
func TestFactoryMissingAPIKey(t *testing.T) {
	cfg := factoryConfig()
	cfg.Providers.HTTP.APIKey = ""
	factory := NewFactory(cfg, nil)

	_, err := factory.Create(SportsFeedSourceType)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

// TestFactoryPrimaryProvider tests building the configured primary provider
func TestFactoryPrimaryProvider(t *testing.T) {
	cfg := factoryConfig()
	factory := NewFactory(cfg, nil)

	provider, err := factory.NewPrimaryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*SnapshotClient); !ok {
		t.Errorf("expected bare snapshot provider, got %T", provider)
	}

	// Enabling the cache should wrap the provider
	cfg.Providers.Cache.Enabled = true
	provider, err = factory.NewPrimaryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*CachedProvider); !ok {
		t.Errorf("expected cached provider wrapper, got %T", provider)
	}
	if provider.Name() != "snapshot" {
		t.Errorf("expected cache to delegate name, got %s", provider.Name())
	}
}

// TestFactoryListAvailableSources tests enumeration of usable provider types
func TestFactoryListAvailableSources(t *testing.T) {
	cfg := factoryConfig()
	factory := NewFactory(cfg, nil)

	sources := factory.ListAvailableSources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 available sources, got %d", len(sources))
	}

	cfg.Providers.HTTP.Enabled = false
	sources = factory.ListAvailableSources()
	if len(sources) != 1 || sources[0] != SnapshotSourceType {
		t.Errorf("expected only the snapshot source, got %v", sources)
	}
}
