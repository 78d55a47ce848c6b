// Package config provides configuration management for the Gridiron Predictor application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Features  FeaturesConfig  `mapstructure:"features" validate:"required"`
	Training  TrainingConfig  `mapstructure:"training" validate:"required"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProvidersConfig represents stats provider configuration
type ProvidersConfig struct {
	Primary  string                 `mapstructure:"primary" validate:"required,oneof=sportsfeed snapshot"`
	HTTP     HTTPProviderConfig     `mapstructure:"http"`
	Snapshot SnapshotProviderConfig `mapstructure:"snapshot"`
	Cache    ProviderCacheConfig    `mapstructure:"cache"`
}

// HTTPProviderConfig represents the HTTP stats provider configuration
type HTTPProviderConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	Enabled        bool    `mapstructure:"enabled"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	// BreakerMaxFailures opens the provider circuit after this many
	// failures in a short window. Zero disables the breaker.
	BreakerMaxFailures     int `mapstructure:"breaker_max_failures" validate:"gte=0"`
	BreakerCooldownSeconds int `mapstructure:"breaker_cooldown_seconds" validate:"gte=0"`
}

// SnapshotProviderConfig represents the file snapshot provider configuration
type SnapshotProviderConfig struct {
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
	// RefreshSeconds is how often the daemon rewrites the current season's
	// snapshot from the HTTP provider. Zero disables refreshing.
	RefreshSeconds int `mapstructure:"refresh_seconds" validate:"gte=0"`
}

// ProviderCacheConfig represents the provider cache configuration
type ProviderCacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxItems   int  `mapstructure:"max_items" validate:"required,gt=0"`
}

// FeaturesConfig represents feature engineering and selection configuration
type FeaturesConfig struct {
	PythagoreanExponent  float64 `mapstructure:"pythagorean_exponent" validate:"required,gt=0"`
	PlayoffWeight        float64 `mapstructure:"playoff_weight" validate:"required,gte=1"`
	ImportanceFloor      float64 `mapstructure:"importance_floor" validate:"required,gt=0,lt=1"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" validate:"required,gt=0,lte=1"`
	MinFeatures          int     `mapstructure:"min_features" validate:"required,gte=2"`
	MaxFeatures          int     `mapstructure:"max_features" validate:"required,gt=0"`
	SamplesPerFeature    int     `mapstructure:"samples_per_feature" validate:"required,gt=0"`
}

// TrainingConfig represents model training configuration
type TrainingConfig struct {
	FirstSeason     int       `mapstructure:"first_season" validate:"required,gte=1920"`
	LastSeason      int       `mapstructure:"last_season" validate:"required,gte=1920"`
	MaxFolds        int       `mapstructure:"max_folds" validate:"required,gt=0"`
	MinTrainSeasons int       `mapstructure:"min_train_seasons" validate:"required,gt=0"`
	LambdaGrid      []float64 `mapstructure:"lambda_grid" validate:"required,min=1,dive,gt=0"`
	LearningRate    float64   `mapstructure:"learning_rate" validate:"required,gt=0"`
	Iterations      int       `mapstructure:"iterations" validate:"required,gt=0"`
	ForestTrees     int       `mapstructure:"forest_trees" validate:"required,gt=0"`
	ForestMaxDepth  int       `mapstructure:"forest_max_depth" validate:"required,gt=0"`
	ForestMinLeaf   int       `mapstructure:"forest_min_leaf" validate:"required,gt=0"`
	Seed            int64     `mapstructure:"seed" validate:"required"`
}

// ArtifactsConfig represents artifact persistence configuration
type ArtifactsConfig struct {
	Dir             string `mapstructure:"dir" validate:"required"`
	RegistryEnabled bool   `mapstructure:"registry_enabled"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents scheduled retraining configuration
type SchedulerConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	CronSpec   string `mapstructure:"cron_spec" validate:"required,cronspec"`
	HealthPort int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ProviderTimeout returns the HTTP provider timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.HTTP.TimeoutSeconds) * time.Second
}

// ProviderCacheTTL returns the provider cache TTL as a duration
func (c *Config) ProviderCacheTTL() time.Duration {
	return time.Duration(c.Providers.Cache.TTLSeconds) * time.Second
}

// BreakerCooldown returns the provider circuit breaker cooldown as a duration
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.Providers.HTTP.BreakerCooldownSeconds) * time.Second
}

// SeasonCount returns the number of seasons in the configured range
func (c *Config) SeasonCount() int {
	return c.Training.LastSeason - c.Training.FirstSeason + 1
}
