// Package main provides the entry point for the one-shot training CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-predictor/internal/config"
	"github.com/yourusername/gridiron-predictor/internal/database"
	"github.com/yourusername/gridiron-predictor/internal/dataset"
	"github.com/yourusername/gridiron-predictor/internal/logger"
	"github.com/yourusername/gridiron-predictor/internal/pipeline"
	"github.com/yourusername/gridiron-predictor/internal/repository"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		firstSeason = flag.Int("first-season", 0, "Override first season of the training window")
		lastSeason  = flag.Int("last-season", 0, "Override last season of the training window")
		provider    = flag.String("provider", "", "Override data provider: sportsfeed, snapshot")
		reportPath  = flag.String("report", "", "Write the run report JSON to this path")
		noRegistry  = flag.Bool("no-registry", false, "Skip the Postgres model registry")
	)
	flag.Parse()

	bootLogger := logrus.New()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, bootLogger)
	applyOverrides(cfg, *firstSeason, *lastSeason, *provider, bootLogger)

	appLogger := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	datasetLogger := log.New(os.Stderr, "dataset ", log.LstdFlags)

	statsProvider := buildProvider(cfg, datasetLogger, appLogger)
	repos, closeDB := buildRepositories(ctx, cfg, *noRegistry, appLogger)
	defer closeDB()

	engine := pipeline.NewEngine(cfg, statsProvider, repos, appLogger, datasetLogger)

	report, err := engine.Run(ctx, pipeline.TriggerManual)
	if err != nil {
		appLogger.Fatalf("Training run failed: %v", err)
	}

	appLogger.WithFields(logrus.Fields{
		"run_id":      report.RunID,
		"best_model":  report.BestModel,
		"bundle_path": report.BundlePath,
	}).Info("Training run succeeded")

	if *reportPath != "" {
		writeReport(report, *reportPath, appLogger)
	}
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, firstSeason, lastSeason int, provider string, logger *logrus.Logger) {
	if firstSeason > 0 {
		cfg.Training.FirstSeason = firstSeason
	}
	if lastSeason > 0 {
		cfg.Training.LastSeason = lastSeason
	}
	if cfg.Training.FirstSeason > cfg.Training.LastSeason {
		logger.Fatalf("Invalid season window: %d-%d", cfg.Training.FirstSeason, cfg.Training.LastSeason)
	}
	if provider != "" {
		cfg.Providers.Primary = provider
	}
}

func buildProvider(cfg *config.Config, datasetLogger *log.Logger, logger *logrus.Logger) dataset.StatsProvider {
	factory := dataset.NewFactory(cfg, datasetLogger)
	provider, err := factory.NewPrimaryProvider()
	if err != nil {
		logger.Fatalf("Failed to build data provider: %v", err)
	}
	return provider
}

// buildRepositories connects the registry when enabled; the returned
// closer is a no-op otherwise.
func buildRepositories(ctx context.Context, cfg *config.Config, noRegistry bool, logger *logrus.Logger) (*repository.Repositories, func()) {
	if noRegistry || !cfg.Artifacts.RegistryEnabled {
		return nil, func() {}
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	return repos, db.Close
}

func writeReport(report *pipeline.Report, path string, logger *logrus.Logger) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to encode report: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatalf("Failed to write report: %v", err)
	}
	logger.WithField("path", path).Info("Run report written")
}
