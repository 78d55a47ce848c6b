// Package main provides the entry point for the training daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-predictor/internal/config"
	"github.com/yourusername/gridiron-predictor/internal/database"
	"github.com/yourusername/gridiron-predictor/internal/dataset"
	"github.com/yourusername/gridiron-predictor/internal/health"
	"github.com/yourusername/gridiron-predictor/internal/logger"
	"github.com/yourusername/gridiron-predictor/internal/metrics"
	"github.com/yourusername/gridiron-predictor/internal/models"
	"github.com/yourusername/gridiron-predictor/internal/pipeline"
	"github.com/yourusername/gridiron-predictor/internal/repository"
	"github.com/yourusername/gridiron-predictor/internal/scheduler"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		runOnStart = flag.Bool("run-on-start", false, "Run one training pass immediately at startup")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !cfg.Scheduler.Enabled && !*runOnStart {
		log.Fatalf("Scheduled retraining is disabled and -run-on-start not set; nothing to do")
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Gridiron Predictor training daemon starting")

	// Initialize the registry connection when enabled
	var (
		db     *database.DB
		repos  *repository.Repositories
		pinger health.DatabasePinger
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Artifacts.RegistryEnabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		repos, err = repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize repositories")
		}
		pinger = db

		appLog.Info("Model registry connection established")
	} else {
		appLog.Info("Model registry disabled; runs publish to the artifact store only")
	}

	// Initialize the data provider
	datasetLogger := log.New(os.Stdout, "provider: ", log.LstdFlags)
	factory := dataset.NewFactory(cfg, datasetLogger)
	provider, err := factory.NewPrimaryProvider()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build data provider")
	}

	appLog.WithField("provider", provider.Name()).Info("Data provider initialized")

	engine := pipeline.NewEngine(cfg, provider, repos, appLog, datasetLogger)

	// Start the health server
	healthServer := health.NewServer(health.Config{
		ServiceName: "traind",
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Scheduler.HealthPort),
		Logger:      appLog,
		DB:          pinger,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Start the metrics server
	metricsServer := startMetricsServer(cfg, appLog)

	runOnce := func(runCtx context.Context, trigger string) error {
		report, err := engine.Run(runCtx, trigger)
		if err != nil {
			return err
		}
		healthServer.SetLastRun(report.RunID, models.RunStatusCompleted, report.CompletedAt)
		return nil
	}

	// Schedule jobs
	sched := scheduler.NewScheduler(log.New(os.Stdout, "scheduler: ", log.LstdFlags))
	jobCount := 0

	if cfg.Scheduler.Enabled {
		err := sched.ScheduleRetraining(cfg.Scheduler.CronSpec, func(jobCtx context.Context) error {
			return runOnce(jobCtx, pipeline.TriggerScheduled)
		})
		if err != nil {
			appLog.WithError(err).Fatal("Failed to schedule retraining")
		}
		jobCount++
	}

	if refresh := snapshotRefreshJob(cfg, factory, appLog); refresh != nil {
		if err := sched.ScheduleSnapshotRefresh(cfg.Providers.Snapshot.RefreshSeconds, refresh); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule snapshot refresh")
		}
		jobCount++
	}

	if jobCount > 0 {
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	}

	healthServer.SetReady(true)

	runningFields := logrus.Fields{
		"cron_spec":        cfg.Scheduler.CronSpec,
		"registry_enabled": cfg.Artifacts.RegistryEnabled,
		"metrics_enabled":  cfg.Metrics.Enabled,
	}
	if sched.IsRunning() {
		runningFields["next_run"] = sched.GetNextRun().Format(time.RFC3339)
	}
	appLog.WithFields(runningFields).Info("Training daemon is running")

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if *runOnStart {
		go func() {
			if err := runOnce(ctx, pipeline.TriggerManual); err != nil {
				appLog.WithError(err).Error("Startup training run failed")
			}
		}()
	}

	// Wait for shutdown signal
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	appLog.Info("Initiating graceful shutdown...")

	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error during metrics server shutdown")
		}
	}

	// Give components time to cleanup
	time.Sleep(2 * time.Second)

	appLog.Info("Training daemon shut down successfully")
}

// startMetricsServer exposes the Prometheus registry when metrics are
// enabled; it returns nil otherwise.
func startMetricsServer(cfg *config.Config, appLog *logrus.Logger) *http.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	metrics.InitRegistry()

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithFields(logrus.Fields{
			"port": cfg.Metrics.Port,
			"path": cfg.Metrics.Path,
		}).Info("Metrics server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()

	return srv
}

// snapshotRefreshJob builds the recurring job that rewrites the current
// season's snapshot from the HTTP provider. It returns nil when refreshing
// is not configured.
func snapshotRefreshJob(cfg *config.Config, factory *dataset.Factory, appLog *logrus.Logger) scheduler.RunFunc {
	if cfg.Providers.Snapshot.RefreshSeconds <= 0 || !cfg.Providers.HTTP.Enabled || !cfg.Providers.Snapshot.Enabled {
		return nil
	}

	return func(ctx context.Context) error {
		source, err := factory.Create(dataset.SportsFeedSourceType)
		if err != nil {
			return err
		}

		season := cfg.Training.LastSeason
		games, err := source.FetchSeason(ctx, season)
		if err != nil {
			return err
		}

		path, err := dataset.WriteSeasonSnapshot(cfg.Providers.Snapshot.Dir, season, games)
		if err != nil {
			return err
		}

		appLog.WithFields(logrus.Fields{
			"season": season,
			"games":  len(games),
			"path":   path,
		}).Info("Season snapshot refreshed")

		return nil
	}
}
