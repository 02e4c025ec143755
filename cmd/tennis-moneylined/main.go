// Package main provides the entry point for the prediction daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simuteknikko/tennis-moneyline/internal/config"
	"github.com/simuteknikko/tennis-moneyline/internal/database"
	"github.com/simuteknikko/tennis-moneyline/internal/datasource"
	"github.com/simuteknikko/tennis-moneyline/internal/export"
	"github.com/simuteknikko/tennis-moneyline/internal/form"
	"github.com/simuteknikko/tennis-moneyline/internal/health"
	"github.com/simuteknikko/tennis-moneyline/internal/logger"
	"github.com/simuteknikko/tennis-moneyline/internal/metrics"
	"github.com/simuteknikko/tennis-moneyline/internal/model"
	"github.com/simuteknikko/tennis-moneyline/internal/players"
	"github.com/simuteknikko/tennis-moneyline/internal/repository"
	"github.com/simuteknikko/tennis-moneyline/internal/scheduler"
	"github.com/simuteknikko/tennis-moneyline/internal/service"
	"github.com/simuteknikko/tennis-moneyline/internal/simulator"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			stdlog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			stdlog.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Tennis moneyline daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection when persistence is enabled
	var (
		db       *database.DB
		repo     repository.PredictionRepository
		histRepo repository.HistoricalMatchRepository
	)
	if cfg.Database.Enabled {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to ensure database schema")
		}
		logger.NewAuditLogger(appLog).LogSchemaEnsured(cfg.Database.Name)

		repos, err := repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize repositories")
		}
		repo = repos.Prediction
		histRepo = repos.HistoricalMatch

		appLog.Info("Database connection established")
	} else {
		appLog.Info("Persistence disabled; predictions will only be exported")
	}

	// Build the prediction service
	svc, err := buildService(cfg, repo, histRepo, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build prediction service")
	}

	audit := logger.NewAuditLogger(appLog)

	// Export callback shared by the scheduler and the run trigger
	exportRun := func(ctx context.Context, result *service.RunResult) {
		if err := exportResult(cfg, audit, result); err != nil {
			appLog.WithError(err).Error("Failed to export prediction run")
		}
	}

	// Start metrics endpoint
	metrics.InitRegistry()
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Start health server with a manual run trigger
	var pinger health.DatabasePinger
	if db != nil {
		pinger = db
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          pinger,
		Trigger: func(ctx context.Context) (string, int, error) {
			audit.LogRunTriggered("http", "")
			result, err := svc.RunPredictions(ctx)
			if err != nil {
				return "", 0, err
			}
			exportRun(ctx, result)
			return result.RunID.String(), len(result.Predictions), nil
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Start the cron scheduler
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		schedLog := stdlog.New(os.Stdout, "scheduler: ", stdlog.LstdFlags)
		sched = scheduler.NewScheduler(svc, schedLog)
		if err := sched.SchedulePredictionRuns(cfg.Scheduler.Cron, exportRun); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule prediction runs")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithFields(logrus.Fields{
			"cron":     cfg.Scheduler.Cron,
			"next_run": sched.GetNextRun().Format(time.RFC3339),
		}).Info("Prediction scheduler started")
	} else {
		appLog.Info("Scheduler disabled; runs must be triggered via the health server")
	}

	healthServer.SetReady(true)
	appLog.Info("Daemon is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Failed to stop metrics server")
		}
		shutdownCancel()
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Failed to stop health server")
	}
	cancel()

	appLog.Info("Daemon stopped")
}

func buildService(cfg *config.Config, repo repository.PredictionRepository, histRepo repository.HistoricalMatchRepository, appLog *logrus.Logger) (*service.PredictionService, error) {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.Archive.Timeout()
	httpCfg.MaxRetries = cfg.Archive.MaxRetries
	httpCfg.RateLimit = cfg.Archive.RateLimit

	httpLogger := stdlog.New(os.Stdout, "http: ", stdlog.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, httpLogger)

	archiveLog := stdlog.New(os.Stdout, "archive: ", stdlog.LstdFlags)
	scheduleLog := stdlog.New(os.Stdout, "schedule: ", stdlog.LstdFlags)
	archive := datasource.NewArchiveClient(httpClient, cfg.Archive.BaseURL, cfg.Archive.CacheTTL(), archiveLog)
	schedule := datasource.NewScheduleClient(httpClient, cfg.Schedule.BaseURL, scheduleLog)

	estimator, err := form.NewEstimator(form.Config{
		Window:              cfg.Model.Window(),
		FatigueWindow:       cfg.Model.FatigueWindow(),
		BaselineServe:       cfg.Model.BaselineServe,
		BaselineReturn:      1 - cfg.Model.BaselineServe,
		DefaultMatchMinutes: cfg.Model.DefaultMatchMinutes,
		H2HUpperThreshold:   cfg.Model.H2HUpperThreshold,
		H2HLowerThreshold:   cfg.Model.H2HLowerThreshold,
		H2HEdge:             cfg.Model.H2HEdge,
	}, players.NewSurnameContainsResolver(), appLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create estimator: %w", err)
	}

	opts := service.Options{
		ModelConfig: model.Config{
			BaselineServe:       cfg.Model.BaselineServe,
			BaselineReturn:      1 - cfg.Model.BaselineServe,
			FatigueThresholdMin: cfg.Model.FatigueThresholdMinutes,
			FatiguePenalty:      cfg.Model.FatiguePenalty,
			ClampMin:            cfg.Model.ClampMin,
			ClampMax:            cfg.Model.ClampMax,
		},
		SimConfig: simulator.Config{
			Iterations: cfg.Simulation.Iterations,
			Workers:    cfg.Simulation.Workers,
			Seed:       cfg.Simulation.Seed,
		},
		ScanDays:    cfg.Schedule.ScanDays,
		Concurrency: cfg.Simulation.Workers,
	}

	validatorLog := stdlog.New(os.Stdout, "validator: ", stdlog.LstdFlags)
	return service.NewPredictionService(
		archive,
		schedule,
		estimator,
		service.NewMatchValidator(validatorLog),
		repo,
		histRepo,
		opts,
		appLog,
	)
}

func exportResult(cfg *config.Config, audit *logger.AuditLogger, result *service.RunResult) error {
	if len(result.Predictions) == 0 {
		return nil
	}

	runExport := export.RunExport{
		RunID:        result.RunID,
		GeneratedAt:  time.Now().UTC(),
		AsOf:         result.AsOf,
		HistoryRows:  result.HistoryRows,
		RejectedRows: result.RejectedRows,
		Skipped:      result.Skipped,
		Predictions:  result.Predictions,
	}

	stamp := result.AsOf.Format("2006-01-02")
	for _, format := range cfg.Export.Formats {
		switch format {
		case "json":
			path := filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("predictions_%s.json", stamp))
			if err := export.ToJSON(runExport, path); err != nil {
				return fmt.Errorf("failed to write JSON export: %w", err)
			}
			audit.LogExportWritten(result.RunID.String(), "json", path, len(result.Predictions))
		case "csv":
			path := filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("predictions_%s.csv", stamp))
			if err := export.ToCSV(runExport, path); err != nil {
				return fmt.Errorf("failed to write CSV export: %w", err)
			}
			audit.LogExportWritten(result.RunID.String(), "csv", path, len(result.Predictions))
		}
	}
	return nil
}
