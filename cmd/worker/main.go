// Command worker runs the notification dispatch worker: it wires the
// channel adapters, persistence and observability together, serves health
// and metrics endpoints, and reports delivery statistics on a schedule.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"crewdesk/internal/config"
	pgRepo "crewdesk/internal/infra/adapter/persistence/postgres"
	"crewdesk/internal/infra/db"
	workerPkg "crewdesk/internal/infra/worker"
	"crewdesk/internal/observability/logging"
	"crewdesk/internal/repository"
	"crewdesk/internal/usecase/notify"
)

// defaultChannelsConfigPath is used when CHANNELS_CONFIG is not set.
const defaultChannelsConfigPath = "configs/channels.yaml"

func main() {
	logger := initLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("stats_schedule", workerConfig.StatsSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	channelsConfig := loadChannelsConfig(logger)

	notifyService := setupNotifyService(logger, database, channelsConfig, workerConfig)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, notifyService.GetChannelHealth)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := healthServer.Start(groupCtx); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		return runMetricsServer(groupCtx, logger, workerConfig.MetricsPort)
	})

	statsCron := startStatsReporter(logger, pgRepo.NewDeliveryRepo(database), workerConfig, workerMetrics)

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("stats_schedule", workerConfig.StatsSchedule),
		slog.String("timezone", workerConfig.Timezone))

	<-ctx.Done()
	logger.Info("shutdown signal received")
	healthServer.SetReady(false)

	cronCtx := statsCron.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), workerConfig.ShutdownTimeout)
	defer cancel()
	if err := notifyService.Shutdown(shutdownCtx); err != nil {
		logger.Error("notification service shutdown incomplete", slog.Any("error", err))
	}

	if err := group.Wait(); err != nil {
		logger.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// initLogger initializes the process-wide structured logger.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and applies schema migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// loadChannelsConfig loads channel configuration from the YAML file named by
// CHANNELS_CONFIG. A missing or invalid file disables all channels rather
// than aborting startup.
func loadChannelsConfig(logger *slog.Logger) *config.ChannelsConfig {
	path := os.Getenv("CHANNELS_CONFIG")
	if path == "" {
		path = defaultChannelsConfigPath
	}

	cfg, err := config.LoadChannelsConfig(path)
	if err != nil {
		logger.Warn("failed to load channels configuration, all channels disabled",
			slog.String("path", path),
			slog.Any("error", err))
		return &config.ChannelsConfig{}
	}

	logger.Info("channels configuration loaded",
		slog.String("path", path),
		slog.Bool("sms_enabled", cfg.Channels.SMS.Enabled),
		slog.Bool("email_enabled", cfg.Channels.Email.Enabled),
		slog.Bool("in_app_enabled", cfg.InAppEnabled()))
	return cfg
}

// setupNotifyService creates the dispatch service with all its collaborators.
func setupNotifyService(logger *slog.Logger, database *sql.DB, cfg *config.ChannelsConfig, workerConfig *workerPkg.WorkerConfig) notify.Service {
	deliveryRepo := pgRepo.NewDeliveryRepo(database)
	logRepo := pgRepo.NewNotificationLogRepo(database)
	recipientRepo := pgRepo.NewRecipientRepo(database)

	audit := notify.NewAuditLog(logRepo)

	channels := []notify.Channel{
		notify.NewSMSChannel(cfg.SMSTransportConfig(), nil, deliveryRepo, audit),
		notify.NewEmailChannel(cfg.EmailTransportConfig(), nil, deliveryRepo, audit),
		notify.NewInAppChannel(cfg.InAppEnabled(), deliveryRepo, audit),
	}

	notifyService := notify.NewService(channels, recipientRepo, audit, workerConfig.NotifyMaxConcurrent)
	logger.Info("notification service initialized",
		slog.Int("channels", len(channels)),
		slog.Int("max_concurrent", workerConfig.NotifyMaxConcurrent))

	return notifyService
}

// startStatsReporter schedules the periodic delivery stats report.
func startStatsReporter(logger *slog.Logger, deliveries repository.DeliveryRepository, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) *cron.Cron {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", cfg.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.StatsSchedule, func() {
		runStatsReport(logger, deliveries, metrics)
	})
	if err != nil {
		logger.Error("failed to schedule stats report", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	return c
}

// runStatsReport logs the delivered/failed counts over the trailing day.
func runStatsReport(logger *slog.Logger, deliveries repository.DeliveryRepository, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("delivery stats report started")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := deliveries.StatsSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		logger.Error("delivery stats report failed", slog.Any("error", err))
		metrics.RecordReportRun("failure")
		metrics.RecordReportDuration(time.Since(startTime).Seconds())
		return
	}

	metrics.RecordReportRun("success")
	metrics.RecordReportDuration(time.Since(startTime).Seconds())
	metrics.RecordLastSuccess()

	logger.Info("delivery stats report completed",
		slog.Int64("delivered", stats.Delivered),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", time.Since(startTime)))
}
