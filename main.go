// package main provides the entry point of the obsolescence-backend microservice:
// the REST and GraphQL API, the notification dispatcher and the daily alert job.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ortelius/obsolescence-backend/config"
	"github.com/ortelius/obsolescence-backend/database"
	notifications "github.com/ortelius/obsolescence-backend/events/modules/notifications"
	gqlschema "github.com/ortelius/obsolescence-backend/graphql"
	gqldashboard "github.com/ortelius/obsolescence-backend/graphql/modules/dashboard"
	"github.com/ortelius/obsolescence-backend/internal/alerts"
	"github.com/ortelius/obsolescence-backend/internal/api"
	"github.com/ortelius/obsolescence-backend/internal/kafka"
	"github.com/ortelius/obsolescence-backend/internal/metrics"
	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/internal/timeline"
	"github.com/ortelius/obsolescence-backend/restapi"
	"github.com/ortelius/obsolescence-backend/restapi/modules/auth"
	"github.com/ortelius/obsolescence-backend/util"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		util.InitLogger("info").Fatal("Invalid configuration", zap.Error(err))
	}
	logger := util.InitLogger(cfg.Log.Level)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db := database.InitializeDatabase(cfg.Database, logger)
	store := database.NewStore(db)

	// Optional event publishing
	var publisher notify.Publisher
	if cfg.Kafka.Enabled() {
		producer := notifications.NewNotificationProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	dispatcher := notify.NewDispatcher(cfg, store, nil, publisher, logger)
	metricsService := metrics.NewService(store, cfg.Scheduler.Location)

	if cfg.Kafka.Enabled() && cfg.Kafka.RequestTopic != "" {
		if err := kafka.RunEventProcessor(ctx, cfg.Kafka, dispatcher, logger); err != nil {
			logger.Warn("Kafka event processor not started", zap.Error(err))
		}
	}

	// Daily alert job
	job := alerts.NewJob(dispatcher, store, cfg.Alerts.ThresholdMonths, logger)
	scheduler, err := alerts.NewScheduler(cfg.Scheduler, job, logger)
	if err != nil {
		logger.Fatal("Failed to create alert scheduler", zap.Error(err))
	}
	scheduler.Start()

	authenticator, err := auth.NewAuthenticator(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("Failed to create authenticator", zap.Error(err))
	}

	schema, err := gqlschema.CreateSchema(&gqldashboard.Resolvers{
		Metrics:  metricsService,
		Upcoming: dispatcher,
		Location: cfg.Scheduler.Location,
	})
	if err != nil {
		logger.Fatal("Failed to create GraphQL schema", zap.Error(err))
	}

	app := api.NewFiberApp(cfg.Server, restapi.Dependencies{
		Auth:       authenticator,
		Metrics:    metricsService,
		Dispatcher: dispatcher,
		Store:      store,
		Timeline:   timeline.NewRecorder(store, logger),
		AlertJob:   job,
		Schema:     schema,
		Logger:     logger,
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		scheduler.Stop(shutdownCtx)
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start server
	logger.Info("Starting server", zap.String("port", cfg.Server.Port))
	logger.Info("GraphQL endpoint available at /api/v1/graphql")
	if next := scheduler.NextRun(); !next.IsZero() {
		logger.Info("Next alert run", zap.Time("at", next))
	}
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
