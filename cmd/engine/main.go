package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-prediction-service/internal/accuracy"
	"github.com/couchcryptid/weather-prediction-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weather-prediction-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-prediction-service/internal/adapter/store"
	"github.com/couchcryptid/weather-prediction-service/internal/config"
	"github.com/couchcryptid/weather-prediction-service/internal/engine"
	"github.com/couchcryptid/weather-prediction-service/internal/forecast"
	"github.com/couchcryptid/weather-prediction-service/internal/observability"
	"github.com/couchcryptid/weather-prediction-service/internal/scheduler"
	"github.com/couchcryptid/weather-prediction-service/internal/warning"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Event publishing is feature-flagged; without Kafka, warnings and
	// alerts are logged only.
	var publisher engine.EventPublisher
	var closer interface{ Close() error }
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewAlertPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		publisher = p
		closer = p
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	historyStore := store.NewMemory()
	extractor := forecast.NewExtractor(0)
	model := forecast.NewModel(extractor, cfg.Estimators, cfg.Seed, clock, logger)
	confidence := forecast.NewConfidenceEstimator(cfg.LowConfidenceThreshold)
	generator := warning.NewGenerator(cfg.SeverityThresholds, clock)
	tracker := accuracy.NewTracker(cfg.RetentionDays, cfg.AccuracyAlertFloor, cfg.AccuracyAlertMinSamples, clock, logger)

	eng := engine.New(historyStore, model, confidence, generator, tracker, publisher, metrics, clock, logger, engine.Options{
		HistoryWindowDays:  cfg.HistoryWindowDays,
		TrainingWindowDays: cfg.TrainingWindowDays,
		AccuracyWindowDays: cfg.AccuracyWindowDays,
		StaleAfter:         cfg.StaleAfter,
		ForecastTTL:        cfg.UpdateInterval(),
	})

	sched := scheduler.New(eng, cfg.UpdateInterval(), cfg.RetrainInterval, clock, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scheduler.
	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
