package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"heartrisk/config"
	qhttp "heartrisk/http"
	"heartrisk/logging"
	"heartrisk/ml"
	"heartrisk/monitoring"
	"heartrisk/predictor"
)

func main() {
	// 1. Load config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// 2. Load the model once; it stays read-only for the process lifetime
	metrics := monitoring.NewMetrics("heartrisk")
	pred, watcher := loadPredictor(cfg, logger, metrics)
	if watcher != nil {
		defer watcher.Close()
	}

	// 3. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:         cfg.Http.Port,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
	}, &qhttp.App{
		Predictor: pred,
		Metrics:   metrics,
		Logger:    logger,
		ModelPath: cfg.Model.Path,
	})
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Exiting")
}

// loadPredictor never fails: without a model the predictor refuses every
// request and the UI reports the missing artifact.
func loadPredictor(cfg *config.Config, logger *zap.Logger, metrics *monitoring.Metrics) (*predictor.Predictor, *ml.ArtifactWatcher) {
	pipeline, err := ml.LoadModel(cfg.Model.Type, cfg.Model.Path)
	if err != nil {
		logger.Error("Model file not found or unreadable; predictions are disabled",
			zap.String("path", cfg.Model.Path),
			zap.Error(err),
		)
		metrics.SetModelAvailable(false)
		return predictor.NewUnavailable(err, predictor.WithObserver(metrics)), nil
	}

	classifier, err := ml.NewCachedClassifier(pipeline, cfg.Model.CacheSize)
	if err != nil {
		logger.Error("Failed to build prediction cache; predictions are disabled", zap.Error(err))
		metrics.SetModelAvailable(false)
		return predictor.NewUnavailable(err, predictor.WithObserver(metrics)), nil
	}
	logger.Info("Model loaded",
		zap.String("path", cfg.Model.Path),
		zap.String("estimator", pipeline.Estimator()),
		zap.Int("cache_size", cfg.Model.CacheSize),
	)
	metrics.SetModelAvailable(true)

	var watcher *ml.ArtifactWatcher
	if cfg.Model.Watch {
		watcher, err = ml.WatchArtifact(cfg.Model.Path, logger)
		if err != nil {
			logger.Warn("Model artifact watcher disabled", zap.Error(err))
			watcher = nil
		}
	}
	return predictor.New(classifier, predictor.WithObserver(metrics)), watcher
}
