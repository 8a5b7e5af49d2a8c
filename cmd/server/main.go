package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketlens/internal/adapters/ai"
	"marketlens/internal/adapters/config"
	"marketlens/internal/adapters/errors/noop"
	"marketlens/internal/adapters/errors/sentry"
	"marketlens/internal/adapters/yahoo"
	"marketlens/internal/api/health"
	"marketlens/internal/api/rest"
	"marketlens/internal/metrics"
	"marketlens/internal/services/analysis"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Register()

	// Initialize adapters
	marketData := yahoo.NewClient(cfg.MarketData, log)
	generator := ai.NewClient(cfg.AI, log)

	// Initialize services
	analysisService := analysis.NewService(marketData, generator, log)

	// Initialize HTTP surface
	healthHandler := health.New(log, cfg.App.Name, version,
		health.CheckFunc{CheckName: "market_data", Fn: marketData.Ping},
		health.CheckFunc{CheckName: "ai", Fn: func(context.Context) error {
			if cfg.AI.APIKey == "" {
				return errors.Wrap(errors.ErrInvalidInput, "OPENAI_API_KEY not configured")
			}
			return nil
		}},
	)
	router := rest.NewRouter(rest.RouterConfig{
		ServiceName: cfg.App.Name,
		Version:     version,
		CORSOrigin:  cfg.Server.CORSOrigin,
		Environment: cfg.App.Env,
	}, analysisService, healthHandler, log)

	server := rest.NewServer(cfg.Server.Port, router, log)

	log.Info("System initialized successfully")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	waitForShutdown(cfg, server, errorTracker, serverErr, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// waitForShutdown waits for a signal or server failure and drains gracefully
func waitForShutdown(cfg *config.Config, server *rest.Server, errorTracker errors.Tracker, serverErr <-chan error, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Errorf("HTTP server failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("Graceful shutdown failed: %v", err)
	}

	// Flush error tracker
	if errorTracker != nil {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := errorTracker.Flush(flushCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
