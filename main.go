package main

import (
	"context"
	"errors"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"scalpSignals/config"
	"scalpSignals/internal/adapters/binancefeed"
	"scalpSignals/internal/adapters/logger"
	"scalpSignals/internal/adapters/sqlite"
	"scalpSignals/internal/adapters/telegram"
	"scalpSignals/internal/app"
	"scalpSignals/internal/outcome"
	"scalpSignals/internal/ports"
	"scalpSignals/internal/signal"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Price Feed (Binance Adapter)
	feed, err := binancefeed.New(binancefeed.Config{
		APIKey:      cfg.APIKey,
		SecretKey:   cfg.SecretKey,
		UseTestnet:  cfg.IsTestnet,
		Logger:      appLogger,
		MaxAttempts: cfg.MaxFetchAttempts,
		RetryMin:    cfg.RetryMinDelay,
		RetryMax:    cfg.RetryMaxDelay,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance feed")
		log.Fatalf("FATAL: Failed to initialize Binance feed: %v", err)
	}
	appLogger.Info(context.Background(), "Binance feed initialized")

	// 5. Initialize Notifier (optional)
	var notifier ports.Notifier
	if cfg.TelegramEnabled() {
		tgNotifier, err := telegram.New(telegram.Config{
			Token:  cfg.TelegramToken,
			ChatID: cfg.TelegramChatID,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Telegram notifier")
			log.Fatalf("FATAL: Failed to initialize Telegram notifier: %v", err)
		}
		notifier = tgNotifier
		appLogger.Info(context.Background(), "Telegram notifier initialized")
	} else {
		appLogger.Info(context.Background(), "Telegram notifier not configured, suggestions stay local")
	}

	// 6. Initialize Outcome Tracker
	tracker, err := outcome.New(outcome.Config{
		Logger:     appLogger,
		Repository: repo,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize outcome tracker")
		log.Fatalf("FATAL: Failed to initialize outcome tracker: %v", err)
	}

	// 7. Initialize Signal Generator
	generator, err := signal.New(signal.Config{
		Logger:      appLogger,
		SuccessRate: tracker.SuccessRate,
		Risk:        &cfg.Risk,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal generator")
		log.Fatalf("FATAL: Failed to initialize signal generator: %v", err)
	}

	// 8. Initialize Application Engine
	engine, err := app.NewEngine(cfg, appLogger, feed, generator, tracker, repo, notifier)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize engine")
		log.Fatalf("FATAL: Failed to initialize engine: %v", err)
	}
	appLogger.Info(context.Background(), "Engine initialized")

	// 9. Start the Engine
	if err := engine.Start(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error(context.Background(), err, "Engine exited with error")
		log.Fatalf("FATAL: Engine exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
