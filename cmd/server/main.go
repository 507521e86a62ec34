package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/alfieprojectsdev/homebase/internal/app"
	"github.com/alfieprojectsdev/homebase/internal/domain/notify"
	"github.com/alfieprojectsdev/homebase/internal/infra/config"
	idb "github.com/alfieprojectsdev/homebase/internal/infra/database"
	"github.com/alfieprojectsdev/homebase/internal/infra/httpapi"
	"github.com/alfieprojectsdev/homebase/internal/infra/logger"
	infranotify "github.com/alfieprojectsdev/homebase/internal/infra/notify"
	"github.com/alfieprojectsdev/homebase/internal/infra/scheduler"
	"github.com/alfieprojectsdev/homebase/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	log.WithFields(map[string]interface{}{
		"environment": cfg.Environment,
		"http_addr":   cfg.HTTPAddr,
	}).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	billRepo := idb.NewPostgresBillRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)
	choreRepo := idb.NewPostgresChoreRepository(db)
	logRepo := idb.NewPostgresNotificationLogRepository(db)

	// Notification channel: Telegram when a token is configured, the
	// structured log otherwise.
	var notifier notify.Notifier = infranotify.NewConsoleNotifier(log)
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				log.WithError(err).Error("Telegram bot error")
			},
		})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		notifier = telegram.NewNotifier(bot)
		go bot.Start()
		defer bot.Stop()
		log.Info("Telegram reminder channel enabled.")
	}

	// Initialize Services
	billService := app.NewBillService(billRepo, log)
	heuristicsService := app.NewHeuristicsService(billRepo, userRepo, log)
	choreService := app.NewChoreService(choreRepo, log)
	briefingService := app.NewBriefingService(billRepo, userRepo, logRepo, heuristicsService, notifier, log)

	// Initialize Scheduler
	householdScheduler := scheduler.NewHouseholdScheduler(
		billService,
		briefingService,
		log,
		cfg.CronSpecDailyBriefing,
		cfg.CronSpecOverdueSweep,
		cfg.CronSpecEscalation,
	)
	householdScheduler.Start()

	// HTTP API
	apiServer := httpapi.NewServer(billService, heuristicsService, choreService, briefingService, cfg.CronSecret, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	log.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	householdScheduler.Stop()
	// db.Close() is handled by defer
	log.Info("Application shut down gracefully.")
}
