package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	apprecurring "github.com/walletly/backend/internal/application/recurring"
	"github.com/walletly/backend/internal/domain/shared"
	"github.com/walletly/backend/internal/infrastructure/config"
	"github.com/walletly/backend/internal/infrastructure/logger"
	"github.com/walletly/backend/internal/infrastructure/persistence"
	"github.com/walletly/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Walletly worker",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	paymentRepo := persistence.NewGormInstallmentPaymentRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	clock := shared.SystemClock{}
	subscriptionService := apprecurring.NewSubscriptionService(
		scope, subscriptionRepo, walletRepo, categoryRepo, clock,
	)
	dueScanService := apprecurring.NewDueScanService(
		subscriptionRepo, paymentRepo, subscriptionService, clock, log,
	)
	sweepService := apprecurring.NewOverdueSweepService(paymentRepo, clock, log)

	// Initialize and start the recurring scheduler
	schedulerConfig := scheduler.RecurringSchedulerConfig{
		Enabled:       cfg.Scheduler.Enabled,
		ProcessHour:   cfg.Scheduler.ProcessHour,
		SweepHour:     cfg.Scheduler.SweepHour,
		CheckInterval: cfg.Scheduler.CheckInterval,
		JobTimeout:    cfg.Scheduler.JobTimeout,
	}
	recurringScheduler := scheduler.NewRecurringScheduler(schedulerConfig, dueScanService, sweepService, log)
	if err := recurringScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start recurring scheduler", zap.Error(err))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down worker...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := recurringScheduler.Stop(ctx); err != nil {
		log.Error("Error stopping recurring scheduler", zap.Error(err))
	}

	log.Info("Worker exited gracefully")
}
