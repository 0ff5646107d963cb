package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/config"
	"github.com/ganttplan/ganttplan-backend/internal/auth"
	"github.com/ganttplan/ganttplan-backend/internal/bootstrap"
	"github.com/ganttplan/ganttplan-backend/internal/calendar"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/repository"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/seed"
	holidaysvc "github.com/ganttplan/ganttplan-backend/internal/holidays/service"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	pool, err := bootstrap.OpenDB(ctx, cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		return err
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, holiday cache disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var store repository.Store = repository.NewHolidayRepository(sqlDB)
	if rdb != nil {
		store = repository.NewCachedStore(store, rdb, cfg.Redis.CacheTTL)
	}
	holidays := holidaysvc.NewHolidayService(store, cfg.Calendar.MaxGapDays,
		calendar.WithMaxEstimateDays(cfg.Calendar.MaxEstimateDays))

	if cfg.Calendar.AutoSeed {
		sched := seed.NewScheduler(seed.NewSeeder(store), cfg.Calendar.DefaultCountry, logger)
		if err := sched.RunOnce(ctx); err != nil {
			logger.Warn("initial holiday seeding failed", zap.Error(err))
		}
		if err := sched.Start(cfg.Calendar.SeedCron); err != nil {
			return err
		}
		defer sched.Stop()
	}

	deps := bootstrap.RouterDeps{
		Config:   cfg,
		Logger:   logger,
		DB:       pool,
		SQL:      sqlDB,
		Redis:    rdb,
		Holidays: holidays,
	}
	if cfg.Auth.Provider == "firebase" {
		client, err := auth.InitializeFirebase(ctx, cfg.Auth.FirebaseCredentialsPath)
		if err != nil {
			return err
		}
		deps.Firebase = client
	}

	router, err := bootstrap.BuildRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
