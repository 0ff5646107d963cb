package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/config"
	"github.com/ganttplan/ganttplan-backend/internal/bootstrap"
	"github.com/ganttplan/ganttplan-backend/internal/holidays/repository"
	"github.com/ganttplan/ganttplan-backend/internal/logging"
	"github.com/ganttplan/ganttplan-backend/internal/storage/postgres"
)

// env holds the connections a worker command needs.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *sql.DB
	redis *redis.Client
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, holiday cache will not be invalidated", zap.Error(err))
	}
	return &env{cfg: cfg, log: log, db: db, redis: rdb}, nil
}

// holidayStore writes through the cache when Redis is reachable so that
// running API instances do not serve stale years.
func (e *env) holidayStore() repository.Store {
	var store repository.Store = repository.NewHolidayRepository(e.db)
	if e.redis != nil {
		store = repository.NewCachedStore(store, e.redis, e.cfg.Redis.CacheTTL)
	}
	return store
}

func (e *env) Close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
	_ = e.db.Close()
	_ = e.log.Sync()
}
