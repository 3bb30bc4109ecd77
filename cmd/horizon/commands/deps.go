package commands

import (
	"fmt"

	"github.com/wonny/horizon/backend/internal/engine"
	"github.com/wonny/horizon/backend/internal/engineconfig"
	"github.com/wonny/horizon/backend/internal/store"
	"github.com/wonny/horizon/backend/pkg/config"
	"github.com/wonny/horizon/backend/pkg/database"
	"github.com/wonny/horizon/backend/pkg/logger"
	"github.com/wonny/horizon/backend/pkg/redis"
)

// deps bundles the shared wiring of every command: config, logging,
// storage, the strategy SSOT, and one engine instance built from it.
type deps struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *database.DB
	redis      *redis.Client
	cache      *redis.Cache
	strategy   *engineconfig.Config
	configHash string
	engine     *engine.Engine

	obsRepo      *store.ObservationRepository
	runRepo      *store.RunRepository
	forecastRepo *store.ForecastRepository
}

// initDeps loads config, connects storage, and builds the engine from the
// strategy YAML. Every command funnels through here.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	path := cfg.Forecast.StrategyFile
	if strategyFile != "" {
		path = strategyFile
	}

	strategy, _, err := engineconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}

	hash, err := engineconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}

	eng, err := engine.New(strategy.EngineConfig(), log.Zerolog())
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"strategy":    strategy.Meta.StrategyID,
		"config_hash": hash[:12],
		"dataset":     strategy.Data.Dataset,
	}).Info("Dependencies initialized")

	return &deps{
		cfg:          cfg,
		log:          log,
		db:           db,
		redis:        redisClient,
		cache:        redis.NewCache(redisClient, "horizon"),
		strategy:     strategy,
		configHash:   hash,
		engine:       eng,
		obsRepo:      store.NewObservationRepository(db.Pool),
		runRepo:      store.NewRunRepository(db.Pool),
		forecastRepo: store.NewForecastRepository(db.Pool),
	}, nil
}

// close releases storage connections.
func (d *deps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}
