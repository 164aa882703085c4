package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/db/instrumented"
	"github.com/kailas-cloud/storefront/internal/db/memory"
	dbQdrant "github.com/kailas-cloud/storefront/internal/db/qdrant"
	dbUpstash "github.com/kailas-cloud/storefront/internal/db/upstash"
	dbValkey "github.com/kailas-cloud/storefront/internal/db/valkey"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
	productrepo "github.com/kailas-cloud/storefront/internal/repository/product"
	seeduc "github.com/kailas-cloud/storefront/internal/usecase/seed"
)

// app is the composition root shared by the server and seed commands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  db.Store
	repo   *productrepo.Repo
}

func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.RegisterIndexMetrics()

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Index.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Index.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("index not ready: %w", err)
	}
	logger.Info("Connected to vector index",
		zap.String("driver", cfg.Index.Driver),
		zap.String("index", cfg.Index.Name),
	)

	return &app{
		env:    env,
		cfg:    cfg,
		logger: logger,
		store:  store,
		repo:   productrepo.New(store, cfg.Index.Name),
	}, nil
}

// openStore builds the configured backend wrapped with index metrics.
func openStore(cfg config.Config, logger *zap.Logger) (db.Store, error) {
	var store db.Store
	switch cfg.Index.Driver {
	case config.DriverUpstash:
		s, err := dbUpstash.NewStore(dbUpstash.Config{
			URL:       cfg.Upstash.URL,
			Token:     cfg.Upstash.Token,
			Namespace: cfg.Upstash.Namespace,
			Timeout:   time.Duration(cfg.Upstash.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		store = s
	case config.DriverValkey, config.DriverRedis:
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:     cfg.Valkey.Addrs,
			Username:  cfg.Valkey.Username,
			Password:  cfg.Valkey.Password,
			DB:        cfg.Valkey.DB,
			KeyPrefix: cfg.Valkey.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		store = s
	case config.DriverQdrant:
		s, err := dbQdrant.NewStore(dbQdrant.Config{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
		})
		if err != nil {
			return nil, err
		}
		store = s
	case config.DriverMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown index driver %q", cfg.Index.Driver)
	}
	return instrumented.New(store, cfg.Index.Driver, logger), nil
}

func (a *app) seeder() *seeduc.Service {
	return seeduc.New(a.repo, a.cfg.Seed.RandomSeed).WithBatchSize(a.cfg.Seed.BatchSize)
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}
