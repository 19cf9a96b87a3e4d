package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/searchsync/internal/config"
	dbRedis "github.com/kailas-cloud/searchsync/internal/db/redis"
	"github.com/kailas-cloud/searchsync/internal/metrics"
	"github.com/kailas-cloud/searchsync/internal/projector"
	"github.com/kailas-cloud/searchsync/internal/repository/cms"
	"github.com/kailas-cloud/searchsync/internal/repository/index"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

const dialTimeout = 5 * time.Second

// app holds the wired dependencies shared by every command.
type app struct {
	store   *dbRedis.Store
	index   *index.InstrumentedClient
	cms     *cms.Client
	catalog *publish.Catalog
}

// newApp is the composition root: store -> rate-limited index repo -> instrumented client,
// CMS client, projector registry and catalog.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       cfg.Index.Addrs,
		Username:    cfg.Index.Username,
		Password:    cfg.Index.Password,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create index store: %w", err)
	}

	readiness := time.Duration(cfg.Index.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("index store not ready: %w", err)
	}
	logger.Info("Connected to index store", zap.Strings("addrs", cfg.Index.Addrs))

	metrics.Register()

	repo := index.New(store, index.Config{
		KeyPrefix:   cfg.Index.KeyPrefix,
		PageSize:    cfg.Index.BrowsePageSize,
		CallTimeout: cfg.CallTimeout(),
		Limiter:     rate.NewLimiter(rate.Limit(cfg.Index.RatePerSec), cfg.Index.Burst),
	})

	records := cms.New(cms.Config{
		URL:     cfg.CMS.URL,
		Token:   cfg.CMS.Token,
		Timeout: time.Duration(cfg.CMS.TimeoutSec) * time.Second,
	}, logger)

	registry := projector.NewRegistry(projector.Options{AssetsURL: cfg.CMS.AssetsURL})

	return &app{
		store:   store,
		index:   index.NewInstrumentedClient(repo, logger),
		cms:     records,
		catalog: publish.NewCatalog(registry, cfg.IndexNames()),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
}
