package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	database "github.com/kelana-travel/kelana/app/db"
	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/app/observability/metrics"
	"github.com/kelana-travel/kelana/config"
	"github.com/kelana-travel/kelana/internal/api/auth"
	"github.com/kelana-travel/kelana/internal/api/favorites"
	"github.com/kelana-travel/kelana/internal/api/prefs"
	"github.com/kelana-travel/kelana/internal/api/reviews"
	"github.com/kelana-travel/kelana/internal/api/trips"
	"github.com/kelana-travel/kelana/internal/catalog"
)

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    kv.Store
	Catalog  *catalog.Catalog
	Metrics  *metrics.AppMetrics
	Registry *prometheus.Registry

	Auth      auth.Service
	Favorites favorites.Service
	Trips     trips.Service
	Reviews   reviews.Service
	Prefs     prefs.Service
}

// NewContainer initializes and returns a new dependency container: storage
// backend per config, catalog, metrics, repositories and services.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	appMetrics, registry, err := metrics.Setup(logger)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store = metrics.WrapStore(store, appMetrics)

	cat, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	authRepo := auth.NewRepository(store, logger)
	favoritesRepo := favorites.NewRepository(store, logger)
	tripsRepo := trips.NewRepository(store, logger)
	reviewsRepo := reviews.NewRepository(store, logger)
	prefsRepo := prefs.NewRepository(store, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Catalog:  cat,
		Metrics:  appMetrics,
		Registry: registry,

		Auth:      auth.NewService(authRepo, logger),
		Favorites: favorites.NewService(favoritesRepo, cat, logger),
		Trips:     trips.NewService(tripsRepo, cat, logger),
		Reviews:   reviews.NewService(reviewsRepo, cat, logger),
		Prefs:     prefs.NewService(prefsRepo, cfg.App.DefaultLanguage, logger),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return kv.NewMemory(), nil

	case "file":
		return kv.NewFile(cfg.Storage.File.Path, logger)

	case "postgres":
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, err
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, err
		}
		if !database.WaitForDB(ctx, pool, logger) {
			pool.Close()
			return nil, fmt.Errorf("database not ready")
		}
		return kv.NewPostgres(pool, logger), nil

	case "redis":
		return kv.NewRedis(cfg.Storage.Redis.Addr, cfg.Storage.Redis.DB), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases the storage backend.
func (c *Container) Close() error {
	return c.Store.Close()
}
