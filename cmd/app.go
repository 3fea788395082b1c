package cmd

import (
	"context"
	"fmt"

	"lecture-manager/internal/api/router"
	"lecture-manager/internal/config"
	"lecture-manager/internal/infrastructure/cache"
	"lecture-manager/internal/infrastructure/database"
	"lecture-manager/internal/infrastructure/repository"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
	"lecture-manager/internal/service"
	"lecture-manager/pkg/logger"

	"gorm.io/gorm"
)

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.Username,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogSQL:          cfg.Database.LogSQL,
	}
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(databaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// openStore returns the repositories for the configured driver. With
// migrate set, pending Postgres migrations are applied first.
func openStore(ctx context.Context, cfg *config.Config, migrate bool) (*interfaces.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on exit")
		return repository.NewMemoryStore(cfg.Database.LockTimeout), nil
	case "", "postgres":
		db, err := connectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := database.RunMigrations(db); err != nil {
				database.Close(db)
				return nil, fmt.Errorf("failed to run database migrations: %w", err)
			}
		}
		if err := database.HealthCheck(ctx, db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("database health check failed: %w", err)
		}
		return repository.NewPostgresStore(db, cfg.Database.LockTimeout)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// application is everything the HTTP server and the seeder run on
type application struct {
	store *interfaces.Store
	cache interfaces.StatsCache
	deps  router.Dependencies
}

func newApplication(ctx context.Context, cfg *config.Config, migrate bool) (*application, error) {
	store, err := openStore(ctx, cfg, migrate)
	if err != nil {
		return nil, err
	}

	statsCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		store.Close()
		return nil, err
	}

	statsService := service.NewStatsService(store.Stats, statsCache, cfg.Cache.StatsTTL)
	registrationService := service.NewRegistrationService(
		store.Students,
		store.Sessions,
		store.Registrations,
		statsService,
		cfg.Database.AcquireTimeout,
	)

	return &application{
		store: store,
		cache: statsCache,
		deps: router.Dependencies{
			Registrations: registrationService,
			Stats:         statsService,
			Students:      service.NewStudentService(store.Students, statsService),
			Catalog:       service.NewCatalogService(store.Lectures, store.Sessions, statsService),
			Ping:          store.Ping,
			Cache:         statsCache,
			Auth:          cfg.Auth,
		},
	}, nil
}

func (a *application) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Warn("Failed to close cache: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close store: %v", err)
	}
}
