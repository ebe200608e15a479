package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dahby/13-14-relationship-mapping/config"
	"github.com/dahby/13-14-relationship-mapping/internal/store"
)

// Resources bundles the opened food store with the connections backing it.
type Resources struct {
	Foods store.FoodStore
	// Redis is nil when no redis connection is configured.
	Redis *redis.Client

	// Truncate empties the backing store. Nil for drivers that cannot.
	Truncate func(ctx context.Context) error

	closers []func() error
}

// Close releases every connection opened by Open.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// Open connects to the store selected by cfg.StoreDriver, applies migrations
// from migrationsDir for SQL stores, and wraps the store with the redis
// cache when redis is configured.
func Open(ctx context.Context, cfg *config.Config, migrationsDir string) (*Resources, error) {
	res := &Resources{}
	if err := res.openStore(ctx, cfg, migrationsDir); err != nil {
		res.Close()
		return nil, err
	}

	if cfg.RedisEnabled() {
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.Redis = client
		res.closers = append(res.closers, client.Close)
		res.Foods = store.NewCachedStore(res.Foods, client, cfg.CacheTTL)
	}

	slog.Info("food store ready", "driver", cfg.StoreDriver, "cache", res.Redis != nil)
	return res, nil
}

func (r *Resources) openStore(ctx context.Context, cfg *config.Config, migrationsDir string) error {
	switch cfg.StoreDriver {
	case config.StorePostgres, config.StoreSQLite:
		db, err := openGorm(ctx, cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		r.closers = append(r.closers, sqlDB.Close)

		if err := RunMigrations(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		s := store.NewGormStore(db)
		r.Foods = s
		r.Truncate = s.Truncate

	case config.StoreMongo:
		client, db, err := NewMongo(ctx, cfg)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, func() error {
			return client.Disconnect(context.Background())
		})
		s := store.NewMongoStore(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		r.Foods = s
		r.Truncate = s.Truncate

	case config.StoreMemory:
		s := store.NewMemoryStore()
		r.Foods = s
		r.Truncate = func(context.Context) error {
			s.Reset()
			return nil
		}

	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return nil
}

func openGorm(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	if cfg.StoreDriver == config.StoreSQLite {
		return NewSQLite(cfg)
	}
	return NewPostgres(ctx, cfg)
}
