package initializer

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/accounts/infra"
	infra_cache "github.com/amirasaad/accounts/infra/cache"
	infra_eventbus "github.com/amirasaad/accounts/infra/eventbus"
	infra_notification "github.com/amirasaad/accounts/infra/notification"
	infra_account "github.com/amirasaad/accounts/infra/repository/account"
	"github.com/amirasaad/accounts/pkg/app"
	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/decorator"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/eventbus"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	logger := SetupLogger(os.Stdout, cfg.Log)
	built := &app.Deps{Logger: logger}
	// deps is nil on the error paths, so release through built
	defer func() {
		if err != nil {
			releaseAll(built.Closers, logger)
		}
	}()
	deps = built

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	deps.Closers = append(deps.Closers, sqlDB)
	deps.Repository = infra_account.New(db)

	bus, closer, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.EventBus = bus
	deps.Closers = append(deps.Closers, closer)

	accountCache, closer, err := initCache(cfg, logger)
	if err != nil {
		return nil, err
	}
	if accountCache != nil {
		deps.Closers = append(deps.Closers, closer)
		deps.Repository = decorator.NewCachedRepository(deps.Repository, accountCache, cfg.Cache.TTL, logger)
	}

	deps.Notifier = infra_notification.New(cfg.SMTP, logger)
	return deps, nil
}

// initCache returns the account read cache, backed by Redis when a Redis URL
// is configured. A nil cache means caching is disabled.
func initCache(cfg *config.App, logger *slog.Logger) (cache.AccountCache, io.Closer, error) {
	if cfg.Cache == nil || cfg.Cache.TTL <= 0 {
		return nil, nil, nil
	}
	if cfg.Redis != nil && cfg.Redis.URL != "" {
		client, err := infra.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Redis cache: %w", err)
		}
		redisCache := infra_cache.NewRedisCache(client, cfg.Redis.KeyPrefix, logger)
		return redisCache, redisCache, nil
	}
	memoryCache := infra_cache.NewMemoryCache()
	return memoryCache, memoryCache, nil
}

type closableBus interface {
	eventbus.Bus
	io.Closer
}

// initEventBus returns the Redis Streams bus when a Redis URL is configured
// and the asynchronous in-memory bus otherwise.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, io.Closer, error) {
	var bus closableBus
	if cfg.Redis != nil && cfg.Redis.URL != "" {
		redisBus, err := infra_eventbus.NewWithRedis(cfg.Redis, events.EventTypes, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
		bus = redisBus
	} else {
		bus = infra_eventbus.NewWithMemoryAsync(logger, 100)
	}
	return bus, bus, nil
}

func releaseAll(closers []io.Closer, logger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("failed to release dependency", "error", err)
		}
	}
}
