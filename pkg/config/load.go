package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the configuration from the environment. Each envFilePath is
// searched for upwards from the working directory and the first one found is
// loaded into the environment before processing; without paths a .env in the
// working directory is tried.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"addr", cfg.Server.Addr(),
		"db", maskValue(cfg.DB.Url),
		"event_bus", eventBusKind(cfg.Redis),
		"cache_ttl", cfg.Cache.TTL,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"balance_default_batch_size", cfg.Balance.DefaultBatchSize,
		"balance_max_workers", cfg.Balance.MaxWorkers,
		"smtp_host", cfg.SMTP.Host,
		"smtp_password", maskValue(cfg.SMTP.Password),
	)
	return &cfg, nil
}

func (c *App) validate() error {
	if c.Balance.DefaultBatchSize < 1 {
		return fmt.Errorf("BALANCE_DEFAULT_BATCH_SIZE must be positive, got %d", c.Balance.DefaultBatchSize)
	}
	if c.Balance.MaxBatchSize < c.Balance.DefaultBatchSize {
		return fmt.Errorf(
			"BALANCE_MAX_BATCH_SIZE (%d) must not be below BALANCE_DEFAULT_BATCH_SIZE (%d)",
			c.Balance.MaxBatchSize, c.Balance.DefaultBatchSize,
		)
	}
	if c.Balance.MaxWorkers < 0 {
		return fmt.Errorf("BALANCE_MAX_WORKERS must not be negative, got %d", c.Balance.MaxWorkers)
	}
	return nil
}

func eventBusKind(r *Redis) string {
	if r.URL == "" {
		return "memory"
	}
	return "redis"
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
