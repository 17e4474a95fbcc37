package config

import (
	"time"

	"github.com/digitalloot/storefront/pkg/config"
)

type ServiceConfig struct {
	config.Config

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	IdempotencyTTL time.Duration
}

func Load() ServiceConfig {
	cfg := config.Load(".env", "services/order/.env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "order"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")

	return ServiceConfig{
		Config:         cfg,
		RedisAddr:      config.EnvDefault("REDIS_ADDR", ""),
		RedisPassword:  config.EnvDefault("REDIS_PASSWORD", ""),
		RedisDB:        config.EnvIntDefault("REDIS_DB", 0),
		IdempotencyTTL: config.EnvDurationDefault("IDEMPOTENCY_TTL", 24*time.Hour),
	}
}
