package config

import (
	"time"

	"github.com/digitalloot/storefront/pkg/config"
)

type ServiceConfig struct {
	config.Config

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func Load() ServiceConfig {
	cfg := config.Load(".env", "services/auth/.env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "auth"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	return ServiceConfig{
		Config:     cfg,
		AccessTTL:  config.EnvDurationDefault("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL: config.EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	}
}
