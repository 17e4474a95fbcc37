package config

import (
	"github.com/digitalloot/storefront/pkg/config"
	"github.com/digitalloot/storefront/services/catalog/internal/search"
)

type ServiceConfig struct {
	config.Config

	StorageBaseURL string
	FeaturedLimit  int
	Search         search.Config
}

func Load() ServiceConfig {
	cfg := config.Load(".env", "services/catalog/.env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	return ServiceConfig{
		Config:         cfg,
		StorageBaseURL: config.EnvDefault("STORAGE_BASE_URL", ""),
		FeaturedLimit:  config.EnvIntDefault("FEATURED_LIMIT", 8),
		Search: search.Config{
			URL:      config.EnvDefault("ES_URL", ""),
			Username: config.EnvDefault("ES_USER", ""),
			Password: config.EnvDefault("ES_PASSWORD", ""),
			Index:    config.EnvDefault("ES_INDEX", search.DefaultIndex),
		},
	}
}
