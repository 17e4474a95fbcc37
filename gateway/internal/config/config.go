package config

import (
	"github.com/digitalloot/storefront/pkg/config"
)

type Config struct {
	config.Config

	CatalogURL string
	OrderURL   string
	AdminURL   string

	CSRFEnabled bool
	CSRFSecure  bool
}

func Load() Config {
	cfg := config.Load(".env", "gateway/.env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "gateway"
	}

	gw := Config{
		Config:     cfg,
		CatalogURL: config.EnvDefault("CATALOG_URL", ""),
		OrderURL:   config.EnvDefault("ORDER_URL", ""),
		AdminURL:   config.EnvDefault("ADMIN_URL", ""),

		CSRFEnabled: config.EnvBoolDefault("CSRF_ENABLED", true),
		CSRFSecure:  config.EnvBoolDefault("CSRF_SECURE", false),
	}

	config.MustURL(gw.AuthHTTPURL, "AUTH_URL")
	config.MustURL(gw.CatalogURL, "CATALOG_URL")
	config.MustURL(gw.OrderURL, "ORDER_URL")
	config.MustURL(gw.AdminURL, "ADMIN_URL")
	return gw
}
