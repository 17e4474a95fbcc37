package config

import (
	"log"
	"time"

	"github.com/digitalloot/storefront/pkg/config"
)

type ServiceConfig struct {
	config.Config

	// ExportLocation is the zone used for dates in order exports.
	ExportLocation *time.Location
	LiveGroupID    string
}

func Load() ServiceConfig {
	cfg := config.Load(".env", "services/admin/.env")
	if cfg.ServiceName == "" {
		cfg.ServiceName = "admin"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustURL(cfg.AuthHTTPURL, "AUTH_URL")

	tz := config.EnvDefault("EXPORT_TZ", "America/Lima")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("EXPORT_TZ %q: %v", tz, err)
	}

	return ServiceConfig{
		Config:         cfg,
		ExportLocation: loc,
		LiveGroupID:    config.EnvDefault("LIVE_GROUP_ID", "admin-live"),
	}
}
