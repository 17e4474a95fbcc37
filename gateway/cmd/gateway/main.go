package main

import (
	"log"
	"log/slog"

	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/middleware/csrf"
	"github.com/digitalloot/storefront/pkg/server"

	"github.com/digitalloot/storefront/gateway/internal/config"
	"github.com/digitalloot/storefront/gateway/internal/httpserver"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	deps := &httpserver.Deps{
		AuthURL:    cfg.AuthHTTPURL,
		CatalogURL: cfg.CatalogURL,
		OrderURL:   cfg.OrderURL,
		AdminURL:   cfg.AdminURL,
		RateLimit:  cfg.RateLimit,
	}
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.CSRFSecure
		c.SkipPaths = httpserver.CSRFSkipPaths
		deps.CSRF = &c
	}

	e := server.New(cfg.Config, logger)
	if err := httpserver.Register(e, deps); err != nil {
		log.Fatal(err)
	}

	server.Run(e, cfg.Addr(), cfg.ShutdownTimeout, logger)
}
