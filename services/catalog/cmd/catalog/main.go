package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/digitalloot/storefront/pkg/authclient"
	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/server"

	catalogcfg "github.com/digitalloot/storefront/services/catalog/internal/config"
	"github.com/digitalloot/storefront/services/catalog/internal/httpserver"
	"github.com/digitalloot/storefront/services/catalog/internal/repo"
	"github.com/digitalloot/storefront/services/catalog/internal/search"
	"github.com/digitalloot/storefront/services/catalog/internal/service"
)

func main() {
	cfg := catalogcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, pkgdb.Options{DSN: cfg.DatabaseURL, Driver: cfg.DatabaseDriver, Logger: logger})
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	rp := &repo.GormRepo{DB: db}
	if err := rp.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}

	svc := &service.CatalogService{
		Repo:          rp,
		StorageBase:   cfg.StorageBaseURL,
		FeaturedLimit: cfg.FeaturedLimit,
	}
	if cfg.Search.URL != "" {
		ix, err := search.NewIndex(ctx, cfg.Search)
		if err != nil {
			logger.Warn("search_index_unavailable", "error", err)
		} else {
			svc.Search = ix
		}
	}
	cancel()

	publisher := events.NewPublisher(cfg.KafkaBrokers)
	svc.Publisher = publisher

	e := server.New(cfg.Config, logger)
	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		JWTSecret:      cfg.JWTAccessSecret,
		AuthClient:     authclient.NewClient(cfg.AuthHTTPURL),
		Ready:          rp.Ping,
	})

	server.Run(e, cfg.Addr(), cfg.ShutdownTimeout, logger,
		func() { _ = publisher.Close() },
		func() { _ = pkgdb.Close(db) },
	)
}
