package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/server"

	authcfg "github.com/digitalloot/storefront/services/auth/internal/config"
	"github.com/digitalloot/storefront/services/auth/internal/httpserver"
	"github.com/digitalloot/storefront/services/auth/internal/repo"
	"github.com/digitalloot/storefront/services/auth/internal/service"
)

func main() {
	cfg := authcfg.Load()

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
	cancel()

	publisher := events.NewPublisher(cfg.KafkaBrokers)

	authSvc := &service.AuthService{
		Repo:          rp,
		Publisher:     publisher,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	profileSvc := &service.ProfileService{Repo: rp, Publisher: publisher}

	e := server.New(cfg.Config, logger)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		ProfileHandler: &httpserver.ProfileHTTP{Svc: profileSvc},
		JWTSecret:      cfg.JWTAccessSecret,
		RateLimit:      cfg.RateLimit,
		Ready:          rp.Ping,
	})

	server.Run(e, cfg.Addr(), cfg.ShutdownTimeout, logger,
		func() { _ = publisher.Close() },
		func() { _ = pkgdb.Close(db) },
	)
}
