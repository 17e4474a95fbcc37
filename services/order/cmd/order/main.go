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

	ordercfg "github.com/digitalloot/storefront/services/order/internal/config"
	"github.com/digitalloot/storefront/services/order/internal/httpserver"
	"github.com/digitalloot/storefront/services/order/internal/idempotency"
	"github.com/digitalloot/storefront/services/order/internal/repo"
	"github.com/digitalloot/storefront/services/order/internal/service"
)

func main() {
	cfg := ordercfg.Load()

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

	cleanup := []func(){func() { _ = pkgdb.Close(db) }}

	var idem idempotency.Store = idempotency.NewMemory(cfg.IdempotencyTTL)
	if cfg.RedisAddr != "" {
		rdb := idempotency.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		rdb.TTL = cfg.IdempotencyTTL
		if err := rdb.Ping(ctx); err != nil {
			logger.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		}
		idem = rdb
		cleanup = append(cleanup, func() { _ = rdb.Close() })
	}
	cancel()

	publisher := events.NewPublisher(cfg.KafkaBrokers)
	cleanup = append([]func(){func() { _ = publisher.Close() }}, cleanup...)

	svc := &service.OrderService{Repo: rp, Publisher: publisher, Idempotency: idem}

	e := server.New(cfg.Config, logger)
	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: svc},
		JWTSecret:    cfg.JWTAccessSecret,
		AuthClient:   authclient.NewClient(cfg.AuthHTTPURL),
		RateLimit:    cfg.RateLimit,
		Ready:        rp.Ping,
	})

	server.Run(e, cfg.Addr(), cfg.ShutdownTimeout, logger, cleanup...)
}
