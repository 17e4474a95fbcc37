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

	admincfg "github.com/digitalloot/storefront/services/admin/internal/config"
	"github.com/digitalloot/storefront/services/admin/internal/httpserver"
	"github.com/digitalloot/storefront/services/admin/internal/live"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
	"github.com/digitalloot/storefront/services/admin/internal/service"
)

func main() {
	cfg := admincfg.Load()

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
	hub := live.NewHub(cfg.CORSOrigins)

	cleanup := []func(){
		func() { _ = publisher.Close() },
		hub.Close,
		func() { _ = pkgdb.Close(db) },
	}

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(cfg.KafkaBrokers, events.TopicOrders, cfg.LiveGroupID)
		liveCtx, stopLive := context.WithCancel(logging.IntoContext(context.Background(), logger))
		go func() {
			if err := consumer.Run(liveCtx, hub.HandleMessage); err != nil {
				logger.Error("live_consumer_stopped", "error", err)
			}
		}()
		cleanup = append([]func(){stopLive, func() { _ = consumer.Close() }}, cleanup...)
	} else {
		logger.Warn("live_feed_disabled", "reason", "KAFKA_BROKERS not set")
	}

	orders := &service.OrderAdmin{Repo: rp, Publisher: publisher}

	e := server.New(cfg.Config, logger)
	httpserver.Register(e, &httpserver.Deps{
		Orders:     &httpserver.OrdersHTTP{Svc: orders, Location: cfg.ExportLocation},
		Users:      &httpserver.UsersHTTP{Svc: &service.UserAdmin{Repo: rp, Publisher: publisher}, Orders: orders},
		Contact:    &httpserver.ContactHTTP{Svc: &service.ContactService{Repo: rp}},
		Hub:        hub,
		JWTSecret:  cfg.JWTAccessSecret,
		AuthClient: authclient.NewClient(cfg.AuthHTTPURL),
		RateLimit:  cfg.RateLimit,
		Ready:      rp.Ping,
	})

	server.Run(e, cfg.Addr(), cfg.ShutdownTimeout, logger, cleanup...)
}
