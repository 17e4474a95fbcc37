package httpserver

import (
	"context"

	"github.com/labstack/echo/v4"

	middleware "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/pkg/server"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
	AuthClient   middleware.Refresher
	RateLimit    float64
	Ready        func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	server.Ready(e, d.Ready)

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder, server.RateLimit(d.RateLimit))
	orders.GET("", d.OrderHandler.MyOrders)
	orders.GET("/stats", d.OrderHandler.MyStats)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)
}
