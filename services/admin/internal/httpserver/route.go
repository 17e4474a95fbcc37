package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/pkg/server"
	"github.com/digitalloot/storefront/services/admin/internal/live"
	"github.com/digitalloot/storefront/services/admin/internal/service"
)

type Deps struct {
	Orders     *OrdersHTTP
	Users      *UsersHTTP
	Contact    *ContactHTTP
	Hub        *live.Hub
	JWTSecret  []byte
	AuthClient middleware.Refresher
	RateLimit  float64
	Ready      func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	server.Ready(e, d.Ready)

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	e.POST("/contact", d.Contact.Submit, server.RateLimit(d.RateLimit))

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.GET("/stats", d.Users.Stats)
	admin.GET("/contact", d.Contact.List)
	if d.Hub != nil {
		admin.GET("/live", d.Hub.ServeWS)
	}

	orders := admin.Group("/orders")
	orders.GET("", d.Orders.List)
	orders.GET("/stats", d.Orders.Stats)
	orders.GET("/export.csv", d.Orders.ExportCSV)
	orders.GET("/export.xlsx", d.Orders.ExportXLSX)
	orders.GET("/:id", d.Orders.Get)
	orders.PUT("/:id/status", d.Orders.ChangeStatus)
	orders.POST("/:id/next", d.Orders.Next)
	orders.DELETE("/:id", d.Orders.Delete)

	users := admin.Group("/users")
	users.GET("", d.Users.List)
	users.GET("/admins", d.Users.Admins)
	users.GET("/:id", d.Users.Get)
	users.POST("/promote", d.Users.Promote)
	users.POST("/demote", d.Users.Demote)
}

type logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func fail(l logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "error", err)
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
