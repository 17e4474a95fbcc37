package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/middleware/csrf"
	"github.com/digitalloot/storefront/pkg/server"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	OrderURL   string
	AdminURL   string

	// RateLimit applies to the whole /api/v1 surface. Zero disables it.
	RateLimit float64
	// CSRF protects cookie sessions when set.
	CSRF *csrf.Config
}

// CSRFSkipPaths are the endpoints reachable before a session exists.
var CSRFSkipPaths = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/auth/logout",
	"/api/v1/contact",
}

// Register mounts the upstream services under /api/v1. Authentication is
// left to the services, which refresh expired sessions themselves.
func Register(e *echo.Echo, d *Deps) error {
	server.Ready(e, nil)

	authProxy, err := newProxy(d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}
	catalogProxy, err := newProxy(d.CatalogURL, "/api/v1")
	if err != nil {
		return err
	}
	orderProxy, err := newProxy(d.OrderURL, "/api/v1")
	if err != nil {
		return err
	}
	adminProxy, err := newProxy(d.AdminURL, "/api/v1")
	if err != nil {
		return err
	}

	api := e.Group("/api/v1", server.RateLimit(d.RateLimit))
	if d.CSRF != nil {
		api.Use(csrf.Middleware(*d.CSRF))
	}
	api.Any("/auth/*", authProxy)
	api.Any("/catalog/*", catalogProxy)
	api.Any("/orders", orderProxy)
	api.Any("/orders/*", orderProxy)
	api.Any("/admin/*", adminProxy)
	api.POST("/contact", adminProxy)

	return nil
}
