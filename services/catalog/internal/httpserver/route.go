package httpserver

import (
	"context"

	"github.com/labstack/echo/v4"

	middleware "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/pkg/server"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
	AuthClient     middleware.Refresher
	Ready          func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	server.Ready(e, d.Ready)

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	e.GET("/catalog/platforms", d.CatalogHandler.Platforms)

	products := e.Group("/catalog/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/featured", d.CatalogHandler.Featured)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := products.Group("", authMW.RequireAdmin)
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	admin.POST("/:id/toggle-active", d.CatalogHandler.ToggleActive)
	admin.POST("/:id/toggle-featured", d.CatalogHandler.ToggleFeatured)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)
}
