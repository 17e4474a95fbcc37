package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/services/catalog/internal/models"
	"github.com/digitalloot/storefront/services/catalog/internal/repo"
	"github.com/digitalloot/storefront/services/catalog/internal/service"
	"github.com/digitalloot/storefront/services/catalog/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, product)
}

// GetProducts lists active products. Query params: plataforma (or platform),
// category, featured, q, sort, page, size.
func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, offset, limit := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)

	platform := c.QueryParam("plataforma")
	if platform == "" {
		platform = c.QueryParam("platform")
	}
	featured, _ := strconv.ParseBool(c.QueryParam("featured"))

	total, items, err := h.Svc.ListProducts(ctx, repo.Filter{
		Platform:     platform,
		Category:     c.QueryParam("category"),
		FeaturedOnly: featured,
		Query:        c.QueryParam("q"),
		Sort:         c.QueryParam("sort"),
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return fail(l, "get_products_failed", err)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, pagination.Page[models.Product]{
		Data: items,
		Meta: pagination.NewMeta(page, limit, total),
	})
}

func (h *CatalogHTTP) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.featured")

	items, err := h.Svc.Featured(ctx)
	if err != nil {
		return fail(l, "get_featured_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Platforms(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.platforms")

	platforms, err := h.Svc.Platforms(ctx)
	if err != nil {
		return fail(l, "get_platforms_failed", err)
	}
	return c.JSON(http.StatusOK, platforms)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, offset, limit := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products_failed", err)
	}

	return c.JSON(http.StatusOK, pagination.Page[models.Product]{
		Data: items,
		Meta: pagination.NewMeta(page, limit, total),
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.Svc.CreateProduct(ctx, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Platform:    req.Platform,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
		Featured:    req.Featured,
	})
	if err != nil {
		return fail(l, "product_create_failed", err)
	}

	l.Info("product_create_success", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := productID(c)
	if err != nil {
		l.Warn("product_patch_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_patch_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prod, err := h.Svc.PatchProduct(ctx, id, service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Platform:    req.Platform,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
		Featured:    req.Featured,
	})
	if err != nil {
		return fail(l, "product_patch_failed", err)
	}

	l.Info("product_patch_success", "product_id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) ToggleActive(c echo.Context) error {
	return h.toggle(c, "product.toggle_active", h.Svc.ToggleActive)
}

func (h *CatalogHTTP) ToggleFeatured(c echo.Context) error {
	return h.toggle(c, "product.toggle_featured", h.Svc.ToggleFeatured)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := productID(c)
	if err != nil {
		l.Warn("product_delete_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "product_delete_failed", err)
	}

	l.Info("product_delete_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) toggle(c echo.Context, name string, fn func(ctx context.Context, id uint) (*models.Product, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	id, err := productID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	prod, err := fn(ctx, id)
	if err != nil {
		return fail(l, "product_toggle_failed", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func productID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
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
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
