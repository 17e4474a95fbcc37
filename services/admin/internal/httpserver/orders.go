package httpserver

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/services/admin/internal/export"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/service"
	"github.com/digitalloot/storefront/services/admin/internal/transport"
)

type OrdersHTTP struct {
	Svc *service.OrderAdmin
	// Location is used for dates in exports.
	Location *time.Location
}

func (h *OrdersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.list")

	f, err := service.ParseFilter(c.QueryParam("status"), c.QueryParam("q"))
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	page, offset, limit := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)

	total, orders, err := h.Svc.List(ctx, f, offset, limit)
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return c.JSON(http.StatusOK, pagination.Page[models.Order]{
		Data: orders,
		Meta: pagination.NewMeta(page, limit, total),
	})
}

func (h *OrdersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrdersHTTP) ChangeStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("change_status_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	o, err := h.Svc.ChangeStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "change_status_failed", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrdersHTTP) Next(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.next")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	o, err := h.Svc.Advance(ctx, id)
	if err != nil {
		return fail(l, "advance_status_failed", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrdersHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_order_failed", err)
	}
	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *OrdersHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "order_stats_failed", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *OrdersHTTP) ExportCSV(c echo.Context) error {
	return h.export(c, "csv", export.ContentTypeCSV, export.CSV)
}

func (h *OrdersHTTP) ExportXLSX(c echo.Context) error {
	return h.export(c, "xlsx", export.ContentTypeXLSX, export.XLSX)
}

func (h *OrdersHTTP) export(c echo.Context, ext, contentType string, render func(w io.Writer, orders []models.Order, loc *time.Location) error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.export_"+ext)

	f, err := service.ParseFilter(c.QueryParam("status"), c.QueryParam("q"))
	if err != nil {
		return fail(l, "export_failed", err)
	}

	orders, err := h.Svc.Export(ctx, f)
	if err != nil {
		return fail(l, "export_failed", err)
	}
	if len(orders) == 0 {
		l.Warn("export_failed", "status", 404, "reason", "no orders")
		return echo.NewHTTPError(http.StatusNotFound, "no orders to export")
	}

	var buf bytes.Buffer
	if err := render(&buf, orders, h.Location); err != nil {
		l.Error("export_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot render export")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename(time.Now(), ext)+`"`)
	l.Info("export_success", "format", ext, "orders", len(orders))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
