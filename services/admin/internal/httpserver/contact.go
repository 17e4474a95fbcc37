package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/service"
	"github.com/digitalloot/storefront/services/admin/internal/transport"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req transport.ContactRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("contact_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("contact_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.Svc.Submit(ctx, service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return fail(l, "contact_failed", err)
	}
	l.Info("contact_success", "message_id", m.ID)
	return c.JSON(http.StatusCreated, m)
}

func (h *ContactHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.contact.list")

	page, offset, limit := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)
	total, msgs, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_contact_failed", err)
	}
	return c.JSON(http.StatusOK, pagination.Page[models.ContactMessage]{
		Data: msgs,
		Meta: pagination.NewMeta(page, limit, total),
	})
}
