package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/logging"
	authmw "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
	"github.com/digitalloot/storefront/services/admin/internal/service"
	"github.com/digitalloot/storefront/services/admin/internal/transport"
)

type UsersHTTP struct {
	Svc    *service.UserAdmin
	Orders *service.OrderAdmin
}

func (h *UsersHTTP) List(c echo.Context) error {
	return h.list(c, "admin.users.list", false)
}

func (h *UsersHTTP) Admins(c echo.Context) error {
	return h.list(c, "admin.users.admins", true)
}

func (h *UsersHTTP) list(c echo.Context, name string, adminsOnly bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	page, offset, limit := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)
	f := repo.UserFilter{Search: c.QueryParam("q"), AdminsOnly: adminsOnly}

	total, users, err := h.Svc.List(ctx, f, offset, limit)
	if err != nil {
		return fail(l, "list_users_failed", err)
	}
	return c.JSON(http.StatusOK, pagination.Page[models.User]{
		Data: users,
		Meta: pagination.NewMeta(page, limit, total),
	})
}

func (h *UsersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.users.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UsersHTTP) Promote(c echo.Context) error {
	return h.role(c, "admin.users.promote", h.Svc.Promote)
}

func (h *UsersHTTP) Demote(c echo.Context) error {
	return h.role(c, "admin.users.demote", h.Svc.Demote)
}

type roleFunc func(ctx context.Context, actor uuid.UUID, ref string) (*models.User, error)

func (h *UsersHTTP) role(c echo.Context, name string, apply roleFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	actor, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	var req transport.RoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_role_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("change_role_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := apply(ctx, actor, req.Ref())
	if err != nil {
		return fail(l, "change_role_failed", err)
	}
	l.Info("change_role_success", "user_id", u.ID, "role", u.Role)
	return c.JSON(http.StatusOK, u)
}

// Stats combines the global counters with the order dashboard figures.
func (h *UsersHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	global, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "stats_failed", err)
	}
	dash, err := h.Orders.Stats(ctx)
	if err != nil {
		return fail(l, "stats_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":       global.Users,
		"admins":      global.Admins,
		"products":    global.Products,
		"orders":      global.Orders,
		"by_status":   dash.ByStatus,
		"total_sales": dash.TotalSales,
	})
}
