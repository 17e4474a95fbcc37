package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/logging"
	authmw "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/pkg/pagination"
	"github.com/digitalloot/storefront/pkg/tokens"
	"github.com/digitalloot/storefront/services/order/internal/models"
	"github.com/digitalloot/storefront/services/order/internal/service"
	"github.com/digitalloot/storefront/services/order/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := authmw.UserID(c)
	if err != nil {
		l.Warn("create_order_failed", "status", 401, "reason", "bad subject", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lines := make([]service.Line, len(req.Items))
	for i, it := range req.Items {
		lines[i] = service.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Category:  it.Category,
			Quantity:  it.Quantity,
		}
	}

	order, err := h.Svc.PlaceOrder(ctx, service.PlaceInput{
		UserID: userID,
		Lines:  lines,
		Customer: service.Customer{
			Name:       req.Customer.Name,
			Email:      req.Customer.Email,
			Phone:      req.Customer.Phone,
			Address:    req.Customer.Address,
			City:       req.Customer.City,
			Country:    req.Customer.Country,
			PostalCode: req.Customer.PostalCode,
		},
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		IdempotencyKey: c.Request().Header.Get(transport.IdempotencyHeader),
	})
	if err != nil {
		return fail(l, "create_order_failed", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "order_number", order.OrderNumber)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	page, offset, limit := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize),
	)

	total, orders, err := h.Svc.MyOrders(ctx, userID, c.QueryParam("status"), offset, limit)
	if err != nil {
		return fail(l, "get_orders_failed", err)
	}

	return c.JSON(http.StatusOK, pagination.Page[models.Order]{
		Data: orders,
		Meta: pagination.NewMeta(page, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, orderID, err := ids(c)
	if err != nil {
		l.Warn("get_order_failed", "status", 400, "error", err)
		return err
	}

	order, err := h.Svc.GetOrder(ctx, orderID, userID, tokens.IsAdmin(authmw.Role(c)))
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	userID, orderID, err := ids(c)
	if err != nil {
		l.Warn("cancel_order_failed", "status", 400, "error", err)
		return err
	}

	order, err := h.Svc.Cancel(ctx, orderID, userID, tokens.IsAdmin(authmw.Role(c)))
	if err != nil {
		return fail(l, "cancel_order_failed", err)
	}

	l.Info("cancel_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) MyStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_stats")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	stats, err := h.Svc.MyStats(ctx, userID)
	if err != nil {
		return fail(l, "get_stats_failed", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func ids(c echo.Context) (userID, orderID uuid.UUID, err error) {
	userID, err = authmw.UserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}
	orderID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	return userID, orderID, nil
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
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
