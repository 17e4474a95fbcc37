package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/logging"
	authmw "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/services/auth/internal/models"
	"github.com/digitalloot/storefront/services/auth/internal/service"
	"github.com/digitalloot/storefront/services/auth/internal/transport"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.me")

	id, err := authmw.UserID(c)
	if err != nil {
		l.Warn("get_profile_failed", "status", 401, "reason", "bad subject", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_profile_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")

	id, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_profile_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.Svc.Update(ctx, id, service.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Bio:       req.Bio,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return fail(l, "update_profile_failed", err)
	}

	l.Info("update_profile_success")
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHTTP) UpdatePreferences(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.preferences")

	id, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	var req transport.PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_preferences_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.Svc.UpdatePreferences(ctx, id, models.Preferences{
		Theme:         req.Theme,
		Notifications: req.Notifications,
		Language:      req.Language,
	})
	if err != nil {
		return fail(l, "update_preferences_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHTTP) UpdateAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.avatar")

	id, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	var req transport.AvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_avatar_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.Svc.UpdateAvatar(ctx, id, req.AvatarURL)
	if err != nil {
		return fail(l, "update_avatar_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.delete")

	id, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_profile_failed", err)
	}

	clearSessionCookies(c)
	l.Info("delete_profile_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
