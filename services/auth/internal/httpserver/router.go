package httpserver

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/digitalloot/storefront/pkg/authclient"
	authmw "github.com/digitalloot/storefront/pkg/middleware/auth"
	"github.com/digitalloot/storefront/pkg/server"
	"github.com/digitalloot/storefront/services/auth/internal/service"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProfileHandler *ProfileHTTP
	JWTSecret      []byte
	RateLimit      float64
	Ready          func(ctx context.Context) error
}

// localRefresher lets the auth middleware of this service refresh sessions
// without a network hop.
type localRefresher struct {
	svc *service.AuthService
}

func (r localRefresher) RefreshTokens(ctx context.Context, refreshToken string) (*authclient.RefreshResponse, error) {
	res, err := r.svc.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &authclient.RefreshResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
		Role:         res.Profile.Role,
	}, nil
}

func Register(e *echo.Echo, d *Deps) {
	server.Ready(e, d.Ready)

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, localRefresher{svc: d.AuthHandler.Svc})
	limited := server.RateLimit(d.RateLimit)

	e.POST("/register", d.AuthHandler.Register, limited)
	e.POST("/login", d.AuthHandler.Login, limited)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.LogOut)

	me := e.Group("/me", authMW.RequireAuth)
	me.GET("", d.ProfileHandler.Me)
	me.PATCH("", d.ProfileHandler.Update)
	me.PUT("/preferences", d.ProfileHandler.UpdatePreferences)
	me.PUT("/avatar", d.ProfileHandler.UpdateAvatar)
	me.DELETE("", d.ProfileHandler.Delete)
}
