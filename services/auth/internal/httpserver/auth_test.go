package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalloot/storefront/pkg/config"
	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/server"
	"github.com/digitalloot/storefront/services/auth/internal/repo"
	"github.com/digitalloot/storefront/services/auth/internal/service"
	"github.com/digitalloot/storefront/services/auth/internal/transport"
)

var jwtSecret = []byte("test-jwt-secret")

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := pkgdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	rp := &repo.GormRepo{DB: db}
	require.NoError(t, rp.Migrate(context.Background()))

	authSvc := &service.AuthService{Repo: rp, AccessSecret: jwtSecret, RefreshSecret: []byte("test-refresh-secret")}

	e := server.New(config.Config{CORSOrigins: []string{"*"}, BodyLimit: "1M"}, logging.NewWithWriter(io.Discard, "error"))
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		ProfileHandler: &ProfileHTTP{Svc: &service.ProfileService{Repo: rp}},
		JWTSecret:      jwtSecret,
	})
	return e
}

func doJSONRequest(e *echo.Echo, method, path string, body any, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, e *echo.Echo) {
	t.Helper()
	rec := doJSONRequest(e, http.MethodPost, "/register", transport.RegisterRequest{
		FullName: "Luis Rojas", Email: "luis@loot.pe", Password: "secreto", ConfirmPassword: "secreto",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func login(t *testing.T, e *echo.Echo) (transport.SessionResponse, []*http.Cookie) {
	t.Helper()
	rec := doJSONRequest(e, http.MethodPost, "/login", transport.LoginRequest{Email: "luis@loot.pe", Password: "secreto"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sess transport.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess, rec.Result().Cookies()
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestServer(t)
	register(t, e)

	rec := doJSONRequest(e, http.MethodPost, "/register", transport.RegisterRequest{
		FullName: "Luis Rojas", Email: "luis@loot.pe", Password: "secreto", ConfirmPassword: "secreto",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSONRequest(e, http.MethodPost, "/register", transport.RegisterRequest{
		FullName: "X", Email: "x@loot.pe", Password: "123", ConfirmPassword: "123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSONRequest(e, http.MethodPost, "/login", transport.LoginRequest{Email: "luis@loot.pe", Password: "nope123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sess, cookies := login(t, e)
	assert.Equal(t, "user", sess.Role)
	assert.Equal(t, "luis@loot.pe", sess.User.Email)
	assert.NotEmpty(t, sess.AccessToken)

	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = ck.HttpOnly
	}
	assert.True(t, names["accessToken"])
	assert.True(t, names["refreshToken"])
}

func TestMe_WithBearerAndCookie(t *testing.T) {
	e := newTestServer(t)
	register(t, e)
	sess, cookies := login(t, e)

	rec := doJSONRequest(e, http.MethodGet, "/me", nil, map[string]string{"Authorization": "Bearer " + sess.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(e, http.MethodGet, "/me", nil, nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(e, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	e := newTestServer(t)
	register(t, e)
	sess, _ := login(t, e)
	auth := map[string]string{"Authorization": "Bearer " + sess.AccessToken}

	rec := doJSONRequest(e, http.MethodPatch, "/me", map[string]any{"city": "Arequipa", "phone": "912345678"}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Arequipa")

	rec = doJSONRequest(e, http.MethodPut, "/me/preferences", transport.PreferencesRequest{Theme: "light", Language: "en"}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"theme":"light"`)

	rec = doJSONRequest(e, http.MethodPut, "/me/preferences", transport.PreferencesRequest{Theme: "neon"}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSONRequest(e, http.MethodPut, "/me/avatar", transport.AvatarRequest{AvatarURL: "https://cdn.loot.pe/me.png"}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(e, http.MethodDelete, "/me", nil, auth)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSONRequest(e, http.MethodGet, "/me", nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	e := newTestServer(t)
	register(t, e)
	sess, _ := login(t, e)

	rec := doJSONRequest(e, http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: sess.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var refreshed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.Equal(t, "user", refreshed["role"])
	next, _ := refreshed["refresh_token"].(string)
	require.NotEmpty(t, next)

	rec = doJSONRequest(e, http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: sess.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSONRequest(e, http.MethodPost, "/logout", nil, nil, &http.Cookie{Name: "refreshToken", Value: next})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(e, http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: next}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
