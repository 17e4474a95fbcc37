package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/digitalloot/storefront/pkg/authclient"
	"github.com/digitalloot/storefront/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

type refresherMock struct{ mock.Mock }

func (m *refresherMock) RefreshTokens(ctx context.Context, refreshToken string) (*authclient.RefreshResponse, error) {
	args := m.Called(ctx, refreshToken)
	res, _ := args.Get(0).(*authclient.RefreshResponse)
	return res, args.Error(1)
}

func sign(t *testing.T, id, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccess(secret, id, role, "", exp)
	require.NoError(t, err)
	return tok
}

func run(t *testing.T, h echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c, h(c)
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireAuth_Cookie(t *testing.T) {
	mw := NewAutoRefreshMiddleware(secret, nil)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: sign(t, id.String(), "user", time.Now().Add(time.Minute))})

	rec, c, err := run(t, mw.RequireAuth(ok), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := UserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "user", Role(c))
}

func TestRequireAuth_Bearer(t *testing.T) {
	mw := NewAutoRefreshMiddleware(secret, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, uuid.NewString(), "user", time.Now().Add(time.Minute)))

	rec, _, err := run(t, mw.RequireAuth(ok), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_Missing(t *testing.T) {
	mw := NewAutoRefreshMiddleware(secret, nil)

	_, _, err := run(t, mw.RequireAuth(ok), httptest.NewRequest(http.MethodGet, "/", nil))

	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdmin(t *testing.T) {
	mw := NewAutoRefreshMiddleware(secret, nil)

	for role, want := range map[string]int{"admin": 0, "administrador": 0, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: sign(t, uuid.NewString(), role, time.Now().Add(time.Minute))})

		_, _, err := run(t, mw.RequireAdmin(ok), req)
		if want == 0 {
			assert.NoError(t, err, role)
			continue
		}
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he), role)
		assert.Equal(t, want, he.Code, role)
	}
}

func TestRequireAuth_RefreshesExpiredCookie(t *testing.T) {
	id := uuid.NewString()
	fresh := sign(t, id, "user", time.Now().Add(time.Minute))

	rm := &refresherMock{}
	rm.On("RefreshTokens", mock.Anything, "refresh-1").Return(&authclient.RefreshResponse{
		AccessToken:  fresh,
		RefreshToken: "refresh-2",
		AccessExp:    time.Now().Add(time.Minute).Unix(),
		RefreshExp:   time.Now().Add(time.Hour).Unix(),
		Role:         "user",
	}, nil)
	mw := NewAutoRefreshMiddleware(secret, rm)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: sign(t, id, "user", time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-1"})

	rec, c, err := run(t, mw.RequireAuth(ok), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, c.Get(CtxUserID))

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name+"="+ck.Value)
	}
	assert.Contains(t, names, "accessToken="+fresh)
	assert.Contains(t, names, "refreshToken=refresh-2")
	rm.AssertExpectations(t)
}

func TestRequireAuth_RefreshFailureClearsCookies(t *testing.T) {
	rm := &refresherMock{}
	rm.On("RefreshTokens", mock.Anything, "refresh-1").Return(nil, errors.New("revoked"))
	mw := NewAutoRefreshMiddleware(secret, rm)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: sign(t, uuid.NewString(), "user", time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-1"})

	rec, _, err := run(t, mw.RequireAuth(ok), req)
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
	}
}
