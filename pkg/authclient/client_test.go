package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAuth(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/refresh", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req refreshRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.RefreshToken {
		case "old":
			assert.Equal(t, "rid-1", r.Header.Get("X-Request-ID"))
			_ = json.NewEncoder(w).Encode(RefreshResponse{AccessToken: "a2", RefreshToken: "r2", Role: "admin"})
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "empty":
			_ = json.NewEncoder(w).Encode(RefreshResponse{})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshTokens(t *testing.T) {
	c := NewClient(fakeAuth(t).URL + "/")

	res, err := c.RefreshTokens(WithRequestID(context.Background(), "rid-1"), "old")
	require.NoError(t, err)
	assert.Equal(t, "a2", res.AccessToken)
	assert.Equal(t, "r2", res.RefreshToken)
	assert.Equal(t, "admin", res.Role)
}

func TestRefreshTokensFailures(t *testing.T) {
	c := NewClient(fakeAuth(t).URL, WithHTTPClient(http.DefaultClient))
	ctx := context.Background()

	_, err := c.RefreshTokens(ctx, "stale")
	require.ErrorIs(t, err, ErrRejected)

	_, err = c.RefreshTokens(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)

	_, err = c.RefreshTokens(ctx, "empty")
	require.Error(t, err)
}
