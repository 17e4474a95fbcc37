package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/digitalloot/storefront/pkg/config"
	"github.com/digitalloot/storefront/pkg/logging"
)

func testConfig() config.Config {
	return config.Config{CORSOrigins: []string{"*"}, BodyLimit: "1K"}
}

func TestNew_HealthAndBodyLimit(t *testing.T) {
	e := New(testConfig(), logging.NewWithWriter(io.Discard, "error"))
	Ready(e, func(context.Context) error { return errors.New("db down") })
	e.POST("/echo", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	big := make([]byte, 4096)
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(big))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.GET("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(1))

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes[rec.Code]++
	}
	assert.Positive(t, codes[http.StatusOK])
	assert.Positive(t, codes[http.StatusTooManyRequests])
}
