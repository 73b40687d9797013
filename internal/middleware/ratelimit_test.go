package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-product-api/internal/model"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AuthTierStricterThanGeneral(t *testing.T) {
	t.Parallel()

	mw := NewRateLimitMiddleware(100, 2, 15*time.Minute)
	handler := mw.Handler(okHandler())

	// Two auth attempts pass, the third is rejected.
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		require.Equal(t, http.StatusOK, rec.Code, "auth attempt %d", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "RATE_LIMITED", body.Error)

	// General traffic from the same client is still allowed.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_GeneralCeiling(t *testing.T) {
	t.Parallel()

	mw := NewRateLimitMiddleware(3, 5, 15*time.Minute)
	handler := mw.Handler(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_StatusOwnsBookkeeping(t *testing.T) {
	t.Parallel()

	mw := NewRateLimitMiddleware(10, 5, 15*time.Minute)
	handler := mw.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	clientIP := ExtractClientIP(req)

	status := mw.Status(clientIP)
	assert.Equal(t, 10, status.Limit)
	assert.Equal(t, 10, status.Remaining)

	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	}

	status = mw.Status(clientIP)
	assert.Equal(t, 6, status.Remaining)
	assert.Equal(t, "15m0s", status.TimeWindow)
	assert.False(t, status.ResetTime.IsZero())
}

func TestRateLimit_WindowReset(t *testing.T) {
	t.Parallel()

	mw := NewRateLimitMiddleware(2, 5, 15*time.Minute)
	base := time.Now()
	mw.now = func() time.Time { return base }

	handler := mw.Handler(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A fresh window restores the full quota.
	mw.now = func() time.Time { return base.Add(16 * time.Minute) }

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	status := mw.Status(ExtractClientIP(httptest.NewRequest(http.MethodGet, "/products", nil)))
	assert.Equal(t, 1, status.Remaining)
}

func TestRateLimit_RateLimitHeaders(t *testing.T) {
	t.Parallel()

	mw := NewRateLimitMiddleware(5, 3, 15*time.Minute)
	handler := mw.Handler(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestExtractClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.1.2.3, 10.0.0.1")
	assert.Equal(t, "10.1.2.3", ExtractClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.9.8.7")
	assert.Equal(t, "10.9.8.7", ExtractClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.5:1234"
	assert.Equal(t, "192.0.2.5", ExtractClientIP(req))
}
