package monitor

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_ResponseHeaders(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{})
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Response-Time"))
	assert.Equal(t, "1.0.0", rec.Header().Get("X-API-Version"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestMiddleware_HonorsInboundRequestID(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{})
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, ok := RequestContextFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, "fixed-id", rc.ID)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestMiddleware_CountsEndpoints(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{})
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	report := c.Snapshot()
	assert.Equal(t, int64(4), report.Requests.Total)
	assert.Equal(t, int64(3), report.Requests.ByEndpoint["GET /products"])
	assert.Equal(t, int64(1), report.Requests.ByEndpoint["POST /auth/login"])
}

func TestMiddleware_ClassifiesErrorsByEnvelopeCode(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{})
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Product not found","error":"NOT_FOUND"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/99", nil))

	report := c.Snapshot()
	assert.Equal(t, int64(1), report.Errors.Total)
	assert.Equal(t, int64(1), report.Errors.ByKind["NOT_FOUND"])
}

func TestMiddleware_ErrorFallbackToStatusClass(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{})
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	report := c.Snapshot()
	assert.Equal(t, int64(1), report.Errors.ByKind["HTTP_502"])
}

func TestMiddleware_TracksSlowRequests(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{SlowThreshold: 50 * time.Millisecond})

	base := time.Now()
	calls := 0
	// First call stamps the start, subsequent calls report a time past the
	// threshold so the request registers as slow without sleeping.
	c.now = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(200 * time.Millisecond)
	}

	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	report := c.Snapshot()
	require.Len(t, report.Performance.SlowestRequests, 1)
	assert.Equal(t, "GET /products", report.Performance.SlowestRequests[0].Path)
	assert.Equal(t, "200ms", report.Performance.SlowestRequests[0].Duration)
}

func TestMiddleware_HandlerStillReadsBodyWhenCaptured(t *testing.T) {
	t.Parallel()

	c := NewCollector(Options{IncludeBody: true, MaxBodyLength: 1000})

	var seen string
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen = string(data)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"secret1"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, `{"username":"alice","password":"secret1"}`, seen)
}
