package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-product-api/internal/middleware"
	"go-product-api/internal/monitor"
	"go-product-api/internal/service"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func newMonitoringHandler(pingErr error) *MonitoringHandler {
	collector := monitor.NewCollector(monitor.Options{SlowThreshold: time.Second})
	health := service.NewHealthService(stubPinger{err: pingErr}, collector.StartedAt())
	limiter := middleware.NewRateLimitMiddleware(100, 5, 15*time.Minute)
	return NewMonitoringHandler(collector, health, limiter)
}

func getJSON(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestMetricsEndpoint(t *testing.T) {
	h := newMonitoringHandler(nil)

	h.collector.ObserveRequest("GET /products")
	h.collector.ObserveError("VALIDATION_ERROR")

	rec, body := getJSON(t, h.Metrics, "/api/monitoring/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	requests, ok := data["requests"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, requests["total"])
}

func TestResetEndpoint(t *testing.T) {
	h := newMonitoringHandler(nil)

	h.collector.ObserveRequest("GET /products")

	rec, body := getJSON(t, h.Reset, "/api/monitoring/reset")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Metrics reset successfully", body["message"])

	snapshot := h.collector.Snapshot()
	assert.Zero(t, snapshot.Requests.Total)
}

func TestHealthDetailedEndpoint_SuccessFlagTracksStatus(t *testing.T) {
	healthy := newMonitoringHandler(nil)
	rec, body := getJSON(t, healthy.HealthDetailed, "/api/monitoring/health-detailed")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	degraded := newMonitoringHandler(errors.New("connection refused"))
	rec, body = getJSON(t, degraded.HealthDetailed, "/api/monitoring/health-detailed")

	// Degraded health still answers 200; the envelope carries the verdict.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, service.StatusUnhealthy, data["status"])
}

func TestRateLimitStatusEndpoint(t *testing.T) {
	h := newMonitoringHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/monitoring/rate-limit-status", nil)
	req.RemoteAddr = "203.0.113.9:4411"
	rec := httptest.NewRecorder()
	h.RateLimitStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                       `json:"success"`
		Data    middleware.RateLimitStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "203.0.113.9", body.Data.IP)
	assert.Equal(t, 100, body.Data.Limit)
	assert.Equal(t, 100, body.Data.Remaining, "status lookups do not consume quota")
}

func TestHealthEndpoint(t *testing.T) {
	h := newMonitoringHandler(nil)

	rec, body := getJSON(t, h.Health, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
	assert.NotEmpty(t, data["uptime"])
}
