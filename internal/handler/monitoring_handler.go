package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go-product-api/internal/middleware"
	"go-product-api/internal/model"
	"go-product-api/internal/monitor"
	"go-product-api/internal/service"
)

type MonitoringHandler struct {
	collector *monitor.Collector
	health    *service.HealthService
	limiter   *middleware.RateLimitMiddleware
}

func NewMonitoringHandler(collector *monitor.Collector, health *service.HealthService, limiter *middleware.RateLimitMiddleware) *MonitoringHandler {
	return &MonitoringHandler{collector: collector, health: health, limiter: limiter}
}

func (h *MonitoringHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.collector.Snapshot())
}

func (h *MonitoringHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.collector.Reset()
	writeMessage(w, http.StatusOK, "Metrics reset successfully", map[string]any{
		"timestamp": time.Now().UTC(),
	})
}

// HealthDetailed reports the composite health status. The HTTP status stays
// 200 even when degraded; the envelope's success flag carries the verdict.
func (h *MonitoringHandler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: report.Status == service.StatusHealthy,
		Data:    report,
	})
}

func (h *MonitoringHandler) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.limiter.Status(middleware.ExtractClientIP(r)))
}

// Health is the lightweight liveness endpoint; the detailed variant lives
// under /api/monitoring.
func (h *MonitoringHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": monitor.FormatUptime(time.Since(h.collector.StartedAt())),
	})
}
