package monitor

import "time"

// Report is the metrics snapshot served by GET /api/monitoring/metrics.
type Report struct {
	Requests    RequestStats     `json:"requests"`
	Errors      ErrorStats       `json:"errors"`
	Performance PerformanceStats `json:"performance"`
	System      SystemStats      `json:"system"`
	Timestamp   time.Time        `json:"timestamp"`
}

type RequestStats struct {
	Total                int64            `json:"total"`
	ByEndpoint           map[string]int64 `json:"by_endpoint"`
	SlowRequestsLastHour int              `json:"slow_requests_last_hour"`
}

type ErrorStats struct {
	Total  int64            `json:"total"`
	ByKind map[string]int64 `json:"by_kind"`
}

type PerformanceStats struct {
	SlowestRequests []SlowRequestInfo `json:"slowest_requests"`
}

type SlowRequestInfo struct {
	Path      string    `json:"path"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

type SystemStats struct {
	Uptime        string      `json:"uptime"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Memory        MemoryUsage `json:"memory"`
	GoVersion     string      `json:"go_version"`
	Environment   string      `json:"environment"`
}
