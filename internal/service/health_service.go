package service

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"go-product-api/internal/monitor"
)

// Statuses escalate: unhealthy (store unreachable) beats warning (memory
// over threshold) beats healthy.
const (
	StatusHealthy   = "healthy"
	StatusWarning   = "warning"
	StatusUnhealthy = "unhealthy"
)

const (
	memoryWarningThresholdMB = 500
	storeProbeTimeout        = 2 * time.Second
)

type storePinger interface {
	Ping(ctx context.Context) error
}

type HealthCheck struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

type MemoryCheck struct {
	Status  string              `json:"status"`
	Usage   monitor.MemoryUsage `json:"usage"`
	Message string              `json:"message"`
}

type UptimeCheck struct {
	Status  string `json:"status"`
	Seconds int64  `json:"seconds"`
	Human   string `json:"human"`
	Message string `json:"message"`
}

type RuntimeCheck struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Message string `json:"message"`
}

type HealthChecks struct {
	Database HealthCheck  `json:"database"`
	Memory   MemoryCheck  `json:"memory"`
	Uptime   UptimeCheck  `json:"uptime"`
	Runtime  RuntimeCheck `json:"runtime"`
}

type SystemInfo struct {
	Platform  string              `json:"platform"`
	Arch      string              `json:"arch"`
	GoVersion string              `json:"go_version"`
	Uptime    string              `json:"uptime"`
	Memory    monitor.MemoryUsage `json:"memory"`
	PID       int                 `json:"pid"`
}

type HealthReport struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Checks    HealthChecks `json:"checks"`
	System    SystemInfo   `json:"system"`
}

// HealthService synthesizes a composite health status from store
// connectivity, process memory and uptime. Reports are computed fresh on
// every call, never cached.
type HealthService struct {
	store      storePinger
	startedAt  time.Time
	readMemory func() monitor.MemoryUsage
	now        func() time.Time
}

func NewHealthService(store storePinger, startedAt time.Time) *HealthService {
	return &HealthService{
		store:      store,
		startedAt:  startedAt,
		readMemory: monitor.ReadMemoryUsage,
		now:        time.Now,
	}
}

// Check runs a live connectivity probe against the store; probe failure is
// reported, never propagated as a panic or handler error.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	now := s.now()
	status := StatusHealthy

	probeCtx, cancel := context.WithTimeout(ctx, storeProbeTimeout)
	defer cancel()

	dbCheck := HealthCheck{Status: StatusHealthy, Message: "database connection successful"}
	probeStart := s.now()
	if err := s.store.Ping(probeCtx); err != nil {
		dbCheck = HealthCheck{
			Status:  StatusUnhealthy,
			Message: "database connection failed",
			Error:   err.Error(),
		}
		status = StatusUnhealthy
	} else {
		dbCheck.ResponseTime = fmt.Sprintf("%dms", s.now().Sub(probeStart).Milliseconds())
	}

	memory := s.readMemory()
	memCheck := MemoryCheck{Status: StatusHealthy, Usage: memory, Message: "memory usage normal"}
	if memory.HeapAllocMB > memoryWarningThresholdMB {
		memCheck.Status = StatusWarning
		memCheck.Message = "high memory usage detected"
		if status == StatusHealthy {
			status = StatusWarning
		}
	}

	uptime := now.Sub(s.startedAt)
	human := monitor.FormatUptime(uptime)

	return HealthReport{
		Status:    status,
		Timestamp: now,
		Checks: HealthChecks{
			Database: dbCheck,
			Memory:   memCheck,
			Uptime: UptimeCheck{
				Status:  StatusHealthy,
				Seconds: int64(uptime.Seconds()),
				Human:   human,
				Message: "server running for " + human,
			},
			Runtime: RuntimeCheck{
				Status:  StatusHealthy,
				Version: runtime.Version(),
				Message: "running " + runtime.Version(),
			},
		},
		System: SystemInfo{
			Platform:  runtime.GOOS,
			Arch:      runtime.GOARCH,
			GoVersion: runtime.Version(),
			Uptime:    human,
			Memory:    memory,
			PID:       os.Getpid(),
		},
	}
}
