// Package monitor observes the request/response/error lifecycle: per-endpoint
// counters, per-error-kind counters and a bounded slow-request log, exposed
// as a point-in-time snapshot for the monitoring endpoints.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"
)

const (
	// slowRequestCap bounds the slow-request log regardless of traffic.
	slowRequestCap = 100
	// slowRequestHorizon is the rolling retention window for slow entries.
	slowRequestHorizon = time.Hour
)

type Options struct {
	SlowThreshold  time.Duration
	IgnorePaths    []string
	IncludeHeaders bool
	IncludeBody    bool
	MaxBodyLength  int
	Environment    string
}

type slowEntry struct {
	endpoint  string
	duration  time.Duration
	timestamp time.Time
}

// Collector is the single owner of all metrics state. Every mutation goes
// through mu, so concurrent request observation, Reset and the periodic
// cleanup cannot interleave into lost updates or torn snapshots.
type Collector struct {
	opts      Options
	startedAt time.Time
	now       func() time.Time

	mu       sync.Mutex
	requests map[string]int64
	errors   map[string]int64
	slow     []slowEntry
}

func NewCollector(opts Options) *Collector {
	if opts.SlowThreshold <= 0 {
		opts.SlowThreshold = time.Second
	}
	if opts.MaxBodyLength <= 0 {
		opts.MaxBodyLength = 1000
	}

	return &Collector{
		opts:      opts,
		startedAt: time.Now(),
		now:       time.Now,
		requests:  map[string]int64{},
		errors:    map[string]int64{},
	}
}

func (c *Collector) StartedAt() time.Time {
	return c.startedAt
}

// ObserveRequest counts one request against the endpoint key
// ("METHOD /path"), initializing the counter on first sight.
func (c *Collector) ObserveRequest(endpoint string) {
	c.mu.Lock()
	c.requests[endpoint]++
	c.mu.Unlock()
}

// ObserveError counts one error by classification kind, never by message.
func (c *Collector) ObserveError(kind string) {
	if kind == "" {
		kind = "UNKNOWN_ERROR"
	}
	c.mu.Lock()
	c.errors[kind]++
	c.mu.Unlock()
}

// ObserveSlow appends to the slow-request log, keeping only the most recent
// entries once the cap is reached.
func (c *Collector) ObserveSlow(endpoint string, duration time.Duration) {
	c.mu.Lock()
	c.slow = append(c.slow, slowEntry{endpoint: endpoint, duration: duration, timestamp: c.now()})
	if len(c.slow) > slowRequestCap {
		c.slow = c.slow[len(c.slow)-slowRequestCap:]
	}
	c.mu.Unlock()
}

// Reset clears all counters and the slow-request log atomically from the
// caller's perspective. Calling it twice yields the same zeroed snapshot.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.requests = map[string]int64{}
	c.errors = map[string]int64{}
	c.slow = nil
	c.mu.Unlock()

	slog.Info("metrics reset completed")
}

// Snapshot returns the current totals, the ten slowest requests of the last
// hour sorted descending by duration, and process uptime and memory.
func (c *Collector) Snapshot() Report {
	now := c.now()
	cutoff := now.Add(-slowRequestHorizon)

	c.mu.Lock()
	byEndpoint := make(map[string]int64, len(c.requests))
	var totalRequests int64
	for endpoint, count := range c.requests {
		byEndpoint[endpoint] = count
		totalRequests += count
	}

	byKind := make(map[string]int64, len(c.errors))
	var totalErrors int64
	for kind, count := range c.errors {
		byKind[kind] = count
		totalErrors += count
	}

	recent := make([]slowEntry, 0, len(c.slow))
	for _, entry := range c.slow {
		if entry.timestamp.After(cutoff) {
			recent = append(recent, entry)
		}
	}
	c.mu.Unlock()

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].duration > recent[j].duration
	})

	slowest := make([]SlowRequestInfo, 0, 10)
	for _, entry := range recent {
		if len(slowest) == 10 {
			break
		}
		slowest = append(slowest, SlowRequestInfo{
			Path:      entry.endpoint,
			Duration:  fmt.Sprintf("%dms", entry.duration.Milliseconds()),
			Timestamp: entry.timestamp,
		})
	}

	uptime := now.Sub(c.startedAt)

	return Report{
		Requests: RequestStats{
			Total:                totalRequests,
			ByEndpoint:           byEndpoint,
			SlowRequestsLastHour: len(recent),
		},
		Errors: ErrorStats{
			Total:  totalErrors,
			ByKind: byKind,
		},
		Performance: PerformanceStats{
			SlowestRequests: slowest,
		},
		System: SystemStats{
			Uptime:        FormatUptime(uptime),
			UptimeSeconds: int64(uptime.Seconds()),
			Memory:        ReadMemoryUsage(),
			GoVersion:     runtime.Version(),
			Environment:   c.opts.Environment,
		},
		Timestamp: now,
	}
}

// StartCleanupTicker periodically drops slow-request entries older than the
// retention horizon so memory stays bounded under sustained slow traffic.
func (c *Collector) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Collector) cleanup() {
	cutoff := c.now().Add(-slowRequestHorizon)

	c.mu.Lock()
	kept := c.slow[:0]
	for _, entry := range c.slow {
		if entry.timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	c.slow = kept
	remaining := len(c.slow)
	endpoints := len(c.requests)
	c.mu.Unlock()

	slog.Info("periodic metrics cleanup completed",
		"remaining_slow_requests", remaining,
		"tracked_endpoints", endpoints)
}

// FormatUptime renders a duration the way operators read it: "2d 3h 4m 5s".
func FormatUptime(d time.Duration) string {
	seconds := int64(d.Seconds())
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
