package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-product-api/internal/model"
)

// RateLimitStatus is what the monitoring endpoint reports for a client IP.
// The limiter itself owns this bookkeeping; it is never reconstructed from
// response headers.
type RateLimitStatus struct {
	IP         string    `json:"ip"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetTime  time.Time `json:"reset_time"`
	TimeWindow string    `json:"time_window"`
}

type clientWindow struct {
	generalCount int
	authCount    int
	windowStart  time.Time
	lastSeen     time.Time
}

// RateLimitMiddleware enforces two fixed-window ceilings per client IP: a
// general tier for all traffic and a stricter tier for the authentication
// endpoints.
type RateLimitMiddleware struct {
	generalMax int
	authMax    int
	window     time.Duration
	now        func() time.Time

	mu      sync.Mutex
	clients map[string]*clientWindow
}

func NewRateLimitMiddleware(generalMax int, authMax int, window time.Duration) *RateLimitMiddleware {
	if generalMax <= 0 {
		generalMax = 100
	}
	if authMax <= 0 {
		authMax = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &RateLimitMiddleware{
		generalMax: generalMax,
		authMax:    authMax,
		window:     window,
		now:        time.Now,
		clients:    map[string]*clientWindow{},
	}
}

func isAuthPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "/auth/login") || strings.HasPrefix(lower, "/auth/register")
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := ExtractClientIP(r)
		allowed, remaining, reset := m.take(clientIP, isAuthPath(r.URL.Path))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.generalMax))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(model.APIResponse{
				Success: false,
				Message: "Rate limit exceeded. Please try again later.",
				Error:   "RATE_LIMITED",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// take consumes one request from the client's current window and reports
// whether it was allowed, the general-tier quota left, and the window reset
// time.
func (m *RateLimitMiddleware) take(clientIP string, auth bool) (bool, int, time.Time) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	window := m.clients[clientIP]
	if window == nil {
		window = &clientWindow{windowStart: now}
		m.clients[clientIP] = window
		m.gcLocked(now)
	}

	if now.Sub(window.windowStart) >= m.window {
		window.windowStart = now
		window.generalCount = 0
		window.authCount = 0
	}
	window.lastSeen = now
	reset := window.windowStart.Add(m.window)

	allowed := window.generalCount < m.generalMax
	if auth {
		allowed = allowed && window.authCount < m.authMax
	}

	if allowed {
		window.generalCount++
		if auth {
			window.authCount++
		}
	}

	remaining := m.generalMax - window.generalCount
	if remaining < 0 {
		remaining = 0
	}

	return allowed, remaining, reset
}

// Status reports the current general-tier quota for an IP without consuming
// from it.
func (m *RateLimitMiddleware) Status(clientIP string) RateLimitStatus {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	status := RateLimitStatus{
		IP:         clientIP,
		Limit:      m.generalMax,
		Remaining:  m.generalMax,
		ResetTime:  now.Add(m.window),
		TimeWindow: m.window.String(),
	}

	window := m.clients[clientIP]
	if window == nil || now.Sub(window.windowStart) >= m.window {
		return status
	}

	status.Remaining = m.generalMax - window.generalCount
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	status.ResetTime = window.windowStart.Add(m.window)

	return status
}

// gcLocked drops state for IPs idle past a full window. Caller holds mu.
func (m *RateLimitMiddleware) gcLocked(now time.Time) {
	if len(m.clients) < 10000 {
		return
	}

	cutoff := now.Add(-m.window)
	for ip, window := range m.clients {
		if window.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}
