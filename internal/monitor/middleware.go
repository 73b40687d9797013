package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader    = "X-Request-ID"
	responseTimeHeader = "X-Response-Time"
	apiVersionHeader   = "X-API-Version"
	apiVersion         = "1.0.0"

	// maxCapturedBody bounds how much of a request body is read for logging.
	maxCapturedBody = 64 * 1024
)

type contextKey string

const requestContextKey contextKey = "request_context"

// RequestContext is the explicit per-request value populated once at entry,
// replacing ad-hoc fields attached to the request object.
type RequestContext struct {
	ID    string
	Start time.Time
}

// RequestContextFrom returns the request-scoped monitoring context, if any.
func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok
}

// envelope is the minimal shape needed to pull the error code out of a
// captured error response body.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Middleware is the outermost element of the chain so that duration
// measurement brackets all other processing. It assigns the request ID,
// counts the endpoint, stamps the response headers, and on completion
// records duration, slow requests and error kinds.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		start := c.now()
		endpoint := r.Method + " " + r.URL.Path
		ignored := c.ignoredPath(r.URL.Path)

		c.ObserveRequest(endpoint)

		header := w.Header()
		header.Set(requestIDHeader, requestID)
		header.Set(apiVersionHeader, apiVersion)
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		header.Set("Pragma", "no-cache")
		header.Set("Expires", "0")

		if !ignored {
			c.logRequest(r, requestID)
		}

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK, start: start, clock: c.now}
		ctx := context.WithValue(r.Context(), requestContextKey, &RequestContext{ID: requestID, Start: start})

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		duration := c.now().Sub(start)

		if duration > c.opts.SlowThreshold {
			c.ObserveSlow(endpoint, duration)
			slog.Warn("slow request detected",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", duration.Milliseconds(),
				"threshold_ms", c.opts.SlowThreshold.Milliseconds())
		}

		if wrapped.status >= 400 {
			c.ObserveError(classifyError(wrapped))
		}

		recordHTTPMetrics(r.Method, r.URL.Path, wrapped.status, duration)

		if !ignored {
			c.logCompletion(r, requestID, wrapped.status, duration)
		}
	})
}

func (c *Collector) ignoredPath(path string) bool {
	for _, prefix := range c.opts.IgnorePaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (c *Collector) logRequest(r *http.Request, requestID string) {
	attrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"client_ip", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	}

	if c.opts.IncludeHeaders {
		attrs = append(attrs, "headers", SanitizeHeaders(r.Header))
	}

	if c.opts.IncludeBody && r.Body != nil && r.Body != http.NoBody {
		if body := captureBody(r); len(body) > 0 {
			attrs = append(attrs, "body", SanitizeBody(body, c.opts.MaxBodyLength))
		}
	}

	slog.Info("request received", attrs...)
}

func (c *Collector) logCompletion(r *http.Request, requestID string, status int, duration time.Duration) {
	attrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
	}

	switch {
	case status >= 500:
		slog.Error("request completed", attrs...)
	case status >= 400:
		slog.Warn("request completed", attrs...)
	default:
		slog.Info("request completed", attrs...)
	}
}

// captureBody reads a bounded prefix of the request body for logging and
// splices it back so the handler still sees the full stream.
func captureBody(r *http.Request) []byte {
	captured, err := io.ReadAll(io.LimitReader(r.Body, maxCapturedBody))
	if err != nil {
		return nil
	}

	r.Body = replayBody{
		Reader: io.MultiReader(bytes.NewReader(captured), r.Body),
		Closer: r.Body,
	}

	return captured
}

type replayBody struct {
	io.Reader
	io.Closer
}

// classifyError keys the error counter by the envelope code from the
// captured response body, falling back to the status class.
func classifyError(rw *responseWriter) string {
	if rw.body.Len() > 0 {
		var parsed envelope
		if err := json.Unmarshal(rw.body.Bytes(), &parsed); err == nil && parsed.Error != "" {
			return parsed.Error
		}
	}
	return "HTTP_" + strconv.Itoa(rw.status)
}

// responseWriter computes the elapsed duration when the status line is
// written, which is the last moment a response header can still be set.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	start       time.Time
	clock       func() time.Time
	body        bytes.Buffer
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.status = statusCode
	rw.wroteHeader = true

	elapsed := rw.clock().Sub(rw.start)
	rw.Header().Set(responseTimeHeader, fmt.Sprintf("%dms", elapsed.Milliseconds()))

	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	// Capture error bodies only, so the error kind can be classified.
	if rw.status >= 400 {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}
