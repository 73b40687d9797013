package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go-product-api/internal/model"
)

// Recovery turns a handler panic into a 500 envelope. The stack trace is
// logged only when includeStack is set, which is disabled in production-like
// mode.
func Recovery(includeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					attrs := []any{"error", fmt.Sprintf("%v", recovered), "path", r.URL.Path}
					if includeStack {
						attrs = append(attrs, "stack", string(debug.Stack()))
					}
					slog.Error("panic recovered", attrs...)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(model.APIResponse{
						Success: false,
						Message: "Unexpected server error",
						Error:   "INTERNAL_ERROR",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
