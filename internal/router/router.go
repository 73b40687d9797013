package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-product-api/internal/config"
	"go-product-api/internal/handler"
	"go-product-api/internal/middleware"
	"go-product-api/internal/monitor"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Product    *handler.ProductHandler
	Monitoring *handler.MonitoringHandler
}

func New(
	cfg *config.Config,
	collector *monitor.Collector,
	authMiddleware *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()

	// Collector first so duration measurement brackets everything else.
	r.Use(collector.Middleware)
	r.Use(middleware.Recovery(!cfg.Production()))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimit.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.Monitoring.Health)
	r.Method(http.MethodGet, "/metrics", monitor.PrometheusHandler())

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
		auth.With(authMiddleware.RequireAuth).Get("/profile", h.Auth.Profile)
	})

	r.With(authMiddleware.RequireAuth).Get("/users", h.User.List)

	r.Route("/products", func(products chi.Router) {
		products.Use(authMiddleware.RequireAuth)
		products.Get("/", h.Product.List)
		products.Post("/", h.Product.Create)
		products.Get("/{id}", h.Product.Get)
		products.Put("/{id}", h.Product.Update)
		products.Delete("/{id}", h.Product.Delete)
	})

	r.Route("/api/monitoring", func(mon chi.Router) {
		mon.Get("/metrics", h.Monitoring.Metrics)
		mon.Post("/reset", h.Monitoring.Reset)
		mon.Get("/health-detailed", h.Monitoring.HealthDetailed)
		mon.Get("/rate-limit-status", h.Monitoring.RateLimitStatus)
	})

	return r
}
