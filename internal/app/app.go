package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-product-api/internal/config"
	"go-product-api/internal/database"
	"go-product-api/internal/handler"
	"go-product-api/internal/middleware"
	"go-product-api/internal/monitor"
	"go-product-api/internal/repository"
	"go-product-api/internal/router"
	"go-product-api/internal/service"
	"go-product-api/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	productRepo := repository.NewProductRepository(db.Pool)
	slog.Info("database ready")

	tokenService, err := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := service.NewAuthService(userRepo, tokenService)
	productService := service.NewProductService(productRepo)

	collector := monitor.NewCollector(monitor.Options{
		SlowThreshold:  cfg.SlowRequestThreshold,
		IgnorePaths:    cfg.LogIgnorePaths,
		IncludeHeaders: !cfg.Production(),
		IncludeBody:    !cfg.Production(),
		MaxBodyLength:  cfg.LogMaxBodyLength,
		Environment:    cfg.Environment,
	})
	healthService := service.NewHealthService(db, collector.StartedAt())

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitMax, cfg.AuthRateLimitMax, cfg.RateLimitWindow)

	appRouter := router.New(cfg, collector, authMiddleware, rateLimit, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(authService),
		Product:    handler.NewProductHandler(productService),
		Monitoring: handler.NewMonitoringHandler(collector, healthService, rateLimit),
	})

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go collector.StartCleanupTicker(cleanupCtx, time.Hour)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			cleanupCancel,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
