package main

import (
	"log/slog"
	"os"
	"strings"

	"go-product-api/internal/app"
	"go-product-api/internal/logger"
)

func main() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	// JSON logs in production-like mode, colored output otherwise.
	if strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
	} else {
		slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, opts)))
	}

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
