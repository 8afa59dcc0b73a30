package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giannis84/course-catalog/internal"
	"github.com/giannis84/course-catalog/internal/config"
	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/routes"
)

func main() {
	// Load configuration first so the log level can be applied
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("").Error("failed to load configuration", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	logger.Info("configuration loaded",
		slog.String("api_addr", cfg.APIAddr()),
		slog.String("health_addr", cfg.HealthAddr()),
		slog.Bool("unsigned_tokens", cfg.AllowUnsignedTokens),
	)

	// Connect to PostgreSQL, apply migrations and seed the catalog
	db, err := database.Connect(cfg.PostgresConnString())
	if err != nil {
		logger.Error("failed to initialise database", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database ready")

	// Create health check and course catalog http services
	healthService := internal.NewService(internal.ServiceConfig{
		Addr:   cfg.HealthAddr(),
		Logger: logger,
		Routes: routes.RegisterHealthRoutes(db),
	})
	apiService := internal.NewService(internal.ServiceConfig{
		Addr:   cfg.APIAddr(),
		Logger: logger,
		Routes: routes.RegisterAPIRoutes(routes.APIConfig{
			Store:     database.NewPostgresRepository(db),
			Auth:      cfg.AuthConfig(),
			RateLimit: cfg.RateLimitConfig(),
			CORS:      cfg.CORSConfig(),
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	// Start http service threads
	go func() {
		if err := healthService.ListenAndServeWrapper("health check api"); err != nil && err != http.ErrServerClosed {
			logger.Error("health check service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()
	go func() {
		if err := apiService.ListenAndServeWrapper("course catalog api"); err != nil && err != http.ErrServerClosed {
			logger.Error("course catalog service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	// Shutdown http service threads gracefully
	logger.Info("shutting down service", slog.String("signal", receivedSignal.String()))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiService.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("API service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	if err := healthService.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("health service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	logger.Info("exiting...")
}
