package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dahby/13-14-relationship-mapping/config"
	"github.com/dahby/13-14-relationship-mapping/internal/database"
	"github.com/dahby/13-14-relationship-mapping/internal/middleware"
	"github.com/dahby/13-14-relationship-mapping/internal/server"
	"github.com/dahby/13-14-relationship-mapping/internal/service"
)

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory holding SQL migrations")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	res, err := database.Open(ctx, cfg, *migrationsDir)
	if err != nil {
		logger.Error("failed to open food store", "error", err)
		os.Exit(1)
	}
	defer res.Close()

	opts := []server.Option{server.WithLogger(logger)}
	if res.Redis != nil && cfg.RateLimitWrites > 0 {
		opts = append(opts, server.WithRateLimiter(
			middleware.NewFoodWriteRateLimiter(res.Redis, cfg.RateLimitWrites, cfg.RateLimitWindow),
		))
	}

	srv := server.New(cfg, service.NewFoodService(res.Foods), opts...)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", "error", err)
			res.Close()
			os.Exit(1)
		}
		return
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
