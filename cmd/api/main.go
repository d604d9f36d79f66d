package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patrol-verifier/internal/core/cache"
	"patrol-verifier/internal/core/config"
	"patrol-verifier/internal/core/database"
	"patrol-verifier/internal/core/logger"
	"patrol-verifier/internal/core/server"
	"patrol-verifier/internal/features/reports"

	"go.uber.org/zap"
)

// @title Patrol Verifier API
// @version 1.0
// @description This API verifies uploaded guard patrol GPS tracks against the planned checkpoints of a shift's route.
// @contact.name API Support
// @contact.email support@patrolverifier.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Connect(startupCtx, cfg.Database)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(startupCtx, db); err != nil {
		l.Fatal("Database migration failed", zap.Error(err))
	}

	checks := map[string]server.PingFunc{
		"postgres": db.PingContext,
	}

	// The route cache is optional; the service runs uncached when Redis is unavailable.
	var routeCache cache.Cache
	if cfg.Redis.URL != "" {
		redisAdapter, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Warn("Invalid Redis configuration, route cache disabled", zap.Error(err))
		} else if err := redisAdapter.Ping(startupCtx); err != nil {
			l.Warn("Redis unreachable, route cache disabled", zap.Error(err))
			_ = redisAdapter.Close()
		} else {
			l.Info("Route cache enabled", zap.Duration("ttl", cfg.Redis.RouteCacheTTL()))
			routeCache = redisAdapter
			checks["redis"] = redisAdapter.Ping
			defer redisAdapter.Close()
		}
	}

	reportsModule := reports.Build(cfg, db, routeCache, l)

	srv := server.New(cfg)

	// Register Routes
	server.NewHealthChecker(checks).Register(srv.App)
	reportsModule.RegisterRoutes(srv.App)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("Shutting down server")
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
