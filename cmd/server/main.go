package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dementia-care/backend/internal/api"
	"github.com/dementia-care/backend/internal/config"
	"github.com/dementia-care/backend/internal/logging"
	"github.com/dementia-care/backend/internal/repository/postgres"
	redisrepo "github.com/dementia-care/backend/internal/repository/redis"
	"github.com/dementia-care/backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.LogLevel, cfg.LogFormat, "dementia-care-backend")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	// Initialize database
	gormLevel := logger.Warn
	if cfg.Environment == "development" {
		gormLevel = logger.Info
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLevel)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	if cfg.BlacklistBackend == config.BlacklistBackendRedis {
		client := redisrepo.NewClient(redisrepo.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisrepo.Ping(pingCtx, client)
		cancel()
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		repos.Blacklist = redisrepo.NewTokenBlacklist(client)
	}
	zl.Info("token blacklist ready", zap.String("backend", cfg.BlacklistBackend))

	// Initialize services
	services := service.NewServices(repos, cfg, zl)

	// Initialize router
	router := api.NewRouter(services, cfg, zl)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Fatal("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server stopped")
}
