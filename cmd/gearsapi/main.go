package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grindgears/internal/config"
	"grindgears/internal/database"
	"grindgears/internal/gearsapi"
	"grindgears/internal/logger"
	"grindgears/internal/repository"
	"grindgears/internal/server"

	"go.uber.org/zap"
)

func gracefulShutdown(srv *server.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := srv.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func openStorage(cfg *config.Config, log *zap.Logger) (*repository.Repositories, *database.Service) {
	if cfg.GearsAPI.Storage == "memory" {
		log.Info("Using in-memory storage")
		return repository.NewMemory(), nil
	}

	dbService, err := database.New(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database health check", zap.Any("health", dbService.Health(context.Background())))

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully")

	return repository.NewPostgres(dbService.DB()), dbService
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting GrindGears API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.GearsAPI.Port),
		zap.String("storage", cfg.GearsAPI.Storage),
	)

	repos, dbService := openStorage(cfg, log)

	if cfg.GearsAPI.Seed {
		if err := gearsapi.Seed(context.Background(), repos, log); err != nil {
			log.Fatal("Failed to seed catalog", zap.Error(err))
		}
	}

	srv := server.NewGearsAPI(cfg, log, repos, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
