package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resizeit/internal/api"
	"resizeit/internal/cache"
	"resizeit/internal/config"
	"resizeit/internal/service"
	"resizeit/internal/storage"
	"resizeit/pkg/logger"

	"go.uber.org/zap"
)

const (
	AppName    = "Resizeit"
	AppVersion = "1.0.0"

	ShutdownTimeout = 30 * time.Second

	// Startup retries against the storage endpoint
	storageRetries = 5
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed to start: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting "+AppName,
		zap.String("version", AppVersion),
		zap.String("addr", cfg.ListenAddr()),
		zap.Bool("development", cfg.IsDevelopment()))

	logger.Info("Initializing S3 storage...")
	store, err := storage.NewS3Store(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := initStorageWithRetry(store); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}

	logger.Info("Initializing fast cache...",
		zap.Bool("enabled", cfg.FastCache.Enabled),
		zap.String("type", cfg.FastCache.Type))
	fastCache, err := cache.New(&cfg.FastCache)
	if err != nil {
		return fmt.Errorf("failed to initialize fast cache: %w", err)
	}
	defer func() {
		if err := fastCache.Close(); err != nil {
			logger.Error("Failed to close fast cache", zap.Error(err))
		}
	}()

	logger.Info("Initializing services...")
	monitor := service.NewMonitor()

	assets := func(ctx context.Context, path string) ([]byte, error) {
		data, _, err := store.Get(ctx, path)
		return data, err
	}
	engine := service.NewEngine(cfg, assets, monitor)

	imageService := service.NewImageService(store, fastCache, engine, monitor, cfg)
	adminService := service.NewAdminService(store, fastCache, monitor)

	logger.Info("Initializing API router...")
	router := api.NewRouter(cfg, imageService, adminService, monitor)
	defer router.Stop()

	server := &http.Server{
		Addr:           cfg.ListenAddr(),
		Handler:        router.GetEngine(),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", server.Addr),
			zap.String("mode", cfg.Server.GinMode))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	logger.Info(AppName+" started successfully",
		zap.String("version", AppVersion),
		zap.String("addr", cfg.ListenAddr()))

	return waitForShutdown(server, serverErrChan)
}

// initStorageWithRetry probes the bucket with exponential backoff so a
// container start does not race its storage dependency
func initStorageWithRetry(store storage.ObjectStore) error {
	var err error
	for attempt := 0; attempt < storageRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = store.Initialize(ctx)
		cancel()
		if err == nil {
			return nil
		}

		wait := time.Duration(1<<attempt) * time.Second
		logger.Warn("Storage not ready, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))
		time.Sleep(wait)
	}
	return err
}

// waitForShutdown waits for shutdown signal and gracefully shuts down the server
func waitForShutdown(server *http.Server, serverErrChan chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return err
	case sig := <-quit:
		logger.Info("Received shutdown signal, starting graceful shutdown...",
			zap.String("signal", sig.String()))
		return gracefulShutdown(server)
	}
}

// gracefulShutdown drains in-flight requests before exiting
func gracefulShutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...",
		zap.Duration("timeout", ShutdownTimeout))

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to gracefully shutdown server", zap.Error(err))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server shut down successfully")
	return nil
}
