package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocare-backend/config"
	"autocare-backend/internal/api"
	"autocare-backend/internal/booking"
	"autocare-backend/internal/db"
	"autocare-backend/internal/model"
	"autocare-backend/internal/notification"
	"autocare-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "autocare-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Notification pipeline: dispatcher behind a worker pool so status
	// transitions never wait on provider calls.
	dispatcher := notification.NewDispatcher(&cfg.Notify)
	workers := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, dispatcher)
	workers.Start(ctx)

	releaseFrom := make([]model.BookingStatus, 0, len(cfg.Booking.ReleaseOnCancelFrom))
	for _, s := range cfg.Booking.ReleaseOnCancelFrom {
		releaseFrom = append(releaseFrom, model.BookingStatus(s))
	}

	allocator := booking.NewAllocator(appStore, workers)
	lifecycle := booking.NewLifecycle(appStore, allocator, workers, releaseFrom)

	// Initialize router
	router := api.NewRouter(appStore, allocator, lifecycle, dispatcher, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
