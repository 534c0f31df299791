package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Tomlord1122/todo-memory/internal/config"
	"github.com/Tomlord1122/todo-memory/internal/logger"
	"github.com/Tomlord1122/todo-memory/internal/repository"
	"github.com/Tomlord1122/todo-memory/internal/server"
	"github.com/Tomlord1122/todo-memory/internal/service"
)

func gracefulShutdown(apiServer *http.Server, cfg *config.Config, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight requests get cfg.ShutdownTimeout to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exiting")

	done <- true
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	for _, w := range cfg.Warnings {
		slog.Warn(w)
	}

	// The store lives for the whole process; todos are gone once it exits.
	todoRepo := repository.NewMemoryTodoRepository()
	todoService := service.NewTodoService(todoRepo)

	apiServer := server.NewServer(cfg, todoService, todoRepo)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, cfg, done)

	slog.Info("todo backend server running", "addr", apiServer.Addr, "cors_origins", cfg.AllowedOrigins)
	err := apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server ListenAndServe error", "error", err)
	}

	<-done
	slog.Info("graceful shutdown complete")
}
