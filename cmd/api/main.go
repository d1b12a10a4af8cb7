package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voidecho/engine/internal/config"
	"github.com/voidecho/engine/internal/handlers"
	"github.com/voidecho/engine/internal/logger"
	"github.com/voidecho/engine/internal/middleware"
	"github.com/voidecho/engine/internal/services"
	"github.com/voidecho/engine/internal/session"
	"github.com/voidecho/engine/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Void Echo API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model_name", cfg.ModelName)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	oracle, err := services.NewGeminiOracle(ctx, cfg.GeminiAPIKey, cfg.ModelName, log)
	if err != nil {
		if errors.Is(err, services.ErrMissingAPIKey) {
			log.Error("GEMINI_API_KEY is required")
		} else {
			log.Error("Failed to initialize oracle", "error", err)
		}
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	if err := store.WaitForConnection(ctx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	manager := session.NewManager(oracle, store, log)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	gameHandler := handlers.NewGameHandler(manager, log)
	mux.Handle("/v1/game", gameHandler)
	mux.Handle("/v1/game/", gameHandler)

	mux.Handle("/v1/echoes", handlers.NewEchoesHandler(store, log))
	mux.Handle("/v1/archetypes", handlers.NewArchetypesHandler(log))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Drain in-flight requests first; they still need the store.
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// Let background chronicle passes finish before the store goes away
	manager.Wait()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
