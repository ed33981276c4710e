// Command api runs the idiom community HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emilythestrangee/idiom-hub/backend/internal/config"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.SetLogger(observability.NewLogger(cfg.Env, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	httpServer := srv.HTTPServer()

	go func() {
		observability.Logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	observability.Logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server shutdown error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server resource shutdown error", "error", err)
	}
}
