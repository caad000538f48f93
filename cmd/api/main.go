// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	app "github.com/omer1kenan/backend/internal"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create and initialize the application
	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		if application.Logger != nil {
			application.Logger.Error("Failed to initialize application", zap.Error(err))
			_ = application.Logger.Sync()
		} else {
			fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		}
		os.Exit(1)
	}
	logger := application.Logger
	defer func() { _ = logger.Sync() }()

	// Start HTTP server
	server := &http.Server{
		Addr:         ":" + application.Config.ServerPort,
		Handler:      application.HTTPHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: application.Config.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     zap.NewStdLog(logger),
	}

	// Run server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", application.Config.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("Shutting down HTTP server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	exitCode := 0
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
		exitCode = 1
	}

	// Perform application-level shutdown (e.g., close DB connections)
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("Application shutdown failed", zap.Error(err))
		exitCode = 1
	}

	logger.Info("Application gracefully stopped.")
	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}
