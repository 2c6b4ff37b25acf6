package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wschat-service/internal/config"
	"wschat-service/internal/messenger"
	"wschat-service/internal/presence"
	"wschat-service/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("Starting chat relay")

	opts := []messenger.Option{messenger.WithLogger(logger)}

	// Presence mirroring is optional: without Redis the relay runs the same,
	// it just stops exporting who is online.
	if cfg.Redis.URL != "" {
		tracker, err := presence.Connect(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Presence disabled, Redis unreachable", "error", err)
		} else {
			defer tracker.Close()
			opts = append(opts, messenger.WithPresence(tracker))
			logger.Info("Presence mirroring enabled")
		}
	}

	msgr := messenger.New(opts...)
	srv := server.New(cfg, msgr, logger)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		var err error
		if cfg.Server.TLSCert != "" && cfg.Server.TLSKey != "" {
			logger.Info("Server starting with TLS", "address", httpServer.Addr)
			err = httpServer.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			logger.Info("Server starting", "address", httpServer.Addr)
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
