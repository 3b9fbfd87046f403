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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/gateway"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/logger"
)

func main() {
	// Optional .env with the blob store token
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Open the local cache
	cache, err := database.OpenLocalCache(cfg.Database.DSN, cfg.Journal.Namespace)
	if err != nil {
		log.Fatal("Failed to open local cache", zap.Error(err))
	}

	var remote gateway.TradeStore
	if cfg.Gateway.BaseURL != "" {
		remote = gateway.NewClient(&cfg.Gateway, log)
	} else {
		log.Warn("No gateway configured, running on the local cache only")
	}

	session := journal.NewSession(log, cache, remote, cfg.Journal.SyncTimeout())
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Gateway.Timeout()*time.Duration(max(1, cfg.Gateway.MaxRetries))+5*time.Second)
	session.Load(loadCtx)
	cancelLoad()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           NewRouter(NewAPIHandler(log, session)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting web server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Web server shutdown failed", zap.Error(err))
	}
	// Let in-flight syncs finish before exit.
	session.Close()
	log.Info("Dashboard has been shut down.")
}
