package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/pawsuite/notify/internal/control"
	"github.com/pawsuite/notify/internal/core/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Pick up a local .env if present (optional in production)
	_ = godotenv.Load()

	// Load Configuration first (before setting up logger)
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Simplified logging logic (debug < info)
	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		}),
	))
	slog.Info("Logger initialized", "level", slogLevel.String())

	// Transform config
	controlCfg := control.Config{
		Port:     cfg.Server.Port,
		Database: cfg.Database,
		Redis:    cfg.Redis,
		Provider: cfg.Provider,
		Retry:    cfg.Retry,
		Waitlist: cfg.Waitlist,
	}

	// Initialize App
	app, err := control.New(controlCfg)
	if err != nil {
		slog.Error("Failed to initialize notify service", "error", err)
		os.Exit(1)
	}

	// Setup Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS Signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start App
	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start notify service", "error", err)
		os.Exit(1)
	}

	// Wait for Signal
	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	// Graceful Shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Notify service stopped gracefully")
}
