package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/felixgeelhaar/monkmode/internal/app"
	"github.com/felixgeelhaar/monkmode/pkg/config"
	"github.com/felixgeelhaar/monkmode/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting monkmode worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer container.Close()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SweepSchedule, func() {
		if _, err := container.Sweep.Run(ctx); err != nil {
			logger.Error("sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		logger.Error("invalid sweep schedule",
			slog.String("schedule", cfg.SweepSchedule),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("sweep scheduled", slog.String("schedule", cfg.SweepSchedule))

	server := &http.Server{
		Addr:         cfg.WorkerHealthAddr,
		Handler:      healthHandler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("health endpoint listening", slog.String("addr", cfg.WorkerHealthAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
}

func healthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return mux
}
