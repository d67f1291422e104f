package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/monkmode/adapter/cli"
	"github.com/felixgeelhaar/monkmode/internal/app"
	"github.com/felixgeelhaar/monkmode/pkg/config"
	"github.com/felixgeelhaar/monkmode/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", slog.String("error", err.Error()))
		cfg = &config.Config{AppEnv: "development"}
	}

	cli.SetLogger(logger)

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// Commands that need storage will explain themselves.
			logger.Warn("failed to initialize application, running in limited mode",
				slog.String("error", err.Error()))
		} else {
			logger.Error("failed to initialize application", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		defer container.Close()
		cli.SetApp(container)
	}

	cli.Execute()
}
