package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(log.New(log.Config{Component: log.ComponentApp}))

	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	logger := cli.SetupLogger(level)
	repo := cli.OpenRepository(logger, cfg.DBPath)
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", log.FieldError, err)
		}
	}()

	svc := services.New(repo)
	app := cli.NewApp(svc, cfg)

	// SIGINT is handled inside the app as a per-prompt abort; SIGTERM
	// cancels the context, which the menu loop treats as exit.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting fintrack", log.FieldPath, cfg.DBPath)
	if err := app.Run(ctx); err != nil {
		logger.Error("Application error", log.FieldError, err)
		os.Exit(1)
	}
}
