package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"benri/internal/bot"
	"benri/internal/config"
	"benri/internal/line"
	"benri/internal/logging"
	"benri/internal/reminder"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "remind-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("BENRI_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Line.ValidateBot(); err != nil {
		return err
	}

	logger := logging.NewWriterLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	lineClient, err := line.NewClient(cfg.Line.ChannelAccessToken, logger)
	if err != nil {
		return err
	}

	metricsReg := prometheus.NewRegistry()
	metrics := bot.NewMetrics(metricsReg)
	notifier := bot.NewNotifier(lineClient, metrics)
	registry := reminder.NewRegistry(reminder.RegistryConfig{}, notifier, logger)

	server, err := bot.NewServer(cfg.Server, cfg.Line.ChannelSecret, lineClient,
		registry, metricsReg, logger, bot.WithMetrics(metrics))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry.Start(ctx)
	defer registry.Stop()

	return server.Run(ctx)
}
