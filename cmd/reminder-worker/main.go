package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ayush-madan/paypilot/internal/amqp"
	"github.com/ayush-madan/paypilot/internal/backend"
	"github.com/ayush-madan/paypilot/internal/billing"
	"github.com/ayush-madan/paypilot/internal/config"
	applog "github.com/ayush-madan/paypilot/internal/log"
	"github.com/ayush-madan/paypilot/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup(applog.ComponentReminder)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	stores, err := backend.Open(cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer stores.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	bills := billing.NewService(stores.Bills, billing.WithEvents(amqpClient))
	w := worker.NewReminderWorker(bills, stores.Reminders, amqpClient, cfg.ReminderInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Starting reminder worker",
		"interval", cfg.ReminderInterval.String(),
		"backend", cfg.DataBackend,
		"queue", cfg.AMQPReminderQueue)

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Reminder worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Reminder worker stopped gracefully")
}
