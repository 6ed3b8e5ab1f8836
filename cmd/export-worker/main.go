package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ayush-madan/paypilot/internal/amqp"
	"github.com/ayush-madan/paypilot/internal/backend"
	"github.com/ayush-madan/paypilot/internal/config"
	applog "github.com/ayush-madan/paypilot/internal/log"
	"github.com/ayush-madan/paypilot/internal/sheets"
	sheetsgoogle "github.com/ayush-madan/paypilot/internal/sheets/google"
	sheetsmemory "github.com/ayush-madan/paypilot/internal/sheets/memory"
	"github.com/ayush-madan/paypilot/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup(applog.ComponentExport)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporter sheets.BillExporter
	if cfg.SheetsEnabled() {
		client, err := sheetsgoogle.New(ctx, sheetsgoogle.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Exporting to Google Sheets",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		exporter = sheetsmemory.New()
		logger.Warn("No spreadsheet configured - exported rows are kept in memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewExportWorker(stores.Bills, exporter)

	logger.Info("Starting export worker",
		"backend", cfg.DataBackend,
		"queue", cfg.AMQPExportQueue,
		"prefetch", cfg.ExportBatchSize)

	err = amqpClient.ConsumeBillPaid(ctx, cfg.ExportBatchSize, func(msg *amqp.BillPaidMessage) error {
		return w.HandleBillPaid(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Export worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Export worker stopped gracefully")
}
