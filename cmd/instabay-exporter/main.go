package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ammaryasser21/Mini-instabay/internal/amqp"
	"github.com/ammaryasser21/Mini-instabay/internal/api"
	"github.com/ammaryasser21/Mini-instabay/internal/config"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/sheets"
	gsheet "github.com/ammaryasser21/Mini-instabay/internal/sheets/google"
	"github.com/ammaryasser21/Mini-instabay/internal/sheets/memory"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
	"github.com/ammaryasser21/Mini-instabay/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentExporter,
	})
	log.SetDefault(logger)

	logger.Info("Starting instabay exporter")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the exporter")
		os.Exit(1)
	}

	sessions, err := storage.NewSessionStore(cfg.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session store", log.FieldError, err, "path", cfg.SessionDBPath)
		os.Exit(1)
	}
	defer sessions.Close()

	txs := api.NewTransactionClient(cfg.TransactionServiceURL)

	var writer sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.NewWriter()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, exports go to an in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exportWorker := worker.NewExportWorker(sessions, txs, writer)

	go func() {
		if err := amqpClient.ConsumeReportExports(ctx, exportWorker.HandleExportMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
			cancel()
		}
	}()

	logger.Info("Exporter ready",
		log.FieldExchange, cfg.AMQPExchange, log.FieldQueue, cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}

	logger.Info("Exporter stopped gracefully")
}
