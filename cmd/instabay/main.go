package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ammaryasser21/Mini-instabay/internal/amqp"
	"github.com/ammaryasser21/Mini-instabay/internal/api"
	"github.com/ammaryasser21/Mini-instabay/internal/config"
	apphttp "github.com/ammaryasser21/Mini-instabay/internal/http"
	"github.com/ammaryasser21/Mini-instabay/internal/log"
	"github.com/ammaryasser21/Mini-instabay/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	sessions, err := storage.NewSessionStore(cfg.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session store", log.FieldError, err, "path", cfg.SessionDBPath)
		os.Exit(1)
	}
	defer sessions.Close()

	users := api.NewUserClient(cfg.UserServiceURL)
	txs := api.NewTransactionClient(cfg.TransactionServiceURL)
	reports := api.NewReportClient(cfg.ReportingServiceURL)

	// Report export is optional: without a broker the export button just
	// reports the feature as unavailable.
	var publisher apphttp.ExportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, report export disabled", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP connected",
				log.FieldExchange, cfg.AMQPExchange, log.FieldQueue, cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, logger, users, txs, reports, sessions, publisher, cfg.SessionTTL)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting instabay web client", "port", cfg.Port,
		"user_service", cfg.UserServiceURL,
		"transaction_service", cfg.TransactionServiceURL,
		"reporting_service", cfg.ReportingServiceURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
