package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/alert_publisher"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/api"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/assets"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/config"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/llm"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/provider"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/whale"
	"go.uber.org/zap"
)

const alchemyBaseURL = "https://eth-mainnet.g.alchemy.com/v2/%s"

func main() {
	// Initialize zap logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Load configuration from environment variables. Missing ALCHEMY_API_KEY
	// is fatal here; no valid call can ever succeed without it.
	cfg := config.NewConfig()

	logger.Info("Starting whale watcher with configuration",
		zap.Int("api_port", cfg.APIPort),
		zap.Int("cache_ttl_seconds", cfg.CacheTTLSeconds),
		zap.Float64("default_min_amount", cfg.DefaultMinAmount),
		zap.Bool("llm_enabled", cfg.OpenAIAPIKey != ""),
		zap.Bool("alerts_enabled", cfg.KafkaBroker != ""),
	)

	registry := assets.NewRegistry()
	providerClient := provider.NewClient(fmt.Sprintf(alchemyBaseURL, cfg.AlchemyAPIKey))

	service := whale.NewService(providerClient, registry, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)

	// Optional Kafka whale-alert publisher
	if cfg.KafkaBroker != "" && cfg.KafkaTopic != "" {
		publisher, err := alert_publisher.NewAlertPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatal("Failed to create alert publisher", zap.Error(err))
		}
		defer publisher.Close()
		service.SetAlertSink(publisher)
	}

	// Optional LLM commentary; the summary and chat endpoints return 503
	// when no credential is configured.
	var analyst api.Analyst
	if cfg.OpenAIAPIKey != "" {
		analyst = llm.NewAnalyst(cfg.OpenAIAPIKey, logger)
	}

	// Create and start API server
	apiServer := api.NewServer(cfg.APIPort, service, analyst, cfg.DefaultMinAmount, logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Fatal("API server failed", zap.Error(err))
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Received shutdown signal, starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Stop(ctx); err != nil {
		logger.Error("Error shutting down API server", zap.Error(err))
	}

	logger.Info("Application shutdown complete")
}
