package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichardoC/venue-assistant/internal/api"
	"github.com/RichardoC/venue-assistant/internal/config"
	"github.com/RichardoC/venue-assistant/internal/db"
	"github.com/RichardoC/venue-assistant/internal/llm"
	"github.com/RichardoC/venue-assistant/internal/logging"
	"github.com/RichardoC/venue-assistant/internal/tools"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	database, err := db.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("driver", cfg.Database.Driver))
	}
	defer database.Close()

	model, err := llm.NewModel(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM", zap.Error(err))
	}
	if !cfg.LLM.Mock && cfg.LLM.APIKey == "" {
		logger.Warn("no LLM API key configured, model calls will be rejected upstream")
	}

	registry := tools.NewVenueRegistry(database, logger)
	llmService := llm.New(model, database, registry, logger, llm.WithTimeout(cfg.LLM.Timeout))

	handler := api.NewHandler(database, llmService, logger)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Routes(cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("model", cfg.LLM.Model),
			zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down gracefully", zap.Error(err))
	}
}
