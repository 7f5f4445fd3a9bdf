// Command chat sends one message through the assistant from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RichardoC/venue-assistant/internal/config"
	"github.com/RichardoC/venue-assistant/internal/db"
	"github.com/RichardoC/venue-assistant/internal/llm"
	"github.com/RichardoC/venue-assistant/internal/logging"
	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/RichardoC/venue-assistant/internal/tools"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a config file")
	sessionID := flag.String("session", "", "session to continue (a new one is started when empty)")
	flag.Parse()

	message := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: chat [-config file] [-session id] <message>")
		os.Exit(2)
	}

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
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	model, err := llm.NewModel(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM", zap.Error(err))
	}

	svc := llm.New(model, database, tools.NewVenueRegistry(database, logger), logger, llm.WithTimeout(cfg.LLM.Timeout))

	session := models.Session{ID: *sessionID}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	reply, err := svc.Converse(context.Background(), session, message)
	if err != nil {
		logger.Fatal("failed to generate reply", zap.Error(err))
	}

	fmt.Println(reply)
	fmt.Fprintf(os.Stderr, "session: %s\n", session.ID)
}
