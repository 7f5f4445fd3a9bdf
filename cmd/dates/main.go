// Command dates manages the venue's available dates without the web UI.
//
//	dates ls
//	dates add 2025-10-28
//	dates rm 3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/RichardoC/venue-assistant/internal/config"
	"github.com/RichardoC/venue-assistant/internal/db"
	"github.com/RichardoC/venue-assistant/internal/logging"
	"github.com/RichardoC/venue-assistant/internal/models"
	"go.uber.org/zap"
)

const usage = "usage: dates [-config file] ls | add <date> | rm <id>"

func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
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

	if err := run(context.Background(), database, args); err != nil {
		logger.Error("command failed", zap.Strings("args", args), zap.Error(err))
		database.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, database *db.Database, args []string) error {
	switch args[0] {
	case "ls":
		dates, err := database.ListAvailableDates(ctx)
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Println("No available dates have been added yet.")
		}
		for _, d := range dates {
			fmt.Printf("%d\t%s\n", d.ID, d.Day())
		}
		return nil

	case "add":
		if len(args) != 2 {
			return errors.New(usage)
		}
		day, err := models.ParseDay(args[1])
		if err != nil {
			return err
		}
		d, err := database.CreateAvailableDate(ctx, day)
		if errors.Is(err, db.ErrDuplicateDate) {
			fmt.Println("This date is already marked as available.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("added %d\t%s\n", d.ID, d.Day())
		return nil

	case "rm":
		if len(args) != 2 {
			return errors.New(usage)
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[1], err)
		}
		if err := database.DeleteAvailableDate(ctx, id); err != nil {
			return err
		}
		fmt.Printf("removed %d\n", id)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}
