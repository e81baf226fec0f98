package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Dissonancell/trainee-telebot/internal/logger"
	"github.com/Dissonancell/trainee-telebot/internal/store"
)

const defaultFile = "videos.json"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	fileFlag := flag.String("file", defaultFile, "path to the videos export document")
	flag.Parse()

	_ = godotenv.Load()

	log := logger.New(*verboseFlag)

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return fmt.Errorf("DB_URL is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := store.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := store.New(store.Config{Logger: log, DB: db})
	if err != nil {
		return err
	}

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	f, err := os.Open(*fileFlag)
	if err != nil {
		return fmt.Errorf("failed to open videos document: %w", err)
	}
	defer f.Close()

	videos, snapshots, err := st.LoadVideos(ctx, f)
	if err != nil {
		return err
	}

	log.Info("load completed", "file", *fileFlag, "videos", videos, "snapshots", snapshots)
	return nil
}
