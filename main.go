package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	log "github.com/sirupsen/logrus"

	"subsdesk/cmd"
	"subsdesk/config"
	"subsdesk/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	cmd.SetupLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(cfg); err != nil {
				log.Fatalf("Migration error: %v", err)
			}
			return
		case "import-subscribers":
			if len(os.Args) < 3 {
				log.Fatal("usage: subsdesk import-subscribers <file.csv|file.xlsx>")
			}
			if err := cmd.Import(ctx, cfg, os.Args[2]); err != nil {
				log.Fatalf("Import error: %v", err)
			}
			return
		}
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx, cfg); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func handleMigrationCommand(cfg *config.Config) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: subsdesk migrate [up|down|status] [args...]")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}
	url := cfg.GetDatabaseURL()

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp(url)
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(url, steps)
	case "status":
		return database.MigrateStatus(url)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
