package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"subsdesk/bot"
	"subsdesk/config"
	"subsdesk/database"
	"subsdesk/enrich"
	"subsdesk/events"
	"subsdesk/repository"
	"subsdesk/service"
)

// SetupLogging applies the configured level; production logs are JSON
func SetupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	log.Info("Starting subsdesk bot...")

	// Initialize event bus
	eventBus := events.NewBus()
	registerRunLogging(eventBus)

	// Optional collaborators: a failure here only disables the feature
	var sources []enrich.SubscriberSource
	var db *database.DB
	if cfg.DatabaseURL != "" {
		log.Info("Connecting to database...")
		conn, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), cfg.ExternalCallTimeout)
		if err != nil {
			log.WithError(err).Warn("External subscriber database unavailable")
		} else {
			db = conn
			sources = append(sources, enrich.NewPostgresSubscriberSource(repository.NewExternalSubscriberRepository(db)))
			log.Info("Database connection established successfully")
		}
	}

	var mongoSource *enrich.MongoSubscriberSource
	if cfg.MongoURL != "" {
		src, err := enrich.NewMongoSubscriberSource(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			log.WithError(err).Warn("External subscriber collection unavailable")
		} else {
			mongoSource = src
			sources = append(sources, src)
			log.WithFields(log.Fields{
				"database":   cfg.MongoDatabase,
				"collection": cfg.MongoCollection,
			}).Info("External subscriber collection configured")
		}
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	routingOpts := service.RoutingOptions{
		Policy:      policy,
		Route:       cfg.RouteOptions(),
		Zone:        cfg.Location,
		Sources:     sources,
		CallTimeout: cfg.ExternalCallTimeout,
	}
	if cfg.SmartFilterEnabled() {
		completer, err := enrich.NewGenAICompleter(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			log.WithError(err).Warn("Smart filter unavailable")
		} else {
			routingOpts.Reviewer = enrich.NewSmartFilter(completer, cfg.ExternalCallTimeout)
			log.Info("Smart filter enabled")
		}
	}

	// Initialize services
	routingService := service.NewRoutingService(routingOpts, eventBus)
	exportService := service.NewExportService(cfg.Location, cfg.CutoffDay, cfg.DomesticCountryName, nil, eventBus)
	thanksService := service.NewThanksService(nil, eventBus)
	variantService := service.NewVariantService(nil, eventBus)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:          cfg.DiscordToken,
		GuildID:        cfg.GuildID,
		AuditChannelID: cfg.AuditChannelID,
	}
	discordBot, err := bot.New(botConfig, routingService, exportService, thanksService, variantService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.WithFields(log.Fields{
		"environment":      cfg.Environment,
		"external_sources": len(sources),
		"smart_filter":     routingOpts.Reviewer != nil,
	}).Info("Bot is running")
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mongoSource != nil {
		if err := mongoSource.Close(shutdownCtx); err != nil {
			log.WithError(err).Error("Error closing mongo client")
		}
	}
	if db != nil {
		log.Info("Closing database connection...")
		db.Close()
	}

	log.Info("Shutdown completed")
	return nil
}

// Import replaces the stored external subscriber list with the rows of path
func Import(ctx context.Context, cfg *config.Config, path string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to import external subscribers")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), cfg.ExternalCallTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	importService := service.NewImportService(repository.NewExternalSubscriberRepository(db), nil)
	n, err := importService.Import(ctx, service.InputFile{Name: path, Data: data})
	if err != nil {
		return err
	}

	log.WithField("count", n).Info("External subscribers imported")
	return nil
}

func registerRunLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeRunCompleted, func(ctx context.Context, event events.Event) {
		run, ok := event.(events.RunCompletedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"run_id":       run.RunID,
			"tool":         run.Tool,
			"requested_by": run.RequestedBy,
			"inputs":       run.Inputs,
			"artifacts":    run.Artifacts,
			"warnings":     len(run.Warnings),
		}).Info("Run recorded")
	})
}
