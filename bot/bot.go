package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/bot/common"
	"subsdesk/bot/features/export"
	"subsdesk/bot/features/subscriptions"
	"subsdesk/bot/features/thanks"
	"subsdesk/bot/features/variants"
	"subsdesk/events"
	"subsdesk/service"
)

// Config holds bot configuration
type Config struct {
	Token          string
	GuildID        string
	AuditChannelID string
}

type Bot struct {
	config        Config
	session       *discordgo.Session
	subscriptions *subscriptions.Feature
	export        *export.Feature
	thanks        *thanks.Feature
	variants      *variants.Feature
	eventBus      *events.Bus
}

func New(config Config, routingService service.RoutingService, exportService service.ExportService, thanksService service.ThanksService, variantService service.VariantService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	fetcher := common.NewHTTPFetcher(common.CommandTimeout, common.MaxAttachmentBytes)

	bot := &Bot{
		config:        config,
		session:       dg,
		subscriptions: subscriptions.New(routingService, fetcher),
		export:        export.New(exportService, fetcher),
		thanks:        thanks.New(thanksService, fetcher),
		variants:      variants.New(variantService, fetcher),
		eventBus:      eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.AuditChannelID != "" && eventBus != nil {
		RegisterAuditSubscriptions(eventBus, NewChannelAuditor(dg, config.AuditChannelID))
		log.WithField("channel_id", config.AuditChannelID).Info("Run audit posting enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case CommandSubscriptions:
		b.subscriptions.HandleCommand(s, i)
	case CommandExport:
		b.export.HandleCommand(s, i)
	case CommandThanks:
		b.thanks.HandleCommand(s, i)
	case CommandVariants:
		b.variants.HandleCommand(s, i)
	}
}
