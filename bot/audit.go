package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/bot/common"
	"subsdesk/events"
	"subsdesk/models"
)

// Auditor posts run records somewhere operators can read them
type Auditor interface {
	Post(ctx context.Context, embed *discordgo.MessageEmbed) error
}

// ChannelAuditor posts to a Discord channel
type ChannelAuditor struct {
	session   *discordgo.Session
	channelID string
}

// NewChannelAuditor creates an auditor for one channel
func NewChannelAuditor(session *discordgo.Session, channelID string) *ChannelAuditor {
	return &ChannelAuditor{session: session, channelID: channelID}
}

// Post sends the embed to the audit channel
func (a *ChannelAuditor) Post(ctx context.Context, embed *discordgo.MessageEmbed) error {
	_, err := a.session.ChannelMessageSendEmbed(a.channelID, embed, discordgo.WithContext(ctx))
	return err
}

// RegisterAuditSubscriptions posts completed runs and degraded enrichments
func RegisterAuditSubscriptions(bus *events.Bus, auditor Auditor) {
	bus.Subscribe(events.EventTypeRunCompleted, func(ctx context.Context, event events.Event) {
		run, ok := event.(events.RunCompletedEvent)
		if !ok {
			return
		}
		if err := auditor.Post(ctx, createRunEmbed(run)); err != nil {
			log.WithFields(log.Fields{
				"run_id": run.RunID,
				"error":  err,
			}).Error("Failed to post run audit")
		}
	})

	bus.Subscribe(events.EventTypeEnrichmentDegraded, func(ctx context.Context, event events.Event) {
		degraded, ok := event.(events.EnrichmentDegradedEvent)
		if !ok {
			return
		}
		if err := auditor.Post(ctx, createDegradedEmbed(degraded)); err != nil {
			log.WithFields(log.Fields{
				"run_id": degraded.RunID,
				"error":  err,
			}).Error("Failed to post degradation audit")
		}
	})
}

func createRunEmbed(run events.RunCompletedEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("✅ /%s", run.Tool),
		Description: fmt.Sprintf("Par **%s** %s", run.RequestedBy, common.FormatDiscordTimestamp(run.CompletedAt, "f")),
		Color:       common.ColorPrimary,
		Footer:      &discordgo.MessageEmbedFooter{Text: run.RunID},
		Fields: []*discordgo.MessageEmbedField{
			common.Field("Entrées", common.FormatList(run.Inputs, 3), false),
			common.Field("Fichiers", common.FormatList(run.Artifacts, 3), false),
		},
	}

	if len(run.Counts) > 0 {
		lines := make([]string, 0, len(models.Categories))
		for _, c := range models.Categories {
			lines = append(lines, fmt.Sprintf("%s: %s", c, common.FormatCount(run.Counts[c])))
		}
		embed.Fields = append(embed.Fields,
			common.Field("Catégories", strings.Join(lines, "\n"), true),
			common.Field("Envois", fmt.Sprintf("domestique: %s\nreste du monde: %s",
				common.FormatCount(run.Domestic), common.FormatCount(run.Foreign)), true))
	}
	if len(run.Warnings) > 0 {
		embed.Color = common.ColorWarning
		embed.Fields = append(embed.Fields, common.Field("Avertissements", strings.Join(run.Warnings, "\n"), false))
	}
	return embed
}

func createDegradedEmbed(degraded events.EnrichmentDegradedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚠️ %s indisponible", degraded.Collaborator),
		Description: common.TruncateField(degraded.Reason),
		Color:       common.ColorWarning,
		Footer:      &discordgo.MessageEmbedFooter{Text: degraded.RunID},
	}
}
