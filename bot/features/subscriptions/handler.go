package subscriptions

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"subsdesk/bot/common"
	"subsdesk/models"
	"subsdesk/report"
	"subsdesk/service"
)

func (f *Feature) handleAnalyze(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opts := common.NewOptions(data.Options)

	format, err := report.ParseFormat(opts.String(OptionFormat))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "subscription routing"), false)
		return
	}

	// Downloads and the smart filter can outlast the 3s interaction window
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring subscription analysis: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	files, err := f.fetcher.Fetch(ctx, opts.Attachments(data, OptionFile, OptionFile2, OptionFile3))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "attachment download"), true)
		return
	}

	result, err := f.routingService.Analyze(ctx, service.RoutingRequest{
		Files:           files,
		IncludeExternal: opts.Bool(OptionIncludeExternal),
		SmartFilter:     opts.Bool(OptionSmartFilter),
		RetainIDs:       ParseRetainIDs(opts.String(OptionRetainIDs)),
		RequestedBy:     common.Requester(i),
	})
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "subscription routing"), true)
		return
	}

	embed := createSummaryEmbed(result)

	artifacts, err := f.routingService.Render(ctx, result, opts.String(OptionPrefix), format)
	if errors.Is(err, models.ErrEmptyOutputName) {
		// The preview is still useful without files
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Aucun fichier généré: indiquez un préfixe pour télécharger les listes."}
		if _, err := common.FollowUpWithEmbed(s, i, embed, false); err != nil {
			log.Errorf("Error sending subscription preview: %v", err)
		}
		return
	}
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "subscription rendering"), true)
		return
	}

	if _, err := common.FollowUpWithFiles(s, i, embed, artifacts); err != nil {
		log.Errorf("Error sending subscription files: %v", err)
	}
}

// ParseRetainIDs splits a free-form list of subscription IDs on commas,
// semicolons and whitespace
func ParseRetainIDs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	return lo.Uniq(fields)
}
