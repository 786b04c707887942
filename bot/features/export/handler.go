package export

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/bot/common"
	"subsdesk/report"
	"subsdesk/service"
)

func (f *Feature) handleExport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opts := common.NewOptions(data.Options)

	prefix := opts.String(OptionPrefix)
	if report.SanitizeName(prefix) == "" {
		common.RespondWithError(s, i, "Indiquez un préfixe pour les fichiers.")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring export: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	files, err := f.fetcher.Fetch(ctx, opts.Attachments(data, OptionFile))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "attachment download"), true)
		return
	}
	if len(files) == 0 {
		common.FollowUpWithError(s, i, "Aucun fichier reçu.")
		return
	}

	result, err := f.exportService.Export(ctx, files[0], prefix, common.Requester(i))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "shipping export"), true)
		return
	}

	if _, err := common.FollowUpWithFiles(s, i, createExportEmbed(result), result.Artifacts); err != nil {
		log.Errorf("Error sending export files: %v", err)
	}
}

func createExportEmbed(result *service.ExportResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📄 Export des expéditions",
		Description: fmt.Sprintf("Inscriptions à partir du **%s** écartées.", common.FormatDate(result.Cutoff)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			common.Field("Conservés", common.FormatCount(result.Kept), true),
			common.Field("Inscrits trop tard", common.FormatCount(result.Late), true),
			common.Field(result.Routed.DomesticName, common.FormatCount(len(result.Routed.Domestic)), true),
			common.Field("Reste du monde", common.FormatCount(len(result.Routed.Foreign)), true),
		},
	}
	if len(result.InvalidDates) > 0 {
		embed.Color = common.ColorWarning
		ids := make([]string, len(result.InvalidDates))
		for i, d := range result.InvalidDates {
			ids[i] = d.RecordID
		}
		embed.Fields = append(embed.Fields, common.Field("⚠️ Dates illisibles", common.FormatList(ids, 20), false))
	}
	return embed
}
