package thanks

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/bot/common"
	"subsdesk/report"
	"subsdesk/service"
)

func (f *Feature) handleMerge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opts := common.NewOptions(data.Options)

	name := opts.String(OptionName)
	if report.SanitizeName(name) == "" {
		common.RespondWithError(s, i, "Indiquez le nom du document.")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring thank-you merge: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	files, err := f.fetcher.Fetch(ctx, opts.Attachments(data, OptionList, OptionChanges))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "attachment download"), true)
		return
	}
	if len(files) != 2 {
		common.FollowUpWithError(s, i, "Joignez la liste des remerciements et la table des changements.")
		return
	}

	result, err := f.thanksService.Merge(ctx, files[0], files[1], name, common.Requester(i))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "thank-you merge"), true)
		return
	}

	if _, err := common.FollowUpWithFiles(s, i, createMergeEmbed(result), []report.Artifact{result.Artifact}); err != nil {
		log.Errorf("Error sending thank-you document: %v", err)
	}
}

func createMergeEmbed(result *service.ThanksResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🙏 Remerciements",
		Description: fmt.Sprintf("**%s** nom(s) dans %s", common.FormatCount(len(result.Merge.Names)), result.Artifact.Name),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			common.Field("Remplacés", common.FormatCount(result.Merge.Replaced), true),
			common.Field("Supprimés", common.FormatCount(result.Merge.Removed), true),
		},
	}
}
