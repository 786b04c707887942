package variants

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"subsdesk/bot/common"
	"subsdesk/models"
	"subsdesk/report"
	"subsdesk/service"
)

const variantsPerSection = 5

func (f *Feature) handleAnalyze(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opts := common.NewOptions(data.Options)

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring variant analysis: %v", err)
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

	products := service.ParseProducts(opts.String(OptionProducts))
	result, err := f.variantService.Analyze(ctx, files[0], products, common.Requester(i))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "variant analysis"), true)
		return
	}

	if _, err := common.FollowUpWithFiles(s, i, createVariantEmbed(result.Report), []report.Artifact{result.Artifact}); err != nil {
		log.Errorf("Error sending variant spreadsheet: %v", err)
	}
}

func createVariantEmbed(rep *models.VariantReport) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🧩 Variants",
		Description: fmt.Sprintf("**%s** client(s), **%s** combinaison(s) distincte(s), %d pays",
			common.FormatCount(rep.Users), common.FormatCount(rep.UniqueVariants), len(rep.Countries)),
		Color: common.ColorInfo,
	}

	for _, section := range lo.Slice(rep.Sections, 0, common.MaxEmbedFields) {
		lines := lo.Map(lo.Slice(section.Variants, 0, variantsPerSection), func(v models.VariantStat, _ int) string {
			return fmt.Sprintf("%s: **%d**", v.Key, v.Total())
		})
		if extra := len(section.Variants) - variantsPerSection; extra > 0 {
			lines = append(lines, fmt.Sprintf("… et %d autre(s)", extra))
		}
		embed.Fields = append(embed.Fields, common.Field(section.Title, strings.Join(lines, "\n"), false))
	}
	return common.FitEmbed(embed)
}
