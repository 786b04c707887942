package subscriptions

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"subsdesk/bot/common"
	"subsdesk/models"
	"subsdesk/service"
)

var categoryLabels = map[models.Category]string{
	models.CategoryActive:            "Actifs",
	models.CategoryRetainedCancelled: "Annulés conservés",
	models.CategoryDroppedCancelled:  "Annulés écartés",
	models.CategoryExcludedTest:      "Comptes de test",
	models.CategoryExcludedLate:      "Inscrits après la date limite",
	models.CategoryExcludedOther:     "Autres statuts",
}

// createSummaryEmbed previews one routing run: category counts, bucket sizes
// and the first rows of each bucket
func createSummaryEmbed(result *service.RoutingResult) *discordgo.MessageEmbed {
	counts := result.Batch.Counts()
	routed := result.Routed

	embed := &discordgo.MessageEmbed{
		Title: "📦 Abonnements à expédier",
		Description: fmt.Sprintf("Date limite: **%s**\n%s enregistrement(s) lus depuis %s",
			common.FormatDate(result.Cutoff),
			common.FormatCount(len(result.Batch.Entries)),
			common.FormatList(result.Inputs, 3)),
		Color: common.ColorSuccess,
	}

	for _, c := range models.Categories {
		embed.Fields = append(embed.Fields, common.Field(categoryLabels[c], common.FormatCount(counts[c]), true))
	}

	embed.Fields = append(embed.Fields,
		common.Field(routed.DomesticName, fmt.Sprintf("**%s** envoi(s)\n%s",
			common.FormatCount(len(routed.Domestic)), previewRows(routed.Domestic)), false),
		common.Field("Reste du monde", fmt.Sprintf("**%s** envoi(s)\n%s",
			common.FormatCount(len(routed.Foreign)), previewRows(routed.Foreign)), false),
	)

	if result.ExternalAdded > 0 {
		embed.Fields = append(embed.Fields, common.Field("Abonnés externes", common.FormatCount(result.ExternalAdded), true))
	}
	if len(result.SmartRetained) > 0 {
		embed.Fields = append(embed.Fields, common.Field("Conservés par le filtre intelligent",
			common.FormatList(result.SmartRetained, 15), false))
	}
	if len(result.Warnings) > 0 {
		embed.Color = common.ColorWarning
		embed.Fields = append(embed.Fields, common.Field("⚠️ Avertissements", strings.Join(result.Warnings, "\n"), false))
	}

	return embed
}

func previewRows(rows []models.ShippingRow) string {
	if len(rows) == 0 {
		return "_aucun_"
	}
	lines := lo.Map(lo.Slice(rows, 0, common.PreviewRows), func(r models.ShippingRow, _ int) string {
		return fmt.Sprintf("`%s` %s, %s %s", r.CustomerID, r.DeliveryName, r.Zip, r.City)
	})
	if len(rows) > common.PreviewRows {
		lines = append(lines, fmt.Sprintf("… et %d autre(s)", len(rows)-common.PreviewRows))
	}
	return strings.Join(lines, "\n")
}
