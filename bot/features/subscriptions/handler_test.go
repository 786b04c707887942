package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/bot/common"
	"subsdesk/models"
	"subsdesk/service"
)

func TestParseRetainIDs(t *testing.T) {
	assert.Equal(t, []string{"1001", "#1002", "1003"}, ParseRetainIDs(" 1001, #1002;1003\n1001 "))
	assert.Empty(t, ParseRetainIDs("  "))
}

func sampleResult() *service.RoutingResult {
	cutoff := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	batch := &models.ClassifiedBatch{
		Cutoff: cutoff,
		Entries: []models.Classification{
			{Record: models.SubscriptionRecord{ID: "1"}, Category: models.CategoryActive},
			{Record: models.SubscriptionRecord{ID: "2"}, Category: models.CategoryActive},
			{Record: models.SubscriptionRecord{ID: "3"}, Category: models.CategoryExcludedTest},
		},
	}
	domestic := make([]models.ShippingRow, 7)
	for i := range domestic {
		domestic[i] = models.ShippingRow{CustomerID: "d", DeliveryName: "Nom", Zip: "75001", City: "Paris"}
	}
	return &service.RoutingResult{
		Inputs: []string{"abo.csv"},
		Cutoff: cutoff,
		Batch:  batch,
		Routed: &models.RoutedBatch{DomesticName: "FRANCE", Domestic: domestic},
	}
}

func TestCreateSummaryEmbed(t *testing.T) {
	embed := createSummaryEmbed(sampleResult())

	assert.Contains(t, embed.Description, "05/11/2024")
	assert.Equal(t, common.ColorSuccess, embed.Color)
	require.Len(t, embed.Fields, len(models.Categories)+2)

	assert.Equal(t, "Actifs", embed.Fields[0].Name)
	assert.Equal(t, "2", embed.Fields[0].Value)
	assert.Equal(t, "FRANCE", embed.Fields[6].Name)
	assert.Contains(t, embed.Fields[6].Value, "**7** envoi(s)")
	assert.Contains(t, embed.Fields[6].Value, "… et 2 autre(s)")
	assert.Contains(t, embed.Fields[7].Value, "_aucun_")
}

func TestCreateSummaryEmbed_Warnings(t *testing.T) {
	result := sampleResult()
	result.Warnings = []string{"smart filter unavailable: timeout"}
	result.SmartRetained = []string{"9"}

	embed := createSummaryEmbed(result)

	assert.Equal(t, common.ColorWarning, embed.Color)
	last := embed.Fields[len(embed.Fields)-1]
	assert.Contains(t, last.Value, "smart filter unavailable")
}
