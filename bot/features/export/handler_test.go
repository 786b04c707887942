package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/bot/common"
	"subsdesk/models"
	"subsdesk/service"
)

func TestCreateExportEmbed(t *testing.T) {
	result := &service.ExportResult{
		Cutoff: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
		Kept:   1200,
		Late:   3,
		Routed: &models.RoutedBatch{
			DomesticName: "FRANCE",
			Domestic:     make([]models.ShippingRow, 1000),
			Foreign:      make([]models.ShippingRow, 200),
		},
	}

	embed := createExportEmbed(result)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "1 200", embed.Fields[0].Value)
	assert.Equal(t, "FRANCE", embed.Fields[2].Name)
	assert.Equal(t, "1 000", embed.Fields[2].Value)
	assert.Equal(t, common.ColorSuccess, embed.Color)

	result.InvalidDates = []models.UnparseableDate{{RecordID: "17", Field: models.ColumnCreatedAt, Value: "hier"}}
	embed = createExportEmbed(result)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "17", embed.Fields[4].Value)
	assert.Equal(t, common.ColorWarning, embed.Color)
}
