package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"subsdesk/models"
)

func routed() *models.RoutedBatch {
	return &models.RoutedBatch{
		DomesticName: "FRANCE",
		Domestic: []models.ShippingRow{
			{CustomerID: "1", DeliveryName: "Marie Curie", CountryCode: "FR", BillingCountry: "FRANCE", Quantity: "2"},
		},
		Foreign: []models.ShippingRow{
			{CustomerID: "2", DeliveryName: "Ada Lovelace", CountryCode: "GB", Quantity: "n/a"},
			{CustomerID: "3", DeliveryName: "Alan Turing", CountryCode: "GB", Quantity: "1"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  abo/2024:11 ", "abo_2024_11"},
		{"abo_nov", "abo_nov"},
		{" / ", ""},
		{"<*>", ""},
		{"_ _", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.raw), "raw %q", tt.raw)
	}
}

func TestRenderBuckets_EmptyPrefix(t *testing.T) {
	for _, prefix := range []string{"", "   ", " / ", "::"} {
		artifacts, err := RenderBuckets(prefix, FormatXLSX, routed())
		assert.ErrorIs(t, err, models.ErrEmptyOutputName)
		assert.Empty(t, artifacts)
	}
}

func TestRenderBuckets_XLSX(t *testing.T) {
	artifacts, err := RenderBuckets("abo_nov", FormatXLSX, routed())
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	assert.Equal(t, "abo_nov_FRANCE.xlsx", artifacts[0].Name)
	assert.Equal(t, "abo_nov_Rest_of_World.xlsx", artifacts[1].Name)
	assert.Equal(t, ContentTypeXLSX, artifacts[0].ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(artifacts[1].Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.ShippingColumns, rows[0])
	assert.Equal(t, "Ada Lovelace", rows[1][1])
	assert.Equal(t, "n/a", rows[1][9])
	assert.Equal(t, "1", rows[2][9])
}

func TestRenderBuckets_CSV(t *testing.T) {
	artifacts, err := RenderBuckets("abo", FormatCSV, routed())
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "abo_FRANCE.csv", artifacts[0].Name)

	records, err := csv.NewReader(bytes.NewReader(artifacts[0].Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "FRANCE", records[1][8])
}

func TestRenderBuckets_EmptyBucketStillHasHeader(t *testing.T) {
	batch := &models.RoutedBatch{DomesticName: "FRANCE"}
	artifacts, err := RenderBuckets("abo", FormatCSV, batch)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(artifacts[1].Data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func variantReport() *models.VariantReport {
	return &models.VariantReport{
		Countries: []string{"BE", "FR"},
		Sections: []models.VariantSection{
			{Title: "Bundle", Variants: []models.VariantStat{
				{Key: "1× Bundle", Countries: map[string]int{"FR": 2, "BE": 1}},
			}},
			{Title: models.OtherCombinationsTitle, Variants: []models.VariantStat{
				{Key: "1× Poster", Countries: map[string]int{"FR": 1}},
			}},
		},
	}
}

func TestVariantRows(t *testing.T) {
	rows := VariantRows(variantReport())

	require.Len(t, rows, 7)
	assert.Equal(t, []interface{}{"Variant", "Total utilisateurs", "BE", "FR"}, rows[0])
	assert.Equal(t, []interface{}{"=== BUNDLE ===", "", "", ""}, rows[1])
	assert.Equal(t, []interface{}{"1× Bundle", 3, 1, 2}, rows[2])
	assert.Equal(t, []interface{}{"", "", "", ""}, rows[3])
	assert.Equal(t, "=== AUTRES COMBINAISONS ===", rows[4][0])
	assert.Equal(t, []interface{}{"1× Poster", 1, 0, 1}, rows[5])
}

func TestRenderVariants(t *testing.T) {
	at := time.Date(2024, 11, 17, 9, 5, 3, 0, time.UTC)
	artifact, err := RenderVariants(variantReport(), at)
	require.NoError(t, err)
	assert.Equal(t, "variants_personnalises_20241117_090503.xlsx", artifact.Name)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{VariantSheet}, f.GetSheetList())
	value, err := f.GetCellValue(VariantSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "=== BUNDLE ===", value)

	styleID, err := f.GetCellStyle(VariantSheet, "A2")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestRenderThanks(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := RenderThanks("  ", []string{"Marie Curie"})
		assert.ErrorIs(t, err, models.ErrEmptyOutputName)
	})

	t.Run("document content", func(t *testing.T) {
		artifact, err := RenderThanks("merci", []string{"Marie Curie", "Tom & Jerry"})
		require.NoError(t, err)
		assert.Equal(t, "merci.docx", artifact.Name)
		assert.Equal(t, ContentTypeDOCX, artifact.ContentType)

		zr, err := zip.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data)))
		require.NoError(t, err)

		var document string
		for _, f := range zr.File {
			if f.Name != "word/document.xml" {
				continue
			}
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			document = string(data)
		}
		assert.Contains(t, document, "Remerciements")
		assert.Contains(t, document, "Marie Curie, Tom &amp; Jerry")
	})
}
