package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"subsdesk/models"
)

const (
	VariantSheet       = "Variants organisés"
	variantNameLayout  = "20060102_150405"
	variantColumn      = "Variant"
	variantTotalColumn = "Total utilisateurs"
)

// VariantRows lays the report out as spreadsheet rows: a header, then for each
// section a title row, its variants and a blank separator
func VariantRows(report *models.VariantReport) [][]interface{} {
	width := 2 + len(report.Countries)
	header := make([]interface{}, 0, width)
	header = append(header, variantColumn, variantTotalColumn)
	for _, c := range report.Countries {
		header = append(header, c)
	}

	rows := [][]interface{}{header}
	for _, section := range report.Sections {
		rows = append(rows, padRow([]interface{}{SectionTitle(section.Title)}, width))
		for _, v := range section.Variants {
			row := make([]interface{}, 0, width)
			row = append(row, v.Key, v.Total())
			for _, c := range report.Countries {
				row = append(row, v.Countries[c])
			}
			rows = append(rows, row)
		}
		rows = append(rows, padRow(nil, width))
	}
	return rows
}

// SectionTitle formats a section heading row label
func SectionTitle(title string) string {
	return fmt.Sprintf("=== %s ===", strings.ToUpper(title))
}

func padRow(cells []interface{}, width int) []interface{} {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}

// RenderVariants writes the organized variant report; the file name carries the timestamp at
func RenderVariants(report *models.VariantReport, at time.Time) (Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), VariantSheet); err != nil {
		return Artifact{}, fmt.Errorf("failed to name variant sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create title style: %w", err)
	}

	for i, row := range VariantRows(report) {
		rowNum := i + 1
		if err := setRow(f, VariantSheet, rowNum, row); err != nil {
			return Artifact{}, fmt.Errorf("failed to write variant row %d: %w", rowNum, err)
		}
		if label, ok := row[0].(string); ok && i > 0 && strings.HasPrefix(label, "===") {
			if err := f.SetRowStyle(VariantSheet, rowNum, rowNum, titleStyle); err != nil {
				return Artifact{}, fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to write variant report: %w", err)
	}
	return Artifact{
		Name:        fmt.Sprintf("variants_personnalises_%s.xlsx", at.Format(variantNameLayout)),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}
