package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"subsdesk/models"
)

const (
	restOfWorldSuffix  = "Rest_of_World"
	quantityColumnName = "Quantity"
)

// RenderBuckets writes the domestic and rest-of-world files. A blank prefix
// fails with ErrEmptyOutputName before anything is rendered.
func RenderBuckets(prefix string, format Format, routed *models.RoutedBatch) ([]Artifact, error) {
	name := SanitizeName(prefix)
	if name == "" {
		return nil, models.ErrEmptyOutputName
	}

	buckets := []struct {
		suffix string
		rows   []models.ShippingRow
	}{
		{routed.DomesticName, routed.Domestic},
		{restOfWorldSuffix, routed.Foreign},
	}

	artifacts := make([]Artifact, 0, len(buckets))
	for _, b := range buckets {
		artifact, err := renderBucket(fmt.Sprintf("%s_%s", name, SanitizeName(b.suffix)), format, b.rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

func renderBucket(base string, format Format, rows []models.ShippingRow) (Artifact, error) {
	switch format {
	case FormatCSV:
		data, err := bucketCSV(rows)
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to render %s: %w", base, err)
		}
		return Artifact{Name: base + ".csv", ContentType: ContentTypeCSV, Data: data}, nil
	default:
		data, err := bucketXLSX(rows)
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to render %s: %w", base, err)
		}
		return Artifact{Name: base + ".xlsx", ContentType: ContentTypeXLSX, Data: data}, nil
	}
}

func bucketCSV(rows []models.ShippingRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(models.ShippingColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func bucketXLSX(rows []models.ShippingRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := setRow(f, sheet, 1, stringsToCells(models.ShippingColumns)); err != nil {
		return nil, err
	}

	quantityIdx := indexOf(models.ShippingColumns, quantityColumnName)
	for i, row := range rows {
		cells := stringsToCells(row.Values())
		if quantityIdx >= 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(row.Quantity)); err == nil {
				cells[quantityIdx] = n
			}
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func stringsToCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
