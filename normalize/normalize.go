package normalize

import (
	"strings"
	"time"

	"subsdesk/ingest"
	"subsdesk/models"
)

// Options tune record normalization
type Options struct {
	// Zone is where offset-bearing dates are converted before the offset is dropped
	Zone *time.Location
	// UppercaseAll uppercases every text field, as the shipping export expects
	UppercaseAll bool
}

// Result holds the normalized records and the date cells that could not be read
type Result struct {
	Records      []models.SubscriptionRecord
	InvalidDates []models.UnparseableDate
}

// Status uppercases a raw status. Unknown values pass through; blanks become UNKNOWN.
func Status(raw string) models.Status {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return models.StatusUnknown
	}
	return models.Status(s)
}

// Identifier trims an order or subscription reference and strips a leading "#"
func Identifier(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}

// Records converts a subscription table into records. IDs must be present and
// unique; dates that cannot be parsed are reported and left nil.
func Records(t *models.Table, opts Options) (*Result, error) {
	noteColumn, _ := ingest.FindColumn(t, models.CancellationNoteColumns...)

	result := &Result{Records: make([]models.SubscriptionRecord, 0, t.Len())}
	seen := make(map[string]bool, t.Len())
	var missingLines []int
	var duplicates []string

	for row := 0; row < t.Len(); row++ {
		text := func(column string) string {
			v := strings.TrimSpace(t.Value(row, column))
			if opts.UppercaseAll {
				v = strings.ToUpper(v)
			}
			return v
		}

		id := Identifier(t.Value(row, models.ColumnID))
		if id == "" {
			// header is line 1
			missingLines = append(missingLines, row+2)
			continue
		}
		if seen[id] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = true

		rec := models.SubscriptionRecord{
			ID:             id,
			CustomerName:   text(models.ColumnCustomerName),
			CustomerEmail:  strings.TrimSpace(t.Value(row, models.ColumnCustomerEmail)),
			Status:         Status(t.Value(row, models.ColumnStatus)),
			Address1:       text(models.ColumnAddress1),
			Address2:       text(models.ColumnAddress2),
			City:           text(models.ColumnCity),
			Zip:            strings.TrimSpace(t.Value(row, models.ColumnZip)),
			ProvinceCode:   text(models.ColumnProvinceCode),
			CountryCode:    strings.ToUpper(strings.TrimSpace(t.Value(row, models.ColumnCountryCode))),
			BillingCountry: text(models.ColumnBillingCountry),
			Quantity:       strings.TrimSpace(t.Value(row, models.ColumnIntervalCount)),
			Source:         t.Name,
		}
		if noteColumn != "" {
			rec.CancellationNote = text(noteColumn)
		}

		rec.CreatedAt = result.date(rec.ID, models.ColumnCreatedAt, t.Value(row, models.ColumnCreatedAt), opts.Zone)
		rec.NextOrderDate = result.date(rec.ID, models.ColumnNextOrderDate, t.Value(row, models.ColumnNextOrderDate), opts.Zone)

		result.Records = append(result.Records, rec)
	}

	if len(missingLines) > 0 {
		return nil, &models.MissingIdentifierError{Lines: missingLines}
	}
	if len(duplicates) > 0 {
		return nil, &models.DuplicateIdentifierError{IDs: duplicates}
	}
	return result, nil
}

// date parses one cell. Blank cells are simply absent; non-blank cells that match
// no layout are recorded as invalid.
func (r *Result) date(id, field, raw string, zone *time.Location) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, ok := ParseDate(raw, zone)
	if !ok {
		r.InvalidDates = append(r.InvalidDates, models.UnparseableDate{
			RecordID: id,
			Field:    field,
			Value:    raw,
		})
		return nil
	}
	return &t
}
