package route

import (
	"strings"

	"subsdesk/models"
)

// Options name the home market
type Options struct {
	DomesticCode string
	DomesticName string
}

// DefaultOptions routes France against the rest of the world
func DefaultOptions() Options {
	return Options{DomesticCode: "FR", DomesticName: "FRANCE"}
}

// Route splits shippable records by delivery country code
func Route(records []models.SubscriptionRecord, opts Options) *models.RoutedBatch {
	batch := &models.RoutedBatch{DomesticName: opts.DomesticName}
	for _, rec := range records {
		row := Project(rec, opts)
		if IsDomestic(rec, opts) {
			batch.Domestic = append(batch.Domestic, row)
		} else {
			batch.Foreign = append(batch.Foreign, row)
		}
	}
	return batch
}

// IsDomestic compares the delivery country code with the home code, ignoring case
func IsDomestic(rec models.SubscriptionRecord, opts Options) bool {
	return strings.EqualFold(strings.TrimSpace(rec.CountryCode), opts.DomesticCode)
}

// Project renames a record into a shipping row. A blank billing country of a
// domestic delivery is filled with the home country name.
func Project(rec models.SubscriptionRecord, opts Options) models.ShippingRow {
	billing := rec.BillingCountry
	if strings.TrimSpace(billing) == "" && IsDomestic(rec, opts) {
		billing = opts.DomesticName
	}
	return models.ShippingRow{
		CustomerID:     rec.ID,
		DeliveryName:   rec.CustomerName,
		Address1:       rec.Address1,
		Address2:       rec.Address2,
		Zip:            rec.Zip,
		City:           rec.City,
		ProvinceCode:   rec.ProvinceCode,
		CountryCode:    rec.CountryCode,
		BillingCountry: billing,
		Quantity:       rec.Quantity,
	}
}

// SplitByBilling routes already projected rows on the billing country name,
// the rule of the plain shipping export
func SplitByBilling(rows []models.ShippingRow, domesticName string) *models.RoutedBatch {
	batch := &models.RoutedBatch{DomesticName: domesticName}
	for _, row := range rows {
		if strings.EqualFold(strings.TrimSpace(row.BillingCountry), domesticName) {
			batch.Domestic = append(batch.Domestic, row)
		} else {
			batch.Foreign = append(batch.Foreign, row)
		}
	}
	return batch
}
