package models

import "time"

// Category is the single bucket a record lands in after classification
type Category string

const (
	CategoryActive            Category = "active"
	CategoryRetainedCancelled Category = "retained-cancelled"
	CategoryDroppedCancelled  Category = "dropped-cancelled"
	CategoryExcludedTest      Category = "excluded-test"
	CategoryExcludedLate      Category = "excluded-late"
	CategoryExcludedOther     Category = "excluded-other"
)

// Categories in display order
var Categories = []Category{
	CategoryActive,
	CategoryRetainedCancelled,
	CategoryDroppedCancelled,
	CategoryExcludedTest,
	CategoryExcludedLate,
	CategoryExcludedOther,
}

// Classification ties a record to its category and the rule that decided it
type Classification struct {
	Record   SubscriptionRecord
	Category Category
	Reason   string
}

// ClassifiedBatch holds one classification per input record, in input order
type ClassifiedBatch struct {
	Cutoff  time.Time
	Entries []Classification
}

// ByCategory returns the records of one category in input order
func (b *ClassifiedBatch) ByCategory(c Category) []SubscriptionRecord {
	var out []SubscriptionRecord
	for _, e := range b.Entries {
		if e.Category == c {
			out = append(out, e.Record)
		}
	}
	return out
}

// Counts returns the number of records per category, including empty ones
func (b *ClassifiedBatch) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, e := range b.Entries {
		counts[e.Category]++
	}
	return counts
}

// Shippable returns active records followed by retained cancellations
func (b *ClassifiedBatch) Shippable() []SubscriptionRecord {
	out := b.ByCategory(CategoryActive)
	return append(out, b.ByCategory(CategoryRetainedCancelled)...)
}

// ShippingColumns is the fixed header of every bucket file
var ShippingColumns = []string{
	"Customer ID",
	"Delivery name",
	"Delivery address 1",
	"Delivery address 2",
	"Delivery zip",
	"Delivery city",
	"Delivery province code",
	"Delivery country code",
	"Billing country",
	"Quantity",
}

// ShippingRow is the renamed projection written to the bucket files
type ShippingRow struct {
	CustomerID     string
	DeliveryName   string
	Address1       string
	Address2       string
	Zip            string
	City           string
	ProvinceCode   string
	CountryCode    string
	BillingCountry string
	Quantity       string
}

// Values returns the row in ShippingColumns order
func (r ShippingRow) Values() []string {
	return []string{
		r.CustomerID,
		r.DeliveryName,
		r.Address1,
		r.Address2,
		r.Zip,
		r.City,
		r.ProvinceCode,
		r.CountryCode,
		r.BillingCountry,
		r.Quantity,
	}
}

// RoutedBatch splits shippable rows between the home market and everything else
type RoutedBatch struct {
	DomesticName string
	Domestic     []ShippingRow
	Foreign      []ShippingRow
}

// Total returns the number of routed rows
func (b *RoutedBatch) Total() int {
	return len(b.Domestic) + len(b.Foreign)
}
