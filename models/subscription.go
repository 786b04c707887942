package models

import "time"

// Status is the normalized subscription status
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
	StatusPaused    Status = "PAUSED"
	StatusUnknown   Status = "UNKNOWN"
)

// Column names of the subscription export
const (
	ColumnID               = "ID"
	ColumnCustomerName     = "Customer name"
	ColumnCustomerEmail    = "Customer email"
	ColumnStatus           = "Status"
	ColumnCreatedAt        = "Created at"
	ColumnNextOrderDate    = "Next order date"
	ColumnAddress1         = "Delivery address 1"
	ColumnAddress2         = "Delivery address 2"
	ColumnZip              = "Delivery zip"
	ColumnCity             = "Delivery city"
	ColumnProvinceCode     = "Delivery province code"
	ColumnCountryCode      = "Delivery country code"
	ColumnBillingCountry   = "Billing country"
	ColumnIntervalCount    = "Delivery interval count"
	ColumnCancellationNote = "Cancellation note"
)

// CancellationNoteColumns lists the headers the cancellation reason has been exported under
var CancellationNoteColumns = []string{ColumnCancellationNote, "Cancellation reason", "Cancellation feedback"}

// RoutingRequiredColumns must be present before a routing run starts
var RoutingRequiredColumns = []string{
	ColumnID,
	ColumnCustomerName,
	ColumnStatus,
	ColumnCreatedAt,
	ColumnNextOrderDate,
	ColumnCountryCode,
}

// ExportRequiredColumns must be present for the plain shipping export
var ExportRequiredColumns = []string{
	ColumnID,
	ColumnCustomerName,
	ColumnCreatedAt,
	ColumnAddress1,
	ColumnAddress2,
	ColumnZip,
	ColumnCity,
	ColumnProvinceCode,
	ColumnCountryCode,
	ColumnBillingCountry,
	ColumnIntervalCount,
}

// SubscriptionRecord is one row of a subscription export after normalization.
// Dates are naive: the wall clock is stored in a UTC-located time.Time.
type SubscriptionRecord struct {
	ID               string
	CustomerName     string
	CustomerEmail    string
	Status           Status
	CreatedAt        *time.Time
	NextOrderDate    *time.Time
	Address1         string
	Address2         string
	City             string
	Zip              string
	ProvinceCode     string
	CountryCode      string
	BillingCountry   string
	Quantity         string
	CancellationNote string
	Source           string
}

// SourceExternal marks records merged from the external subscriber list
const SourceExternal = "external"
