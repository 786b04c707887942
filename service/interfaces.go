package service

import (
	"context"
	"time"

	"subsdesk/enrich"
	"subsdesk/models"
	"subsdesk/report"
)

// InputFile is an uploaded file
type InputFile struct {
	Name string
	Data []byte
}

// Clock returns the current time; tests freeze it
type Clock func() time.Time

// RetainReviewer decides which cancelled subscriptions still owe a shipment
type RetainReviewer interface {
	Review(ctx context.Context, candidates []models.SubscriptionRecord, cutoff time.Time) (*enrich.Verdict, error)
}

// ExternalSubscriberStore persists the external subscriber list
type ExternalSubscriberStore interface {
	// FetchActive returns the active subscribers ordered by ID
	FetchActive(ctx context.Context) ([]models.ExternalSubscriber, error)

	// ReplaceAll swaps the whole list atomically
	ReplaceAll(ctx context.Context, subs []models.ExternalSubscriber) (int64, error)
}

// RoutingService defines the subscription classification and routing operations
type RoutingService interface {
	// Analyze reads, normalizes, enriches, classifies and routes the uploaded exports
	Analyze(ctx context.Context, req RoutingRequest) (*RoutingResult, error)

	// Render writes the bucket files of an analysis and records the run
	Render(ctx context.Context, result *RoutingResult, prefix string, format report.Format) ([]report.Artifact, error)
}

// ExportService defines the plain shipping export
type ExportService interface {
	// Export uppercases, drops late signups and splits a subscription CSV by billing country
	Export(ctx context.Context, file InputFile, prefix string, requestedBy string) (*ExportResult, error)
}

// VariantService defines the product combination analysis
type VariantService interface {
	// Analyze groups an order export into variants and renders the spreadsheet
	Analyze(ctx context.Context, file InputFile, products []string, requestedBy string) (*VariantResult, error)
}

// ThanksService defines the thank-you name merge
type ThanksService interface {
	// Merge applies the change table to the thank-you list and renders the Word document
	Merge(ctx context.Context, list, changes InputFile, name string, requestedBy string) (*ThanksResult, error)
}

// ImportService loads the external subscriber list into the database
type ImportService interface {
	// Import replaces the stored list with the rows of file
	Import(ctx context.Context, file InputFile) (int64, error)
}
