package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"subsdesk/classify"
	"subsdesk/events"
	"subsdesk/ingest"
	"subsdesk/models"
	"subsdesk/normalize"
	"subsdesk/report"
	"subsdesk/route"
)

const ToolExport = "export"

// ExportResult is the outcome of a plain shipping export
type ExportResult struct {
	RunID        string
	Cutoff       time.Time
	Kept         int
	Late         int
	InvalidDates []models.UnparseableDate
	Routed       *models.RoutedBatch
	Artifacts    []report.Artifact
}

type exportService struct {
	zone         *time.Location
	cutoffDay    int
	domesticName string
	now          Clock
	eventBus     *events.Bus
}

// NewExportService creates the plain export. Rows are split on the billing
// country name, without backfilling blank billing countries.
func NewExportService(zone *time.Location, cutoffDay int, domesticName string, clock Clock, eventBus *events.Bus) ExportService {
	if zone == nil {
		zone = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &exportService{
		zone:         zone,
		cutoffDay:    cutoffDay,
		domesticName: domesticName,
		now:          clock,
		eventBus:     eventBus,
	}
}

// Export implements ExportService
func (s *exportService) Export(ctx context.Context, file InputFile, prefix string, requestedBy string) (*ExportResult, error) {
	if report.SanitizeName(prefix) == "" {
		return nil, models.ErrEmptyOutputName
	}

	table, err := readTables([]InputFile{file})
	if err != nil {
		return nil, err
	}
	if err := ingest.RequireColumns(table, models.ExportRequiredColumns...); err != nil {
		return nil, err
	}

	normalized, err := normalize.Records(table, normalize.Options{Zone: s.zone, UppercaseAll: true})
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		RunID:        uuid.NewString(),
		Cutoff:       classify.Cutoff(s.now(), s.zone, s.cutoffDay),
		InvalidDates: normalized.InvalidDates,
	}

	var rows []models.ShippingRow
	for _, rec := range normalized.Records {
		if classify.IsLate(rec, result.Cutoff) {
			result.Late++
			continue
		}
		rows = append(rows, route.Project(rec, route.Options{}))
	}
	result.Kept = len(rows)
	result.Routed = route.SplitByBilling(rows, s.domesticName)

	result.Artifacts, err = report.RenderBuckets(prefix, report.FormatXLSX, result.Routed)
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	log.WithFields(log.Fields{
		"run_id":   result.RunID,
		"tool":     ToolExport,
		"kept":     result.Kept,
		"late":     result.Late,
		"domestic": len(result.Routed.Domestic),
		"foreign":  len(result.Routed.Foreign),
	}).Info("Shipping export completed")

	if s.eventBus != nil {
		s.eventBus.Emit(context.Background(), events.RunCompletedEvent{
			RunID:       result.RunID,
			Tool:        ToolExport,
			RequestedBy: requestedBy,
			Inputs:      []string{file.Name},
			Domestic:    len(result.Routed.Domestic),
			Foreign:     len(result.Routed.Foreign),
			Artifacts:   artifactNames(result.Artifacts),
			CompletedAt: s.now(),
		})
	}
	return result, nil
}
