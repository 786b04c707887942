package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"subsdesk/classify"
	"subsdesk/enrich"
	"subsdesk/events"
	"subsdesk/ingest"
	"subsdesk/models"
	"subsdesk/normalize"
	"subsdesk/report"
	"subsdesk/route"
)

const ToolSubscriptions = "abonnements"

// RoutingRequest is one run of the subscription tool
type RoutingRequest struct {
	Files           []InputFile
	IncludeExternal bool
	SmartFilter     bool
	RetainIDs       []string
	RequestedBy     string
}

// RoutingResult is the outcome of an analysis, ready to be rendered
type RoutingResult struct {
	RunID           string
	Inputs          []string
	Cutoff          time.Time
	Batch           *models.ClassifiedBatch
	Routed          *models.RoutedBatch
	InvalidDates    []models.UnparseableDate
	ExternalAdded   int
	ExternalSkipped []string
	SmartRetained   []string
	Warnings        []string
	RequestedBy     string

	events *events.RunBus
}

// RoutingOptions configure a routing service
type RoutingOptions struct {
	Policy      classify.Policy
	Route       route.Options
	Zone        *time.Location
	Sources     []enrich.SubscriberSource
	Reviewer    RetainReviewer
	CallTimeout time.Duration
	Clock       Clock
}

type routingService struct {
	classifier  *classify.Classifier
	route       route.Options
	zone        *time.Location
	sources     []enrich.SubscriberSource
	reviewer    RetainReviewer
	callTimeout time.Duration
	now         Clock
	eventBus    *events.Bus
}

// NewRoutingService creates a routing service. Sources and Reviewer are optional.
func NewRoutingService(opts RoutingOptions, eventBus *events.Bus) RoutingService {
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &routingService{
		classifier:  classify.New(opts.Policy),
		route:       opts.Route,
		zone:        opts.Zone,
		sources:     opts.Sources,
		reviewer:    opts.Reviewer,
		callTimeout: opts.CallTimeout,
		now:         opts.Clock,
		eventBus:    eventBus,
	}
}

// Analyze implements RoutingService
func (s *routingService) Analyze(ctx context.Context, req RoutingRequest) (*RoutingResult, error) {
	result := &RoutingResult{
		RunID:       uuid.NewString(),
		RequestedBy: req.RequestedBy,
		events:      events.NewRunBus(s.eventBus),
	}
	logger := log.WithFields(log.Fields{
		"run_id": result.RunID,
		"tool":   ToolSubscriptions,
	})

	table, err := readTables(req.Files)
	if err != nil {
		return nil, err
	}
	result.Inputs = lo.Map(req.Files, func(f InputFile, _ int) string { return f.Name })
	if err := ingest.RequireColumns(table, models.RoutingRequiredColumns...); err != nil {
		return nil, err
	}

	normalized, err := normalize.Records(table, normalize.Options{Zone: s.zone})
	if err != nil {
		return nil, err
	}
	records := normalized.Records
	result.InvalidDates = normalized.InvalidDates
	for _, d := range normalized.InvalidDates {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unreadable %s %q for %s", d.Field, d.Value, d.RecordID))
	}

	if req.IncludeExternal {
		records = s.mergeExternal(ctx, result, records)
	}

	result.Cutoff = classify.Cutoff(s.now(), s.zone, s.classifier.Policy().CutoffDay)

	retain := make(map[string]bool, len(req.RetainIDs))
	for _, id := range req.RetainIDs {
		if id = normalize.Identifier(id); id != "" {
			retain[id] = true
		}
	}

	if req.SmartFilter {
		for _, id := range s.smartRetain(ctx, result, records, retain) {
			retain[id] = true
			result.SmartRetained = append(result.SmartRetained, id)
		}
	}

	result.Batch = s.classifier.Classify(records, result.Cutoff, retain)
	result.Routed = route.Route(result.Batch.Shippable(), s.route)

	logger.WithFields(log.Fields{
		"records":  len(records),
		"cutoff":   result.Cutoff.Format("2006-01-02"),
		"counts":   result.Batch.Counts(),
		"domestic": len(result.Routed.Domestic),
		"foreign":  len(result.Routed.Foreign),
		"warnings": len(result.Warnings),
	}).Info("Subscription analysis completed")

	return result, nil
}

func (s *routingService) mergeExternal(ctx context.Context, result *RoutingResult, records []models.SubscriptionRecord) []models.SubscriptionRecord {
	if len(s.sources) == 0 {
		s.degrade(result, "external subscribers", "no external subscriber source is configured")
		return records
	}

	subs, errs := enrich.FetchAll(ctx, s.sources, s.callTimeout)
	for _, err := range errs {
		s.degrade(result, "external subscribers", err.Error())
	}

	merged := enrich.MergeExternal(records, subs)
	result.ExternalAdded = merged.Added
	result.ExternalSkipped = merged.Skipped
	if len(merged.Skipped) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d external subscriber(s) skipped: blank or colliding ID", len(merged.Skipped)))
	}
	return merged.Records
}

// smartRetain asks the reviewer about the cancelled records that survive the
// test, late and note rules. Failures degrade to the deterministic rules.
func (s *routingService) smartRetain(ctx context.Context, result *RoutingResult, records []models.SubscriptionRecord, retain map[string]bool) []string {
	if s.reviewer == nil {
		s.degrade(result, "smart filter", "no language model is configured")
		return nil
	}

	preview := s.classifier.Classify(records, result.Cutoff, retain)
	candidates := preview.ByCategory(models.CategoryDroppedCancelled)
	candidates = lo.Reject(candidates, func(r models.SubscriptionRecord, _ int) bool {
		return s.classifier.NoteExcludes(r)
	})
	if len(candidates) == 0 {
		return nil
	}

	verdict, err := s.reviewer.Review(ctx, candidates, result.Cutoff)
	if err != nil {
		s.degrade(result, "smart filter", err.Error())
		return nil
	}
	return verdict.IDs
}

func (s *routingService) degrade(result *RoutingResult, collaborator, reason string) {
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s unavailable: %s", collaborator, reason))
	result.events.Publish(events.EnrichmentDegradedEvent{
		RunID:        result.RunID,
		Collaborator: collaborator,
		Reason:       reason,
	})
	log.WithFields(log.Fields{
		"run_id":       result.RunID,
		"collaborator": collaborator,
		"reason":       reason,
	}).Warn("Continuing without optional collaborator")
}

// Render implements RoutingService. A failed render keeps the run's pending
// events so a later call with a valid name still records them.
func (s *routingService) Render(ctx context.Context, result *RoutingResult, prefix string, format report.Format) ([]report.Artifact, error) {
	artifacts, err := report.RenderBuckets(prefix, format, result.Routed)
	if err != nil {
		return nil, err
	}

	result.events.Publish(events.RunCompletedEvent{
		RunID:       result.RunID,
		Tool:        ToolSubscriptions,
		RequestedBy: result.RequestedBy,
		Inputs:      result.Inputs,
		Counts:      result.Batch.Counts(),
		Domestic:    len(result.Routed.Domestic),
		Foreign:     len(result.Routed.Foreign),
		Artifacts:   artifactNames(artifacts),
		Warnings:    result.Warnings,
		CompletedAt: s.now(),
	})
	result.events.Flush()
	return artifacts, nil
}

func readTables(files []InputFile) (*models.Table, error) {
	if len(files) == 0 {
		return nil, ingest.ErrNoInput
	}
	tables := make([]*models.Table, 0, len(files))
	for _, f := range files {
		t, err := ingest.Read(f.Name, bytes.NewReader(f.Data))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return ingest.Concat(tables...), nil
}

func artifactNames(artifacts []report.Artifact) []string {
	return lo.Map(artifacts, func(a report.Artifact, _ int) string { return a.Name })
}
