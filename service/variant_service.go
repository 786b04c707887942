package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"subsdesk/events"
	"subsdesk/models"
	"subsdesk/report"
	"subsdesk/variant"
)

const ToolVariants = "variants"

// VariantResult is the outcome of a variant analysis
type VariantResult struct {
	RunID    string
	Report   *models.VariantReport
	Artifact report.Artifact
}

type variantService struct {
	now      Clock
	eventBus *events.Bus
}

// NewVariantService creates the variant analysis service
func NewVariantService(clock Clock, eventBus *events.Bus) VariantService {
	if clock == nil {
		clock = time.Now
	}
	return &variantService{now: clock, eventBus: eventBus}
}

// ParseProducts splits a comma separated product selection, keeping its order
func ParseProducts(raw string) []string {
	return lo.Uniq(lo.FilterMap(strings.Split(raw, ","), func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	}))
}

// Analyze implements VariantService
func (s *variantService) Analyze(ctx context.Context, file InputFile, products []string, requestedBy string) (*VariantResult, error) {
	table, err := readTables([]InputFile{file})
	if err != nil {
		return nil, err
	}

	rep, err := variant.Analyze(table, products)
	if err != nil {
		return nil, err
	}

	at := s.now()
	artifact, err := report.RenderVariants(rep, at)
	if err != nil {
		return nil, err
	}

	result := &VariantResult{RunID: uuid.NewString(), Report: rep, Artifact: artifact}
	log.WithFields(log.Fields{
		"run_id":          result.RunID,
		"tool":            ToolVariants,
		"users":           rep.Users,
		"unique_variants": rep.UniqueVariants,
		"sections":        len(rep.Sections),
	}).Info("Variant analysis completed")

	if s.eventBus != nil {
		s.eventBus.Emit(context.Background(), events.RunCompletedEvent{
			RunID:       result.RunID,
			Tool:        ToolVariants,
			RequestedBy: requestedBy,
			Inputs:      []string{file.Name},
			Artifacts:   []string{artifact.Name},
			CompletedAt: at,
		})
	}
	return result, nil
}
