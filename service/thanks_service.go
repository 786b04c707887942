package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"subsdesk/events"
	"subsdesk/models"
	"subsdesk/report"
	"subsdesk/thanks"
)

const ToolThanks = "remerciements"

// ThanksResult is the outcome of a thank-you merge
type ThanksResult struct {
	RunID    string
	Merge    *thanks.Result
	Artifact report.Artifact
}

type thanksService struct {
	now      Clock
	eventBus *events.Bus
}

// NewThanksService creates the thank-you merge service
func NewThanksService(clock Clock, eventBus *events.Bus) ThanksService {
	if clock == nil {
		clock = time.Now
	}
	return &thanksService{now: clock, eventBus: eventBus}
}

// Merge implements ThanksService
func (s *thanksService) Merge(ctx context.Context, list, changes InputFile, name string, requestedBy string) (*ThanksResult, error) {
	if report.SanitizeName(name) == "" {
		return nil, models.ErrEmptyOutputName
	}

	listTable, err := readTables([]InputFile{list})
	if err != nil {
		return nil, err
	}
	changesTable, err := readTables([]InputFile{changes})
	if err != nil {
		return nil, err
	}

	merged, err := thanks.Merge(listTable, changesTable)
	if err != nil {
		return nil, err
	}

	artifact, err := report.RenderThanks(name, merged.Names)
	if err != nil {
		return nil, err
	}

	result := &ThanksResult{RunID: uuid.NewString(), Merge: merged, Artifact: artifact}
	log.WithFields(log.Fields{
		"run_id":   result.RunID,
		"tool":     ToolThanks,
		"names":    len(merged.Names),
		"replaced": merged.Replaced,
		"removed":  merged.Removed,
	}).Info("Thank-you merge completed")

	if s.eventBus != nil {
		s.eventBus.Emit(context.Background(), events.RunCompletedEvent{
			RunID:       result.RunID,
			Tool:        ToolThanks,
			RequestedBy: requestedBy,
			Inputs:      []string{list.Name, changes.Name},
			Artifacts:   []string{artifact.Name},
			CompletedAt: s.now(),
		})
	}
	return result, nil
}
