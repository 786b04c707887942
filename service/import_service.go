package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"subsdesk/events"
	"subsdesk/ingest"
	"subsdesk/models"
	"subsdesk/normalize"
)

// Columns of an external subscriber list file
const (
	ImportColumnID             = "subscriber_id"
	ImportColumnFullName       = "full_name"
	ImportColumnEmail          = "email"
	ImportColumnAddress1       = "address1"
	ImportColumnAddress2       = "address2"
	ImportColumnZip            = "zip"
	ImportColumnCity           = "city"
	ImportColumnProvinceCode   = "province_code"
	ImportColumnCountryCode    = "country_code"
	ImportColumnBillingCountry = "billing_country"
	ImportColumnQuantity       = "quantity"
	ImportColumnActive         = "active"
)

type importService struct {
	store    ExternalSubscriberStore
	eventBus *events.Bus
}

// NewImportService creates the external list importer
func NewImportService(store ExternalSubscriberStore, eventBus *events.Bus) ImportService {
	return &importService{store: store, eventBus: eventBus}
}

// Import implements ImportService
func (s *importService) Import(ctx context.Context, file InputFile) (int64, error) {
	table, err := readTables([]InputFile{file})
	if err != nil {
		return 0, err
	}

	subs, err := ParseExternalSubscribers(table)
	if err != nil {
		return 0, err
	}

	n, err := s.store.ReplaceAll(ctx, subs)
	if err != nil {
		return 0, fmt.Errorf("failed to store external subscribers: %w", err)
	}

	log.WithFields(log.Fields{
		"file":  file.Name,
		"count": n,
	}).Info("External subscriber list replaced")

	if s.eventBus != nil {
		s.eventBus.Emit(context.Background(), events.ExternalListUpdatedEvent{Source: file.Name, Count: n})
	}
	return n, nil
}

// ParseExternalSubscribers reads an external list table. IDs must be present and unique.
func ParseExternalSubscribers(t *models.Table) ([]models.ExternalSubscriber, error) {
	if err := ingest.RequireColumns(t, ImportColumnID, ImportColumnFullName); err != nil {
		return nil, err
	}

	subs := make([]models.ExternalSubscriber, 0, t.Len())
	seen := map[string]bool{}
	var missing []int
	var duplicates []string

	for row := 0; row < t.Len(); row++ {
		value := func(column string) string {
			return strings.TrimSpace(t.Value(row, column))
		}

		id := normalize.Identifier(value(ImportColumnID))
		if id == "" {
			missing = append(missing, row+2)
			continue
		}
		if seen[id] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = true

		quantity := 1
		if raw := value(ImportColumnQuantity); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid quantity %q for subscriber %s", raw, id)
			}
			quantity = n
		}

		subs = append(subs, models.ExternalSubscriber{
			ID:             id,
			FullName:       value(ImportColumnFullName),
			Email:          value(ImportColumnEmail),
			Address1:       value(ImportColumnAddress1),
			Address2:       value(ImportColumnAddress2),
			Zip:            value(ImportColumnZip),
			City:           value(ImportColumnCity),
			ProvinceCode:   value(ImportColumnProvinceCode),
			CountryCode:    strings.ToUpper(value(ImportColumnCountryCode)),
			BillingCountry: value(ImportColumnBillingCountry),
			Quantity:       quantity,
			Active:         parseActive(value(ImportColumnActive)),
		})
	}

	if len(missing) > 0 {
		return nil, &models.MissingIdentifierError{Lines: missing}
	}
	if len(duplicates) > 0 {
		return nil, &models.DuplicateIdentifierError{IDs: duplicates}
	}
	return subs, nil
}

// parseActive treats blank as active
func parseActive(raw string) bool {
	switch strings.ToLower(raw) {
	case "false", "0", "no", "non", "n", "inactive":
		return false
	}
	return true
}
