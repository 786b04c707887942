package enrich

import (
	"context"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"subsdesk/models"
)

// SubscriberSource provides the externally managed subscriber list
type SubscriberSource interface {
	Name() string
	FetchSubscribers(ctx context.Context) ([]models.ExternalSubscriber, error)
}

// ToRecord maps an external subscriber to an ACTIVE subscription record.
// Its creation date is left unset so it never counts as a late signup.
func ToRecord(s models.ExternalSubscriber) models.SubscriptionRecord {
	quantity := s.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return models.SubscriptionRecord{
		ID:             strings.TrimSpace(s.ID),
		CustomerName:   strings.TrimSpace(s.FullName),
		CustomerEmail:  strings.TrimSpace(s.Email),
		Status:         models.StatusActive,
		Address1:       s.Address1,
		Address2:       s.Address2,
		Zip:            s.Zip,
		City:           s.City,
		ProvinceCode:   s.ProvinceCode,
		CountryCode:    strings.ToUpper(strings.TrimSpace(s.CountryCode)),
		BillingCountry: s.BillingCountry,
		Quantity:       strconv.Itoa(quantity),
		Source:         models.SourceExternal,
	}
}

// MergeResult describes what MergeExternal added
type MergeResult struct {
	Records []models.SubscriptionRecord
	Added   int
	Skipped []string
}

// MergeExternal appends active external subscribers to records. Subscribers
// whose ID is blank or already present are skipped and reported.
func MergeExternal(records []models.SubscriptionRecord, external []models.ExternalSubscriber) MergeResult {
	seen := make(map[string]bool, len(records)+len(external))
	for _, r := range records {
		seen[r.ID] = true
	}

	result := MergeResult{Records: append([]models.SubscriptionRecord(nil), records...)}
	for _, s := range external {
		if !s.Active {
			continue
		}
		rec := ToRecord(s)
		if rec.ID == "" || seen[rec.ID] {
			result.Skipped = append(result.Skipped, rec.ID)
			log.WithFields(log.Fields{
				"subscriber_id": rec.ID,
				"name":          rec.CustomerName,
			}).Warn("Skipping external subscriber with blank or colliding ID")
			continue
		}
		seen[rec.ID] = true
		result.Records = append(result.Records, rec)
		result.Added++
	}
	return result
}

// FetchAll queries every source through Call. Sources that fail are returned
// as errors alongside the subscribers the others produced.
func FetchAll(ctx context.Context, sources []SubscriberSource, timeout time.Duration) ([]models.ExternalSubscriber, []error) {
	var out []models.ExternalSubscriber
	var errs []error
	for _, src := range sources {
		subs, err := Call(ctx, src.Name(), timeout, src.FetchSubscribers)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.WithFields(log.Fields{
			"source": src.Name(),
			"count":  len(subs),
		}).Info("Fetched external subscribers")
		out = append(out, subs...)
	}
	return out, errs
}
