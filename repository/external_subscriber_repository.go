package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"subsdesk/database"
	"subsdesk/models"
)

const subscriberColumns = `subscriber_id, full_name, email, address1, address2, zip, city,
	province_code, country_code, billing_country, quantity, active, created_at, updated_at`

// ExternalSubscriberRepository stores the subscribers kept outside the shop exports
type ExternalSubscriberRepository struct {
	db *database.DB
}

// NewExternalSubscriberRepository creates a new external subscriber repository
func NewExternalSubscriberRepository(db *database.DB) *ExternalSubscriberRepository {
	return &ExternalSubscriberRepository{db: db}
}

// FetchActive returns the active subscribers ordered by ID
func (r *ExternalSubscriberRepository) FetchActive(ctx context.Context) ([]models.ExternalSubscriber, error) {
	query := `SELECT ` + subscriberColumns + `
		FROM external_subscribers
		WHERE active
		ORDER BY subscriber_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query external subscribers: %w", err)
	}

	subs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ExternalSubscriber])
	if err != nil {
		return nil, fmt.Errorf("failed to scan external subscribers: %w", err)
	}
	return subs, nil
}

// ReplaceAll swaps the whole list in one transaction and returns the number of rows written
func (r *ExternalSubscriberRepository) ReplaceAll(ctx context.Context, subs []models.ExternalSubscriber) (int64, error) {
	var copied int64
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM external_subscribers`); err != nil {
			return fmt.Errorf("failed to clear external subscribers: %w", err)
		}

		columns := []string{
			"subscriber_id", "full_name", "email", "address1", "address2", "zip", "city",
			"province_code", "country_code", "billing_country", "quantity", "active",
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"external_subscribers"}, columns,
			pgx.CopyFromSlice(len(subs), func(i int) ([]any, error) {
				return subscriberArgs(&subs[i]), nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy external subscribers: %w", err)
		}
		copied = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

func subscriberArgs(s *models.ExternalSubscriber) []any {
	quantity := s.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return []any{
		s.ID, s.FullName, s.Email, s.Address1, s.Address2, s.Zip, s.City,
		s.ProvinceCode, s.CountryCode, s.BillingCountry, quantity, s.Active,
	}
}
