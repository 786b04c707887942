package enrich

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"subsdesk/models"
)

// ActiveSubscriberLister is the repository method the SQL source needs
type ActiveSubscriberLister interface {
	FetchActive(ctx context.Context) ([]models.ExternalSubscriber, error)
}

// PostgresSubscriberSource adapts the external subscriber repository to a SubscriberSource
type PostgresSubscriberSource struct {
	repo ActiveSubscriberLister
}

// NewPostgresSubscriberSource wraps a repository
func NewPostgresSubscriberSource(repo ActiveSubscriberLister) *PostgresSubscriberSource {
	return &PostgresSubscriberSource{repo: repo}
}

// Name identifies the source in logs and warnings
func (s *PostgresSubscriberSource) Name() string {
	return "postgres external subscribers"
}

// FetchSubscribers returns the active subscribers; connection and timeout failures are transient
func (s *PostgresSubscriberSource) FetchSubscribers(ctx context.Context) ([]models.ExternalSubscriber, error) {
	subs, err := s.repo.FetchActive(ctx)
	if err != nil {
		if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
			return nil, Transient(err)
		}
		return nil, err
	}
	return subs, nil
}
