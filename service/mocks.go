package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"subsdesk/enrich"
	"subsdesk/models"
)

// MockRetainReviewer is a mock implementation of RetainReviewer
type MockRetainReviewer struct {
	mock.Mock
}

func (m *MockRetainReviewer) Review(ctx context.Context, candidates []models.SubscriptionRecord, cutoff time.Time) (*enrich.Verdict, error) {
	args := m.Called(ctx, candidates, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrich.Verdict), args.Error(1)
}

// MockSubscriberSource is a mock implementation of enrich.SubscriberSource
type MockSubscriberSource struct {
	mock.Mock
}

func (m *MockSubscriberSource) Name() string {
	return "mock external subscribers"
}

func (m *MockSubscriberSource) FetchSubscribers(ctx context.Context) ([]models.ExternalSubscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExternalSubscriber), args.Error(1)
}

// MockExternalSubscriberStore is a mock implementation of ExternalSubscriberStore
type MockExternalSubscriberStore struct {
	mock.Mock
}

func (m *MockExternalSubscriberStore) FetchActive(ctx context.Context) ([]models.ExternalSubscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExternalSubscriber), args.Error(1)
}

func (m *MockExternalSubscriberStore) ReplaceAll(ctx context.Context, subs []models.ExternalSubscriber) (int64, error) {
	args := m.Called(ctx, subs)
	return args.Get(0).(int64), args.Error(1)
}
