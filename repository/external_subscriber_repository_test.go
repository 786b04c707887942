package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/models"
	"subsdesk/repository/testutil"
)

func TestExternalSubscriberRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewExternalSubscriberRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		subs, err := repo.FetchActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, subs)

	})

	t.Run("replace all stores every field", func(t *testing.T) {
		sub := testutil.CreateTestExternalSubscriber("p-1")
		sub.City = "Marseille"

		n, err := repo.ReplaceAll(ctx, []models.ExternalSubscriber{*sub})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		active, err := repo.FetchActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Marseille", active[0].City)
		assert.Equal(t, "FR", active[0].CountryCode)
		assert.Equal(t, 1, active[0].Quantity)
		assert.False(t, active[0].CreatedAt.IsZero())
	})

	t.Run("replace all keeps only active rows visible", func(t *testing.T) {
		subs := []models.ExternalSubscriber{
			*testutil.CreateTestExternalSubscriber("b-2"),
			*testutil.CreateTestInactiveSubscriber("c-3"),
			*testutil.CreateTestExternalSubscriber("a-1"),
		}

		n, err := repo.ReplaceAll(ctx, subs)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		active, err := repo.FetchActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "a-1", active[0].ID)
		assert.Equal(t, "b-2", active[1].ID)
	})

	t.Run("failed replace rolls back", func(t *testing.T) {
		dup := *testutil.CreateTestExternalSubscriber("dup")
		_, err := repo.ReplaceAll(ctx, []models.ExternalSubscriber{dup, dup})
		require.Error(t, err)

		active, err := repo.FetchActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 2)
	})
}
