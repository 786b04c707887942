package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"subsdesk/models"
)

const externalCSV = `subscriber_id,full_name,email,address1,zip,city,country_code,billing_country,quantity,active
#P-1,Librairie du Port,port@x.fr,1 quai,13002,Marseille,fr,FRANCE,3,
P-2,Bibliothèque,bib@x.be,2 rue,1000,Bruxelles,be,BELGIQUE,,non
`

func TestParseExternalSubscribers(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		subs, err := ParseExternalSubscribers(tableOf(t, "liste.csv", externalCSV))
		require.NoError(t, err)
		require.Len(t, subs, 2)

		assert.Equal(t, "P-1", subs[0].ID)
		assert.Equal(t, "FR", subs[0].CountryCode)
		assert.Equal(t, 3, subs[0].Quantity)
		assert.True(t, subs[0].Active)

		assert.Equal(t, 1, subs[1].Quantity)
		assert.False(t, subs[1].Active)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := ParseExternalSubscribers(tableOf(t, "l.csv", "subscriber_id,full_name\nA,x\n#A,y\n"))
		var dup *models.DuplicateIdentifierError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []string{"A"}, dup.IDs)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := ParseExternalSubscribers(tableOf(t, "l.csv", "subscriber_id,full_name\nA,x\n,y\n"))
		var missing *models.MissingIdentifierError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []int{3}, missing.Lines)
	})

	t.Run("bad quantity", func(t *testing.T) {
		_, err := ParseExternalSubscribers(tableOf(t, "l.csv", "subscriber_id,full_name,quantity\nA,x,0\n"))
		assert.Error(t, err)
	})
}

func TestImportService_Import(t *testing.T) {
	ctx := context.Background()
	file := InputFile{Name: "liste.csv", Data: []byte(externalCSV)}

	t.Run("replaces the stored list", func(t *testing.T) {
		store := new(MockExternalSubscriberStore)
		store.On("ReplaceAll", ctx, mock.MatchedBy(func(subs []models.ExternalSubscriber) bool {
			return len(subs) == 2 && subs[0].ID == "P-1"
		})).Return(int64(2), nil)

		n, err := NewImportService(store, nil).Import(ctx, file)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		store.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockExternalSubscriberStore)
		store.On("ReplaceAll", ctx, mock.Anything).Return(int64(0), errors.New("connection refused"))

		_, err := NewImportService(store, nil).Import(ctx, file)
		assert.ErrorContains(t, err, "failed to store external subscribers")
	})

	t.Run("invalid file never reaches the store", func(t *testing.T) {
		store := new(MockExternalSubscriberStore)
		_, err := NewImportService(store, nil).Import(ctx, InputFile{Name: "l.csv", Data: []byte("name\nx\n")})
		assert.Error(t, err)
		store.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything)
	})
}
