package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/models"
)

func TestParseDate(t *testing.T) {
	utc := time.UTC

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"iso with offset", "2024-11-04T23:59:59+01:00", time.Date(2024, 11, 4, 22, 59, 59, 0, utc)},
		{"iso zulu with fraction", "2024-11-04T10:15:30.987Z", time.Date(2024, 11, 4, 10, 15, 30, 0, utc)},
		{"iso without offset", "2024-11-04T10:15:30", time.Date(2024, 11, 4, 10, 15, 30, 0, utc)},
		{"space separated with offset", "2024-11-04 10:15:30+02:00", time.Date(2024, 11, 4, 8, 15, 30, 0, utc)},
		{"space separated numeric offset", "2024-11-04 10:15:30 -0500", time.Date(2024, 11, 4, 15, 15, 30, 0, utc)},
		{"space separated naive", "2024-11-04 10:15:30", time.Date(2024, 11, 4, 10, 15, 30, 0, utc)},
		{"date only", "2024-11-04", time.Date(2024, 11, 4, 0, 0, 0, 0, utc)},
		{"day first", "03/04/2025", time.Date(2025, 4, 3, 0, 0, 0, 0, utc)},
		{"day first single digits", "3/4/2025", time.Date(2025, 4, 3, 0, 0, 0, 0, utc)},
		{"month first when day first is impossible", "12/25/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, utc)},
		{"day first with time", "25/12/2024 08:30", time.Date(2024, 12, 25, 8, 30, 0, 0, utc)},
		{"excel serial", "45600", time.Date(2024, 11, 4, 0, 0, 0, 0, utc)},
		{"surrounding spaces", "  2024-11-04  ", time.Date(2024, 11, 4, 0, 0, 0, 0, utc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, utc)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	t.Run("unparseable values", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "not a date", "31/31/2024", "2024-13-01", "0"} {
			_, ok := ParseDate(raw, utc)
			assert.False(t, ok, raw)
		}
	})
}

func TestParseDate_OffsetRoundTrip(t *testing.T) {
	original := time.Date(2025, 3, 5, 7, 45, 12, 600_000_000, time.FixedZone("CET", 3600))
	raw := original.Format(time.RFC3339Nano)

	got, ok := ParseDate(raw, time.UTC)
	require.True(t, ok)

	utc := original.UTC().Truncate(time.Second)
	want := time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), 0, time.UTC)
	assert.True(t, want.Equal(got), "got %v want %v", got, want)
}

func TestParseDate_ConvertsIntoConfiguredZone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	got, ok := ParseDate("2024-11-04T23:30:00Z", paris)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 11, 5, 0, 30, 0, 0, time.UTC), got)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, models.StatusActive, Status(" active "))
	assert.Equal(t, models.StatusCancelled, Status("Cancelled"))
	assert.Equal(t, models.Status("EXPIRED"), Status("expired"))
	assert.Equal(t, models.StatusUnknown, Status(""))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "1042", Identifier(" #1042 "))
	assert.Equal(t, "1042", Identifier("1042"))
	assert.Equal(t, "A#1", Identifier("A#1"))
	assert.Equal(t, "", Identifier("  "))
}

func subscriptionTable(rows ...[]string) *models.Table {
	return &models.Table{
		Name: "abos.csv",
		Headers: []string{
			models.ColumnID, models.ColumnCustomerName, models.ColumnStatus,
			models.ColumnCreatedAt, models.ColumnNextOrderDate,
			models.ColumnCountryCode, models.ColumnBillingCountry, "Cancellation reason",
		},
		Rows: rows,
	}
}

func TestRecords(t *testing.T) {
	t.Run("normalizes fields and reports invalid dates", func(t *testing.T) {
		table := subscriptionTable(
			[]string{"#1", " Marie Curie ", "active", "2024-11-01T10:00:00+01:00", "2024-12-01", "fr", "", ""},
			[]string{"2", "Jean Martin", "cancelled", "yesterday", "", "US", "UNITED STATES", "Refund asked"},
		)

		result, err := Records(table, Options{Zone: time.UTC})
		require.NoError(t, err)
		require.Len(t, result.Records, 2)

		first := result.Records[0]
		assert.Equal(t, "1", first.ID)
		assert.Equal(t, "Marie Curie", first.CustomerName)
		assert.Equal(t, models.StatusActive, first.Status)
		assert.Equal(t, "FR", first.CountryCode)
		require.NotNil(t, first.CreatedAt)
		assert.Equal(t, time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC), *first.CreatedAt)
		require.NotNil(t, first.NextOrderDate)
		assert.Equal(t, "abos.csv", first.Source)

		second := result.Records[1]
		assert.Nil(t, second.CreatedAt)
		assert.Nil(t, second.NextOrderDate)
		assert.Equal(t, "Refund asked", second.CancellationNote)

		require.Len(t, result.InvalidDates, 1)
		assert.Equal(t, models.UnparseableDate{RecordID: "2", Field: models.ColumnCreatedAt, Value: "yesterday"}, result.InvalidDates[0])
	})

	t.Run("uppercase all", func(t *testing.T) {
		table := subscriptionTable([]string{"1", "Marie Curie", "active", "", "", "fr", "France", ""})

		result, err := Records(table, Options{UppercaseAll: true})
		require.NoError(t, err)
		assert.Equal(t, "MARIE CURIE", result.Records[0].CustomerName)
		assert.Equal(t, "FRANCE", result.Records[0].BillingCountry)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		table := subscriptionTable(
			[]string{"1", "A", "ACTIVE", "", "", "FR", "", ""},
			[]string{" ", "B", "ACTIVE", "", "", "FR", "", ""},
		)

		_, err := Records(table, Options{})
		var missing *models.MissingIdentifierError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []int{3}, missing.Lines)
	})

	t.Run("duplicate identifiers", func(t *testing.T) {
		table := subscriptionTable(
			[]string{"1", "A", "ACTIVE", "", "", "FR", "", ""},
			[]string{"#1", "B", "ACTIVE", "", "", "FR", "", ""},
		)

		_, err := Records(table, Options{})
		var dup *models.DuplicateIdentifierError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, []string{"1"}, dup.IDs)
	})
}
