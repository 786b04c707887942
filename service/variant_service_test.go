package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/events"
	"subsdesk/models"
)

const ordersCSV = `Customer: Email,Shipping: Country,Line: Name,Line: Quantity,Payment: Status,Line: Type
a@x.com,FR,Bundle,1,paid,Line Item
A@X.com,FR,Bonus,2,paid,Line Item
b@x.com,BE,Bundle,1,paid,Line Item
c@x.com,FR,Bundle,1,paid,Line Item
c@x.com,FR,Shipping,1,paid,Shipping Line
d@x.com,FR,Bonus,1,pending,Line Item
e@x.com,DE,Poster,1,paid,Line Item
`

func TestParseProducts(t *testing.T) {
	assert.Equal(t, []string{"Bundle", "Poster"}, ParseProducts(" Bundle, ,Poster,Bundle "))
	assert.Empty(t, ParseProducts(""))
}

func TestVariantService_Analyze(t *testing.T) {
	bus := events.NewBus()
	completed := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeRunCompleted, func(ctx context.Context, event events.Event) {
		completed <- event
	})
	svc := NewVariantService(frozenClock, bus)

	result, err := svc.Analyze(context.Background(), InputFile{Name: "orders.csv", Data: []byte(ordersCSV)}, []string{"Bundle"}, "tester")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Report.Users)
	assert.Equal(t, 3, result.Report.UniqueVariants)
	require.Len(t, result.Report.Sections, 2)
	assert.Equal(t, "Bundle", result.Report.Sections[0].Title)
	assert.Equal(t, "variants_personnalises_20241117_150000.xlsx", result.Artifact.Name)

	select {
	case ev := <-completed:
		assert.Equal(t, ToolVariants, ev.(events.RunCompletedEvent).Tool)
	case <-frozenTimeout():
		t.Fatal("run completed event not delivered")
	}
}

func TestVariantService_MissingColumns(t *testing.T) {
	svc := NewVariantService(frozenClock, nil)
	_, err := svc.Analyze(context.Background(), InputFile{Name: "o.csv", Data: []byte("email,country\na@x.com,FR\n")}, nil, "tester")
	var missing *models.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}
