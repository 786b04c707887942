package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 2)

	bus.Subscribe(EventTypeRunCompleted, func(ctx context.Context, event Event) {
		received <- event
	})
	bus.Subscribe(EventTypeEnrichmentDegraded, func(ctx context.Context, event Event) {
		t.Errorf("unexpected delivery of %T", event)
	})

	bus.Emit(context.Background(), RunCompletedEvent{RunID: "r1", Tool: "abonnements"})

	ev := waitFor(t, received)
	run, ok := ev.(RunCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "r1", run.RunID)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(EventTypeEnrichmentDegraded, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeEnrichmentDegraded, func(ctx context.Context, event Event) {
		wg.Done()
	})

	bus.Emit(context.Background(), EnrichmentDegradedEvent{Collaborator: "smart filter"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler was not called")
	}
}

func TestRunBus(t *testing.T) {
	t.Run("flush delivers pending events", func(t *testing.T) {
		bus := NewBus()
		received := make(chan Event, 4)
		bus.Subscribe(EventTypeEnrichmentDegraded, func(ctx context.Context, event Event) {
			received <- event
		})

		run := NewRunBus(bus)
		run.Publish(EnrichmentDegradedEvent{RunID: "r1", Collaborator: "mongo"})
		select {
		case <-received:
			t.Fatal("event delivered before flush")
		case <-time.After(20 * time.Millisecond):
		}

		run.Flush()
		ev := waitFor(t, received)
		assert.Equal(t, "mongo", ev.(EnrichmentDegradedEvent).Collaborator)

		run.Flush()
		select {
		case <-received:
			t.Fatal("event delivered twice")
		case <-time.After(20 * time.Millisecond):
		}
	})

	t.Run("nil bus", func(t *testing.T) {
		run := NewRunBus(nil)
		run.Publish(RunCompletedEvent{})
		assert.NotPanics(t, run.Flush)
	})
}
