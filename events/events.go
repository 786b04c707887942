package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"subsdesk/models"
)

// EventType names a kind of event
type EventType string

const (
	EventTypeRunCompleted        EventType = "run_completed"
	EventTypeEnrichmentDegraded  EventType = "enrichment_degraded"
	EventTypeExternalListUpdated EventType = "external_list_updated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RunCompletedEvent is emitted once a tool run has produced its files
type RunCompletedEvent struct {
	RunID       string
	Tool        string
	RequestedBy string
	Inputs      []string
	Counts      map[models.Category]int
	Domestic    int
	Foreign     int
	Artifacts   []string
	Warnings    []string
	CompletedAt time.Time
}

func (e RunCompletedEvent) Type() EventType {
	return EventTypeRunCompleted
}

// EnrichmentDegradedEvent is emitted when an optional collaborator failed and
// the run continued without it
type EnrichmentDegradedEvent struct {
	RunID        string
	Collaborator string
	Reason       string
}

func (e EnrichmentDegradedEvent) Type() EventType {
	return EventTypeEnrichmentDegraded
}

// ExternalListUpdatedEvent is emitted after the external subscriber list was replaced
type ExternalListUpdatedEvent struct {
	Source string
	Count  int64
}

func (e ExternalListUpdatedEvent) Type() EventType {
	return EventTypeExternalListUpdated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit calls every handler of the event's type in its own goroutine.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// RunBus holds the events of one run until it finishes. Flush delivers them
// once the run succeeded; a run that never flushes publishes nothing.
type RunBus struct {
	target  *Bus
	pending []Event
}

// NewRunBus creates a pending queue in front of target. A nil target drops everything.
func NewRunBus(target *Bus) *RunBus {
	return &RunBus{target: target}
}

// Publish queues an event
func (b *RunBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits the queued events on a background context so handlers outlive the request
func (b *RunBus) Flush() {
	if b.target != nil {
		for _, ev := range b.pending {
			b.target.Emit(context.Background(), ev)
		}
	}
	log.WithField("eventCount", len(b.pending)).Debug("Flushed run events")
	b.pending = nil
}
