// Package tracking collects the aggregates written through a unit of work
// and hands their domain events to a publisher once the work commits.
package tracking

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// Tracker remembers every order aggregate added or updated in one unit of work.
// It is not safe for concurrent use; a unit of work belongs to one goroutine.
type Tracker struct {
	aggregates []*order.Order
}

// TrackAggregate registers an aggregate. Tracking the same pointer twice is a no-op.
func (t *Tracker) TrackAggregate(aggregate *order.Order) {
	for _, tracked := range t.aggregates {
		if tracked == aggregate {
			return
		}
	}
	t.aggregates = append(t.aggregates, aggregate)
}

// Tracked returns the number of aggregates registered.
func (t *Tracker) Tracked() int {
	return len(t.aggregates)
}

// DrainEvents takes the pending events off every tracked aggregate and forgets them.
func (t *Tracker) DrainEvents() []order.Event {
	var events []order.Event
	for _, aggregate := range t.aggregates {
		events = append(events, aggregate.DomainEvents()...)
		aggregate.ClearDomainEvents()
	}
	t.aggregates = nil
	return events
}

// Reset forgets tracked aggregates without touching their events.
func (t *Tracker) Reset() {
	t.aggregates = nil
}

// Publish sends events and logs a failure instead of returning it: the
// change they describe is already committed.
func Publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, events []order.Event) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.ErrorContext(ctx, "failed to publish order events", "count", len(events), "error", err)
	}
}
