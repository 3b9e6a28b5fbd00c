package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventType names the realtime feed channel an event is broadcast on.
type EventType string

const (
	EventNewOrder     EventType = "new_order"
	EventOrderUpdated EventType = "order_updated"
)

// Event is recorded by the aggregate on every mutation and published once
// the surrounding unit of work commits.
type Event struct {
	ID         kernel.UUID `json:"id"`
	Type       EventType   `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Order      Snapshot    `json:"order"`
}
