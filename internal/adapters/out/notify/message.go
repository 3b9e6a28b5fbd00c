// Package notify publishes order events to external brokers.
//
// Every broker receives the same JSON envelope:
//
//	{"id": "...", "type": "order_updated", "occurredAt": "...", "order": {...}}
//
// and routes it by event type: Redis channel "<prefix>.<type>", AMQP routing
// key "<type>" on a topic exchange, NATS subject "<prefix>.<type>".
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// Message is the wire envelope of one order event.
type Message struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Order      order.Snapshot `json:"order"`
}

// NewMessage builds the envelope for e.
func NewMessage(e order.Event) Message {
	return Message{
		ID:         e.ID.String(),
		Type:       string(e.Type),
		OccurredAt: e.OccurredAt,
		Order:      e.Order,
	}
}

// Encode marshals the envelope for e.
func Encode(e order.Event) ([]byte, error) {
	body, err := json.Marshal(NewMessage(e))
	if err != nil {
		return nil, fmt.Errorf("encode %s event for order %s: %w", e.Type, e.Order.ID, err)
	}
	return body, nil
}

func topic(prefix string, e order.Event) string {
	if prefix == "" {
		return string(e.Type)
	}
	return prefix + "." + string(e.Type)
}
