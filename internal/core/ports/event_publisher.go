package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// EventPublisher delivers order events to the realtime feed and brokers.
// Delivery is best effort: a failed publish never undoes a committed change.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.Event) error
}
