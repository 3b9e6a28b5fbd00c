package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderReader is the read side of the order store. Query handlers use it
// outside any unit of work.
type OrderReader interface {
	// Get retrieves an order by identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id string) (*order.Order, error)

	// List returns every order, newest first.
	List(ctx context.Context) ([]*order.Order, error)

	// ListByStatus returns orders in any of the given statuses, oldest first
	// (ties broken by identifier).
	ListByStatus(ctx context.Context, statuses ...order.Status) ([]*order.Order, error)

	// ActiveLoads counts, per rider id, the orders holding that rider
	// (order.ActiveLoadStatuses). Riders with no load are absent.
	ActiveLoads(ctx context.Context) (map[string]int, error)
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	OrderReader

	// Add persists a new order aggregate.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error
}
