package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ListOrdersQueryHandler returns order views ordered by creation time
// descending, id descending on ties.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(reader, sla, clock)
//	orders, err := handler.Handle(ctx, NewListOrdersQuery())
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
type ListOrdersQueryHandler struct {
	orders ports.OrderReader
	sla    services.SLAEvaluator
	clock  Clock
}

func NewListOrdersQueryHandler(orders ports.OrderReader, sla services.SLAEvaluator, clock Clock) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders, sla: sla, clock: clock}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := h.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	now := h.clock.now()
	views := make([]OrderView, 0, len(all))
	for _, o := range all {
		views = append(views, newOrderView(o, h.sla, now))
	}
	return views, nil
}
