package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

type GetOrderQueryHandler struct {
	orders ports.OrderReader
	sla    services.SLAEvaluator
	clock  Clock
}

func NewGetOrderQueryHandler(orders ports.OrderReader, sla services.SLAEvaluator, clock Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders, sla: sla, clock: clock}
}

// Handle returns errs.ErrObjectNotFound for an unknown id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	return newOrderView(o, h.sla, h.clock.now()), nil
}
