package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// SetPriorityCommandHandler updates an order's priority. Allowed in any status.
type SetPriorityCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewSetPriorityCommandHandler(uowFactory UoWFactory, clock Clock) SetPriorityCommandHandler {
	return SetPriorityCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h SetPriorityCommandHandler) Handle(ctx context.Context, cmd SetPriorityCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.SetPriority(cmd.Priority(), h.clock.now())
	})
}
