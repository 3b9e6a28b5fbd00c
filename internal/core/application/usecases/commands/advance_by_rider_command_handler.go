package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// AdvanceByRiderCommandHandler lets the rider holding an order move it to
// PICKED_UP, ON_THE_WAY or DELIVERED. Any other rider gets order.ErrForbidden.
type AdvanceByRiderCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewAdvanceByRiderCommandHandler(uowFactory UoWFactory, clock Clock) AdvanceByRiderCommandHandler {
	return AdvanceByRiderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h AdvanceByRiderCommandHandler) Handle(ctx context.Context, cmd AdvanceByRiderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.AdvanceByRider(cmd.RiderID(), cmd.Status(), h.clock.now())
	})
}
