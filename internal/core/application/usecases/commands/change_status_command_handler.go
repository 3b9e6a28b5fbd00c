package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// ChangeStatusCommandHandler applies one manual status transition.
//
// Returns errs.ObjectNotFoundError for unknown orders and an error wrapping
// order.ErrInvalidTransition when the table forbids the move. Cancelling an
// assigned order frees the rider: the load view drops the order at once.
type ChangeStatusCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewChangeStatusCommandHandler(uowFactory UoWFactory, clock Clock) ChangeStatusCommandHandler {
	return ChangeStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h ChangeStatusCommandHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Transition(cmd.Status(), h.clock.now())
	})
}
