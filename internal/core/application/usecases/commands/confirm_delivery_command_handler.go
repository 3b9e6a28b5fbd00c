package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// ConfirmDeliveryCommandHandler completes a DELIVERED order.
//
// Errors, checked in this order, leave the order untouched:
//   - order.ErrNotDelivered when the order is not DELIVERED
//   - order.ErrForbidden when the customer reference does not match
//   - order.ErrInvalidCode when the code does not match
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewConfirmDeliveryCommandHandler(uowFactory UoWFactory, clock Clock) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.ConfirmDelivery(cmd.Code(), cmd.CustomerRef(), h.clock.now())
	})
}
