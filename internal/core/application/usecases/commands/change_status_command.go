package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrChangeStatusCommandIsNotConstructed = errors.New(
	"ChangeStatusCommand must be created via NewChangeStatusCommand constructor",
)

// ChangeStatusCommand is an operator moving an order along the transition table.
type ChangeStatusCommand struct {
	orderID string
	status  order.Status

	guard guard.ConstructorGuard
}

func NewChangeStatusCommand(orderID string, status order.Status) (ChangeStatusCommand, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ChangeStatusCommand{}, errs.NewValueIsRequiredError("orderId")
	}
	if err := status.Validate(); err != nil {
		return ChangeStatusCommand{}, err
	}

	return ChangeStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeStatusCommandIsNotConstructed)
}

func (c ChangeStatusCommand) OrderID() string      { return c.orderID }
func (c ChangeStatusCommand) Status() order.Status { return c.status }
