package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceByRiderCommandIsNotConstructed = errors.New(
	"AdvanceByRiderCommand must be created via NewAdvanceByRiderCommand constructor",
)

// AdvanceByRiderCommand is the assigned rider reporting pickup, departure
// or drop-off.
type AdvanceByRiderCommand struct {
	orderID string
	riderID string
	status  order.Status

	guard guard.ConstructorGuard
}

func NewAdvanceByRiderCommand(orderID, riderID string, status order.Status) (AdvanceByRiderCommand, error) {
	cmd := AdvanceByRiderCommand{
		orderID: strings.TrimSpace(orderID),
		riderID: strings.TrimSpace(riderID),
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}

	var errList []error
	if cmd.orderID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("orderId"))
	}
	if cmd.riderID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("riderId"))
	}
	errList = append(errList, status.Validate())
	if err := errors.Join(errList...); err != nil {
		return AdvanceByRiderCommand{}, err
	}

	return cmd, nil
}

func (c AdvanceByRiderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceByRiderCommandIsNotConstructed)
}

func (c AdvanceByRiderCommand) OrderID() string      { return c.orderID }
func (c AdvanceByRiderCommand) RiderID() string      { return c.riderID }
func (c AdvanceByRiderCommand) Status() order.Status { return c.status }
