package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSetPriorityCommandIsNotConstructed = errors.New(
	"SetPriorityCommand must be created via NewSetPriorityCommand constructor",
)

// SetPriorityCommand changes the declared priority of an order.
type SetPriorityCommand struct {
	orderID  string
	priority order.Priority

	guard guard.ConstructorGuard
}

func NewSetPriorityCommand(orderID string, priority string) (SetPriorityCommand, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return SetPriorityCommand{}, errs.NewValueIsRequiredError("orderId")
	}
	if strings.TrimSpace(priority) == "" {
		return SetPriorityCommand{}, errs.NewValueIsRequiredError("priority")
	}
	p, err := order.ParsePriority(priority)
	if err != nil {
		return SetPriorityCommand{}, err
	}

	return SetPriorityCommand{
		orderID:  orderID,
		priority: p,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SetPriorityCommand) Validate() error {
	return c.guard.Validate(ErrSetPriorityCommandIsNotConstructed)
}

func (c SetPriorityCommand) OrderID() string          { return c.orderID }
func (c SetPriorityCommand) Priority() order.Priority { return c.priority }
