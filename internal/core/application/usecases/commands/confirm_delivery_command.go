package commands

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand is the customer presenting the delivery code.
// customerRef is optional; when given it must match the order's customer.
type ConfirmDeliveryCommand struct {
	orderID     string
	code        string
	customerRef string

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(orderID, code, customerRef string) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		orderID:     strings.TrimSpace(orderID),
		code:        strings.TrimSpace(code),
		customerRef: strings.TrimSpace(customerRef),
		guard:       guard.NewConstructorGuard(),
	}

	var errList []error
	if cmd.orderID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("orderId"))
	}
	if cmd.code == "" {
		errList = append(errList, errs.NewValueIsRequiredError("code"))
	}
	if err := errors.Join(errList...); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) OrderID() string     { return c.orderID }
func (c ConfirmDeliveryCommand) Code() string        { return c.code }
func (c ConfirmDeliveryCommand) CustomerRef() string { return c.customerRef }
