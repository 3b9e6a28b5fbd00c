package commands

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignRiderCommandIsNotConstructed = errors.New(
	"AssignRiderCommand must be created via NewAssignRiderCommand constructor",
)

// AssignRiderCommand assigns a rider to one ready order. An empty riderID
// lets the matcher choose.
//
// Example:
//
//	cmd, _ := NewAssignRiderCommand("ORD-1718000000000", "")   // automatic
//	cmd, _ := NewAssignRiderCommand("ORD-1718000000000", "r2") // manual
type AssignRiderCommand struct {
	orderID string
	riderID string

	guard guard.ConstructorGuard
}

func NewAssignRiderCommand(orderID, riderID string) (AssignRiderCommand, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return AssignRiderCommand{}, errs.NewValueIsRequiredError("orderId")
	}

	return AssignRiderCommand{
		orderID: orderID,
		riderID: strings.TrimSpace(riderID),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignRiderCommand) Validate() error {
	return c.guard.Validate(ErrAssignRiderCommandIsNotConstructed)
}

func (c AssignRiderCommand) OrderID() string { return c.orderID }
func (c AssignRiderCommand) RiderID() string { return c.riderID }
func (c AssignRiderCommand) IsManual() bool  { return c.riderID != "" }
