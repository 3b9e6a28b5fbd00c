package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID int
	Quantity  int
}

// CreateOrderCommand represents a customer placing an order from the catalog.
// Prices, names and categories are captured from the catalog by the handler.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("tg:5511", order.ChannelTelegram,
//	    []OrderLine{{ProductID: 1, Quantity: 2}}, "NYALI", "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	snapshot, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerRef string
	channel     order.Channel
	lines       []OrderLine
	zone        kernel.Zone
	priority    order.Priority

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. An empty channel means web;
// an empty priority means NORMAL.
//
// Returns order.ErrEmptyOrder when lines is empty.
func NewCreateOrderCommand(
	customerRef string,
	channel order.Channel,
	lines []OrderLine,
	zone string,
	priority string,
) (CreateOrderCommand, error) {
	if len(lines) == 0 {
		return CreateOrderCommand{}, order.ErrEmptyOrder
	}

	cmd := CreateOrderCommand{
		customerRef: strings.TrimSpace(customerRef),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setChannel(channel),
		cmd.setLines(lines),
		cmd.setZone(zone),
		cmd.setPriority(priority),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerRef() string      { return c.customerRef }
func (c CreateOrderCommand) Channel() order.Channel   { return c.channel }
func (c CreateOrderCommand) Zone() kernel.Zone        { return c.zone }
func (c CreateOrderCommand) Priority() order.Priority { return c.priority }

// Lines returns a copy of the requested lines.
func (c CreateOrderCommand) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *CreateOrderCommand) setChannel(channel order.Channel) error {
	if channel == "" {
		channel = order.ChannelWeb
	}
	if err := channel.Validate(); err != nil {
		return err
	}
	c.channel = channel
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	var errList []error
	for i, line := range lines {
		if line.ProductID <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].productId", i), fmt.Errorf("%d is not a product id", line.ProductID)))
		}
		if line.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].qty", i), fmt.Errorf("%d is not greater than 0", line.Quantity)))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.lines = make([]OrderLine, len(lines))
	copy(c.lines, lines)
	return nil
}

func (c *CreateOrderCommand) setZone(zone string) error {
	z, err := kernel.ParseZone(zone)
	if err != nil {
		return err
	}
	c.zone = z
	return nil
}

func (c *CreateOrderCommand) setPriority(priority string) error {
	p, err := order.ParsePriority(priority)
	if err != nil {
		return err
	}
	c.priority = p
	return nil
}
