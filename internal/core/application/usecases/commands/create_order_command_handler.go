package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderIDGenerator issues identifiers for new orders.
type OrderIDGenerator interface {
	NextID() string
}

// CreateOrderCommandHandler prices the requested lines from the catalog and
// stores the new order in CREATED status.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, idgen.NewOrderIDGenerator(nil), time.Now)
//	snapshot, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrEmptyOrder) {
//	    // reject
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.Catalog
	ids        OrderIDGenerator
	clock      Clock
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	catalog ports.Catalog,
	ids OrderIDGenerator,
	clock Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		ids:        ids,
		clock:      clock,
	}
}

// Handle creates the order and returns its snapshot.
// Unknown products fail with errs.ValueIsInvalidError.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	items, err := h.priceLines(ctx, cmd.Lines())
	if err != nil {
		return order.Snapshot{}, err
	}

	o, err := order.NewOrder(h.ids.NextID(), cmd.CustomerRef(), cmd.Channel(), items, cmd.Zone(), cmd.Priority(), h.clock.now())
	if err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := o.Snapshot()
	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	return snapshot, nil
}

func (h CreateOrderCommandHandler) priceLines(ctx context.Context, lines []OrderLine) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for i, line := range lines {
		p, err := h.catalog.Get(ctx, line.ProductID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].productId", i), err)
		}
		if err != nil {
			return nil, err
		}

		item, err := p.LineItem(line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
