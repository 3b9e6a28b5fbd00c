package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// inUnitOfWork runs work inside a fresh unit of work and commits when it
// returns nil.
func inUnitOfWork(ctx context.Context, uowFactory UoWFactory, work func(repo ports.OrderRepository) error) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := work(uow.OrderRepository()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// mutateOrder loads one order inside a unit of work, applies change and
// persists the result. Nothing is written when change fails.
func mutateOrder(
	ctx context.Context,
	uowFactory UoWFactory,
	orderID string,
	change func(o *order.Order) error,
) (order.Snapshot, error) {
	if orderID == "" {
		return order.Snapshot{}, errs.NewValueIsRequiredError("orderId")
	}

	var snapshot order.Snapshot
	err := inUnitOfWork(ctx, uowFactory, func(repo ports.OrderRepository) error {
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err = change(o); err != nil {
			return err
		}
		if err = repo.Update(ctx, o); err != nil {
			return err
		}
		snapshot = o.Snapshot()
		return nil
	})
	if err != nil {
		return order.Snapshot{}, err
	}

	return snapshot, nil
}
