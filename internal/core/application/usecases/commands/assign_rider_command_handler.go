package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignRiderResult is the assigned order and how its rider was chosen.
type AssignRiderResult struct {
	Order    order.Snapshot `json:"order"`
	Dispatch DispatchMeta   `json:"dispatch"`
}

// AssignRiderCommandHandler orchestrates a single assignment.
//
// Example:
//
//	handler := NewAssignRiderCommandHandler(uowFactory, riders, services.NewRiderMatcher(), clock)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrNoRider):
//	    // order stays in the pool for the next sweep
//	case errors.Is(err, order.ErrNotReady):
//	    // order is not READY_FOR_PICKUP or already has a rider
//	}
type AssignRiderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher dispatcher
	clock      Clock
}

func NewAssignRiderCommandHandler(
	uowFactory UoWFactory,
	riders ports.RiderDirectory,
	matcher services.RiderMatcher,
	clock Clock,
) AssignRiderCommandHandler {
	return AssignRiderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher{riders: riders, matcher: matcher},
		clock:      clock,
	}
}

// Handle assigns the order.
//
// Errors: errs.ObjectNotFoundError for an unknown order or rider,
// order.ErrNotReady, services.ErrNoRider, services.ErrRiderUnavailable and
// services.ErrRiderAtCapacity.
func (h AssignRiderCommandHandler) Handle(ctx context.Context, cmd AssignRiderCommand) (AssignRiderResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignRiderResult{}, err
	}

	var (
		result     AssignRiderResult
		noRiderErr error
	)
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		o, err := repo.Get(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		meta, err := h.dispatcher.assign(ctx, repo, o, cmd.RiderID(), h.clock.now())
		if errors.Is(err, services.ErrNoRider) {
			// keep the cleared exclusion
			noRiderErr = err
			return nil
		}
		if err != nil {
			return err
		}

		result = AssignRiderResult{Order: o.Snapshot(), Dispatch: meta}
		return nil
	})
	if err != nil {
		return AssignRiderResult{}, err
	}
	if noRiderErr != nil {
		return AssignRiderResult{}, noRiderErr
	}

	return result, nil
}
