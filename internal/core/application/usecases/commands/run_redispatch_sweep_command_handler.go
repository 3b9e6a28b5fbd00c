package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// DefaultAssignmentTimeout is how long an order may sit ASSIGNED before the
// rider is released.
const DefaultAssignmentTimeout = 10 * time.Minute

// RedispatchedOrder is one stalled assignment released by the sweep.
type RedispatchedOrder struct {
	OrderID         string `json:"orderId"`
	PreviousRiderID string `json:"previousRiderId"`
	RedispatchCount int    `json:"redispatchCount"`
}

// RunRedispatchSweepCommandHandler returns stalled ASSIGNED orders to the
// dispatch pool with the previous rider excluded from the next match.
//
// Each order is released in its own unit of work. A failing order is logged
// and skipped; the rest of the sweep continues.
type RunRedispatchSweepCommandHandler struct {
	uowFactory UoWFactory
	timeout    time.Duration
	clock      Clock
	logger     *slog.Logger
}

// NewRunRedispatchSweepCommandHandler falls back to DefaultAssignmentTimeout
// for a non-positive timeout.
func NewRunRedispatchSweepCommandHandler(
	uowFactory UoWFactory,
	timeout time.Duration,
	clock Clock,
	logger *slog.Logger,
) RunRedispatchSweepCommandHandler {
	if timeout <= 0 {
		timeout = DefaultAssignmentTimeout
	}
	return RunRedispatchSweepCommandHandler{
		uowFactory: uowFactory,
		timeout:    timeout,
		clock:      clock,
		logger:     logger.With("component", "redispatch_sweep"),
	}
}

func (h RunRedispatchSweepCommandHandler) Handle(
	ctx context.Context,
	cmd RunRedispatchSweepCommand,
) ([]RedispatchedOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.now()

	var stalled []string
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		assigned, err := repo.ListByStatus(ctx, order.Assigned)
		if err != nil {
			return err
		}
		for _, o := range assigned {
			if o.AssignmentExpired(now, h.timeout) {
				stalled = append(stalled, o.ID())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	released := make([]RedispatchedOrder, 0, len(stalled))
	for _, id := range stalled {
		if err = ctx.Err(); err != nil {
			return released, err
		}

		r, ok, releaseErr := h.release(ctx, id, now)
		if releaseErr != nil {
			h.logger.ErrorContext(ctx, "failed to redispatch order", "order_id", id, "error", releaseErr)
			continue
		}
		if ok {
			h.logger.InfoContext(ctx, "order redispatched",
				"order_id", id, "previous_rider_id", r.PreviousRiderID, "redispatch_count", r.RedispatchCount)
			released = append(released, r)
		}
	}

	return released, nil
}

// release re-reads the order under the lock; it may have moved since the scan.
func (h RunRedispatchSweepCommandHandler) release(
	ctx context.Context,
	orderID string,
	now time.Time,
) (RedispatchedOrder, bool, error) {
	var (
		result RedispatchedOrder
		done   bool
	)
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.AssignmentExpired(now, h.timeout) {
			return nil
		}

		previous, err := o.Redispatch(now)
		if err != nil {
			return err
		}
		if err = repo.Update(ctx, o); err != nil {
			return err
		}

		result = RedispatchedOrder{
			OrderID:         o.ID(),
			PreviousRiderID: previous,
			RedispatchCount: o.RedispatchCount(),
		}
		done = true
		return nil
	})
	if err != nil {
		return RedispatchedOrder{}, false, err
	}
	return result, done, nil
}
